package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedProxies_Resolve(t *testing.T) {
	proxies, err := NewTrustedProxies([]string{"10.0.0.0/8", "192.0.2.10"})
	if err != nil {
		t.Fatalf("NewTrustedProxies: %v", err)
	}

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted peer ignores forwarded", "203.0.113.7:5555", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "203.0.113.7"},
		{"untrusted peer ignores real ip", "203.0.113.7:5555", map[string]string{"X-Real-IP": "1.1.1.1"}, "203.0.113.7"},
		{"trusted proxy forwards client", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "203.0.113.5"},
		{"spoofed leftmost hop skipped", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "1.1.1.1, 203.0.113.5"}, "203.0.113.5"},
		{"chained trusted proxies", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "203.0.113.5, 192.0.2.10, 10.1.2.3"}, "203.0.113.5"},
		{"trusted bare address", "192.0.2.10:80", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"garbage header falls back to peer", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.1"},
		{"no headers", "192.0.2.1:1234", nil, "192.0.2.1"},
		{"remote without port", "192.0.2.1", nil, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := proxies.Resolve(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRealIP_RotatingForwardedForKeepsOneIdentity(t *testing.T) {
	proxies, err := NewTrustedProxies(nil)
	if err != nil {
		t.Fatalf("NewTrustedProxies: %v", err)
	}

	seen := map[string]bool{}
	h := proxies.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[ClientIP(r)] = true
	}))
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		r := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		r.RemoteAddr = "203.0.113.7:5555"
		r.Header.Set("X-Forwarded-For", spoofed)
		h.ServeHTTP(httptest.NewRecorder(), r)
	}

	if len(seen) != 1 || !seen["203.0.113.7"] {
		t.Errorf("identities: got %v, want only 203.0.113.7", seen)
	}
}

func TestClientIP_WithoutRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.2:443"
	r.Header.Set("X-Forwarded-For", "1.1.1.1")
	if got := ClientIP(r); got != "198.51.100.2" {
		t.Errorf("got %q", got)
	}
}

func TestNewTrustedProxies_RejectsInvalid(t *testing.T) {
	for _, entry := range []string{"10.0.0.0/33", "proxy.internal"} {
		if _, err := NewTrustedProxies([]string{entry}); err == nil {
			t.Errorf("%q: expected error", entry)
		}
	}
}
