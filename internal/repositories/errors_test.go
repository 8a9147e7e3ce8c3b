package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.in); !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("translate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	other := errors.New("connection reset")
	if translate(other) != other {
		t.Error("unrelated errors must pass through")
	}
}

func TestValidIDs(t *testing.T) {
	a := "3f1c9f3e-9a51-4a4b-8f0e-5b8f8a0b1c2d"
	b := "7d2e4c1a-0b3f-4e5d-9c8b-1a2b3c4d5e6f"

	got := validIDs([]string{a, "not-a-uuid", b, a, ""})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("validIDs: got %v", got)
	}
}
