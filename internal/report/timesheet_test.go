package report

import (
	"bytes"
	"testing"
	"time"

	"studyabroad-backend/internal/models"
)

func TestTimesheet_RendersPDF(t *testing.T) {
	in := time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC)
	out := in.Add(90 * time.Minute)
	dur := out.Sub(in).Milliseconds()
	lat, lng := 36.75, 3.47

	records := []models.ClockRecord{
		{
			ID: "r1", AdminID: "a1", ClockIn: in, ClockOut: &out, DurationMs: &dur,
			EntryLat: &lat, EntryLng: &lng,
			Admin: &models.ClockAdmin{ID: "a1", Name: "Sami Benali", Email: "sami@example.com", Role: models.RoleOperator},
		},
		{
			ID: "r2", AdminID: "a2", ClockIn: in,
			Admin: &models.ClockAdmin{ID: "a2", Name: "Lina", Email: "lina@example.com", Role: models.RoleAdmin},
		},
	}

	pdf, err := Timesheet(records, out)
	if err != nil {
		t.Fatalf("Timesheet: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", pdf[:8])
	}
}

func TestFormatCoords(t *testing.T) {
	lat, lng := 36.753768, 3.0587561
	if got := FormatCoords(&lat, &lng); got != "36.7538, 3.0588" {
		t.Errorf("FormatCoords: got %q", got)
	}
	if got := FormatCoords(&lat, nil); got != "-" {
		t.Errorf("partial pair: got %q", got)
	}
}
