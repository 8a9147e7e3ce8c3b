package services

import (
	"context"
	"testing"
	"time"

	"studyabroad-backend/internal/apperr"
	"studyabroad-backend/internal/models"

	"go.uber.org/zap"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func newClockFixture() (*memDB, *ClockService, *stepClock) {
	db := newMemDB()
	clk := &stepClock{t: time.Date(2026, 2, 2, 8, 0, 0, 123_456_789, time.UTC)}
	svc := NewClockService(&fakeClocks{db: db}, zap.NewNop())
	svc.now = clk.now
	return db, svc, clk
}

func TestClockIn_OnlyOneOpenSession(t *testing.T) {
	db, svc, _ := newClockFixture()
	op := callerFor(db.addAdmin("op1", "Sami", models.RoleOperator))
	ctx := context.Background()

	if _, err := svc.ClockIn(ctx, op, models.GeoPoint{}); err != nil {
		t.Fatalf("first clock in: %v", err)
	}
	_, err := svc.ClockIn(ctx, op, models.GeoPoint{})
	if apperr.KindOf(err) != apperr.KindConflict || apperr.MessageOf(err) != "Already clocked in." {
		t.Fatalf("second clock in: got %v", err)
	}
	if len(db.clocks) != 1 {
		t.Errorf("expected one record, got %d", len(db.clocks))
	}
}

func TestClockOut_WithoutSession(t *testing.T) {
	db, svc, _ := newClockFixture()
	op := callerFor(db.addAdmin("op1", "Sami", models.RoleOperator))

	_, err := svc.ClockOut(context.Background(), op, models.GeoPoint{})
	if apperr.MessageOf(err) != "Not clocked in." {
		t.Fatalf("got %v", err)
	}
}

func TestClockOut_DurationIsExact(t *testing.T) {
	db, svc, clk := newClockFixture()
	op := callerFor(db.addAdmin("op1", "Sami", models.RoleOperator))
	ctx := context.Background()

	in, err := svc.ClockIn(ctx, op, models.GeoPoint{Lat: floatPtr(36.75), Lng: floatPtr(3.47)})
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if in.ClockIn.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("clock in should be truncated to ms, got %v", in.ClockIn)
	}

	clk.t = clk.t.Add(2*time.Hour + 15*time.Minute + 42*time.Millisecond)
	out, err := svc.ClockOut(ctx, op, models.GeoPoint{})
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	want := out.ClockOut.Sub(out.ClockIn).Milliseconds()
	if out.DurationMs == nil || *out.DurationMs != want {
		t.Fatalf("durationMs: got %v, want %d", out.DurationMs, want)
	}
	if want != (2*time.Hour + 15*time.Minute + 42*time.Millisecond).Milliseconds() {
		t.Errorf("unexpected duration %d", want)
	}
	if *out.EntryLat != 36.75 || out.ExitLat != nil {
		t.Errorf("coords: entry=%v exit=%v", out.EntryLat, out.ExitLat)
	}

	active, _ := svc.ActiveRecord(ctx, op)
	if active != nil {
		t.Error("no session should remain open")
	}
}

func TestClockIn_DropsInvalidCoordinates(t *testing.T) {
	db, svc, _ := newClockFixture()
	op := callerFor(db.addAdmin("op1", "Sami", models.RoleOperator))

	tests := []models.GeoPoint{
		{Lat: floatPtr(36.75)},
		{Lat: floatPtr(91), Lng: floatPtr(3)},
		{Lat: floatPtr(0), Lng: floatPtr(-181)},
	}
	for _, geo := range tests {
		rec, err := svc.ClockIn(context.Background(), op, geo)
		if err != nil {
			t.Fatalf("ClockIn: %v", err)
		}
		if rec.EntryLat != nil || rec.EntryLng != nil {
			t.Errorf("expected coordinates dropped for %+v", geo)
		}
		if _, err := svc.ClockOut(context.Background(), op, models.GeoPoint{}); err != nil {
			t.Fatalf("ClockOut: %v", err)
		}
	}
}

func TestListRecords_AdminOrAbove(t *testing.T) {
	db, svc, _ := newClockFixture()
	op := callerFor(db.addAdmin("op1", "Sami", models.RoleOperator))
	admin := callerFor(db.addAdmin("admin", "Lina", models.RoleAdmin))
	ctx := context.Background()

	if _, err := svc.ListRecords(ctx, op); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("operator: got %v", err)
	}
	if _, err := svc.TimesheetPDF(ctx, op); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("operator pdf: got %v", err)
	}

	svc.ClockIn(ctx, op, models.GeoPoint{})
	records, err := svc.ListRecords(ctx, admin)
	if err != nil || len(records) != 1 {
		t.Fatalf("admin: %v %d", err, len(records))
	}

	pdf, err := svc.TimesheetPDF(ctx, admin)
	if err != nil {
		t.Fatalf("TimesheetPDF: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Error("expected a PDF document")
	}
}
