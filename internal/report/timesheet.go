// Package report renders printable documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// Timesheet renders clock records as an A4 landscape attendance table.
func Timesheet(records []models.ClockRecord, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Attendance", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, "Staff Attendance", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", timeutil.FormatLocal(generatedAt, timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	widths := []float64{50, 60, 30, 38, 38, 25, 36}
	headers := []string{"Name", "Email", "Role", "Clock In", "Clock Out", "Duration", "Location In"}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, h, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	var totalMs int64
	for _, rec := range records {
		name, email, role := "", "", ""
		if rec.Admin != nil {
			name, email, role = rec.Admin.Name, rec.Admin.Email, string(rec.Admin.Role)
		}

		clockOut := "Active"
		duration := "-"
		if rec.ClockOut != nil {
			clockOut = timeutil.FormatLocal(*rec.ClockOut, timeutil.DisplayLayout)
		}
		if rec.DurationMs != nil {
			duration = timeutil.FormatDuration(*rec.DurationMs)
			totalMs += *rec.DurationMs
		}

		pdf.CellFormat(widths[0], 6, tr(truncate(name, 28)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(truncate(email, 34)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, role, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, timeutil.FormatLocal(rec.ClockIn, timeutil.DisplayLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, clockOut, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, duration, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[6], 6, FormatCoords(rec.EntryLat, rec.EntryLng), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(277, 8, fmt.Sprintf("Sessions: %d    Total time: %s", len(records), timeutil.FormatDuration(totalMs)), "1", 1, "L", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render timesheet: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatCoords renders a coordinate pair to four decimals, or "-" when missing.
func FormatCoords(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f, %.4f", *lat, *lng)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
