package timeutil

import (
	"fmt"
	"time"
)

// Local is the business display location. Storage and arithmetic stay in UTC.
var Local *time.Location

func init() {
	SetLocation("Africa/Algiers")
}

// SetLocation switches the display location, keeping the previous one if name is unknown.
func SetLocation(name string) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		if Local == nil {
			// Algeria has no DST
			Local = time.FixedZone("CET", 60*60)
		}
		return
	}
	Local = loc
}

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// ToLocal converts any time to the business location
func ToLocal(t time.Time) time.Time {
	return t.In(Local)
}

// FormatLocal formats a time in the business location using the given layout
func FormatLocal(t time.Time, layout string) string {
	return t.In(Local).Format(layout)
}

// FormatDuration renders milliseconds as "Xh Ym".
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%dh %dm", int64(d/time.Hour), int64((d%time.Hour)/time.Minute))
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 15:04"
	FileLayout     = "20060102_150405"
)
