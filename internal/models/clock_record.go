package models

import "time"

// ClockRecord is one work session. It is open while ClockOut is nil.
type ClockRecord struct {
	ID         string      `json:"id"`
	AdminID    string      `json:"adminId"`
	ClockIn    time.Time   `json:"clockIn"`
	ClockOut   *time.Time  `json:"clockOut"`
	DurationMs *int64      `json:"durationMs"`
	EntryLat   *float64    `json:"entryLat"`
	EntryLng   *float64    `json:"entryLng"`
	ExitLat    *float64    `json:"exitLat"`
	ExitLng    *float64    `json:"exitLng"`
	Admin      *ClockAdmin `json:"admin,omitempty"`
}

// ClockAdmin is the staff identity shown in the attendance table.
type ClockAdmin struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (c *ClockRecord) IsOpen() bool {
	return c.ClockOut == nil
}

// GeoPoint is an optional coordinate pair sent by the browser.
type GeoPoint struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Valid reports whether both coordinates are present and within range.
func (g GeoPoint) Valid() bool {
	if g.Lat == nil || g.Lng == nil {
		return false
	}
	return *g.Lat >= -90 && *g.Lat <= 90 && *g.Lng >= -180 && *g.Lng <= 180
}

// Empty reports whether no coordinate was sent at all.
func (g GeoPoint) Empty() bool {
	return g.Lat == nil && g.Lng == nil
}

type ClockInResponse struct {
	Success  bool   `json:"success"`
	RecordID string `json:"recordId"`
}

type ClockOutResponse struct {
	Success    bool  `json:"success"`
	DurationMs int64 `json:"durationMs"`
	LoggedOut  bool  `json:"loggedOut"`
}
