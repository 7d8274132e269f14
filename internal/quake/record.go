// Package quake holds the earthquake value types shared by the provider
// fetchers, the reply formatter and the command router, plus the lenient
// time and number parsing every provider payload needs.
package quake

import "time"

// Record is one earthquake as reported by a single provider.
// OriginTime is always UTC; a zero OriginTime means the provider gave none we could read.
type Record struct {
	ID         string
	OriginTime time.Time
	Latitude   float64
	Longitude  float64
	Depth      *float64 // km
	Magnitude  *float64
	Location   string
	ReportURL  string
	ImageURL   string
}

// Local returns the origin time in the fixed display offset (UTC+8).
func (r Record) Local() time.Time {
	return r.OriginTime.In(TaipeiTZ)
}

// HasTime reports whether the origin time was parsed.
func (r Record) HasTime() bool {
	return !r.OriginTime.IsZero()
}

// Alarm is a CWA earthquake early-warning message.
type Alarm struct {
	Record
	Identifier string
	MsgType    string
	MsgNo      string
	Areas      []string
}

// ByTimeDesc sorts records newest first; records without a time go last.
func ByTimeDesc(a, b Record) int {
	switch {
	case a.HasTime() && !b.HasTime():
		return -1
	case !a.HasTime() && b.HasTime():
		return 1
	}
	return b.OriginTime.Compare(a.OriginTime)
}

// BoundingBox is a latitude/longitude rectangle in degrees.
type BoundingBox struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}
