package shift

import "time"

// HourWindow is the half-open hour range [FromHour, ToHour).
type HourWindow struct {
	FromHour int
	ToHour   int
}

// Contains reports whether the hour of t falls inside the window.
func (w HourWindow) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.FromHour && h < w.ToHour
}

type ShiftProfile struct {
	ID                  string
	Name                string
	StartHour           int
	StartMinute         int
	LateThresholdHour   int
	LateThresholdMinute int
	EndHour             int

	// LateGrace is where a late check-in may be forgiven once per month.
	LateGrace HourWindow
	// EarlyGrace is where an early check-out may be forgiven once per month.
	EarlyGrace HourWindow
}

// LateThreshold returns the late-arrival cutoff on the day of ref.
func (p ShiftProfile) LateThreshold(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), p.LateThresholdHour, p.LateThresholdMinute, 0, 0, ref.Location())
}

// OfficialEnd returns the shift end (at :00) on the day of ref.
func (p ShiftProfile) OfficialEnd(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), p.EndHour, 0, 0, 0, ref.Location())
}

const (
	StandardID = "standard"
	SpecialAID = "special-a"
	SpecialBID = "special-b"
)

// Seed profiles. Their thresholds must not drift.
var (
	Standard = ShiftProfile{
		ID:                  StandardID,
		Name:                "Standard",
		StartHour:           8,
		LateThresholdHour:   8,
		LateThresholdMinute: 15,
		EndHour:             17,
		LateGrace:           HourWindow{FromHour: 8, ToHour: 10},
		EarlyGrace:          HourWindow{FromHour: 15, ToHour: 17},
	}

	SpecialA = ShiftProfile{
		ID:                SpecialAID,
		Name:              "Special A",
		StartHour:         10,
		LateThresholdHour: 10,
		EndHour:           17,
		LateGrace:         HourWindow{FromHour: 10, ToHour: 12},
		EarlyGrace:        HourWindow{FromHour: 15, ToHour: 17},
	}

	SpecialB = ShiftProfile{
		ID:                SpecialBID,
		Name:              "Special B",
		StartHour:         9,
		LateThresholdHour: 9,
		EndHour:           19,
		LateGrace:         HourWindow{FromHour: 9, ToHour: 11},
		EarlyGrace:        HourWindow{FromHour: 17, ToHour: 19},
	}
)

// SeedProfiles lists the built-in profiles in a stable order.
func SeedProfiles() []ShiftProfile {
	return []ShiftProfile{Standard, SpecialA, SpecialB}
}
