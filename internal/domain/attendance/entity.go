package attendance

import (
	"sort"
	"time"
)

type EventKind string

const (
	EventCheckIn  EventKind = "CHECK_IN"
	EventCheckOut EventKind = "CHECK_OUT"
)

// AttendanceEvent is a single punch taken from the log source.
type AttendanceEvent struct {
	Timestamp      time.Time
	Kind           EventKind
	DistanceMeters *float64
	Address        *string
}

// RawEvent mirrors one row of the log source: a check-in/check-out pair where
// either side may be missing.
type RawEvent struct {
	CheckIn        *time.Time
	CheckOut       *time.Time
	DistanceMeters *float64
	Address        *string
}

// DailyLog holds every raw event recorded for an employee on one date.
type DailyLog struct {
	Date      string // YYYY-MM-DD
	RawEvents []RawEvent
}

// Events flattens the raw pairs into timestamp-ordered punches.
// A check-in sorts before a check-out carrying the same timestamp.
func (d DailyLog) Events() []AttendanceEvent {
	events := make([]AttendanceEvent, 0, len(d.RawEvents)*2)
	for _, raw := range d.RawEvents {
		if raw.CheckIn != nil {
			events = append(events, AttendanceEvent{
				Timestamp:      *raw.CheckIn,
				Kind:           EventCheckIn,
				DistanceMeters: raw.DistanceMeters,
				Address:        raw.Address,
			})
		}
		if raw.CheckOut != nil {
			events = append(events, AttendanceEvent{
				Timestamp:      *raw.CheckOut,
				Kind:           EventCheckOut,
				DistanceMeters: raw.DistanceMeters,
				Address:        raw.Address,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Kind == EventCheckIn && events[j].Kind == EventCheckOut
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	return events
}
