// model/availability.go
package model

import "time"

type DayState string

const (
	DayFree     DayState = "free"
	DayReserved DayState = "reserved"
	DayBorrowed DayState = "borrowed"
)

// DayAvailability is derived per horizon day, never persisted.
type DayAvailability struct {
	Date            time.Time `json:"date"`
	OccupiedCount   int       `json:"occupied_count"`
	AvailableCopies int       `json:"available_copies"`
	State           DayState  `json:"state"`
}
