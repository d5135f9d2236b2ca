package models

import "time"

// Slot categories, derived from the first byte of the slot identifier.
const (
	CategoryCar     = "car"
	CategoryBike    = "bike"
	CategoryAbled   = "abled"
	CategoryUnknown = "unknown"
)

type Slot struct {
	SlotID   string     `json:"slotid" bson:"slotid"`
	SlotType string     `json:"slot_type" bson:"slot_type"`
	Vacancy  bool       `json:"vacancy" bson:"vacancy"`
	CheckIn  *time.Time `json:"check_in" bson:"check_in"`
	CheckOut *time.Time `json:"check_out" bson:"check_out"`
}

// WaitLogEntry records one queueing episode for a category. It is open
// (check_out and wait_time null) from the moment a category fills until
// the first slot of that category is vacated.
type WaitLogEntry struct {
	ID        string     `json:"id" bson:"id"`
	SlotID    string     `json:"slotid" bson:"slotid"`
	Category  string     `json:"category" bson:"category"`
	EventType string     `json:"event_type" bson:"event_type"`
	CheckIn   time.Time  `json:"check_in" bson:"check_in"`
	CheckOut  *time.Time `json:"check_out" bson:"check_out"`
	WaitTime  *int       `json:"wait_time" bson:"wait_time"`
}

// SlotEvent is published on every accepted toggle and drives the live
// occupancy feed.
type SlotEvent struct {
	SlotID   string    `json:"slotid"`
	SlotType string    `json:"slot_type"`
	Vacancy  bool      `json:"vacancy"`
	At       time.Time `json:"at"`
}
