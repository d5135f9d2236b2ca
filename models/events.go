package models

// Event types for special days. A date with no event record is treated
// as EventRegular everywhere.
const (
	EventSalesDay = "salesday"
	EventFestival = "festival"
	EventRegular  = "regular"
)

// Event is a special-day record keyed by calendar date (YYYY-MM-DD).
// At most one record exists per date; createOrUpdate enforces that at
// the call site.
type Event struct {
	EventID   string `json:"eventid" bson:"eventid"`
	EventDate string `json:"event_date" bson:"event_date"`
	EventType string `json:"event_type" bson:"event_type"`
	EventName string `json:"event_name" bson:"event_name"`
}
