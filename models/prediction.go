package models

// PredictionRequest is the fixed payload shape of the external
// prediction service's /predict and /predict_availability endpoints.
// CheckinTimestamp uses the "2006-01-02 15:04:05" layout.
type PredictionRequest struct {
	DayOfWeek        string `json:"day_of_week"`
	SlotType         string `json:"slot_type"`
	EventType        string `json:"event_type"`
	CheckinTimestamp string `json:"checkin_timestamp"`
	IsEventDay       int    `json:"is_event_day"`
	IsWeekend        int    `json:"is_weekend"`
}

type WaitPrediction struct {
	PredictedWaitTimeMinutes float64 `json:"predicted_wait_time_minutes"`
}

type AvailabilityPrediction struct {
	ProbabilitySlotAvailable float64 `json:"probability_slot_available"`
}

// IngestRecord is the fire-and-forget payload POSTed to /newdata after
// a slot is vacated.
type IngestRecord struct {
	SlotID            string `json:"slot_id"`
	CheckinTimestamp  string `json:"checkin_timestamp"`
	CheckoutTimestamp string `json:"checkout_timestamp"`
	DayOfWeek         string `json:"day_of_week"`
	SlotType          string `json:"slot_type"`
	EventType         string `json:"event_type"`
	IsEventDay        int    `json:"is_event_day"`
	WaitTimeMinute    int    `json:"wait_time_minute"`
}
