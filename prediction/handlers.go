package prediction

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"kerbside/models"
	"kerbside/utils"

	"github.com/julienschmidt/httprouter"
)

// EventSource resolves the special-day record for a calendar date, if
// one exists.
type EventSource interface {
	EventByDate(ctx context.Context, date string) (*models.Event, error)
}

// Handlers exposes the prediction service to clients and composes the
// per-category visit-planning outlook.
type Handlers struct {
	Client *Client
	Events EventSource
}

func NewHandlers(client *Client, events EventSource) *Handlers {
	return &Handlers{Client: client, Events: events}
}

func (h *Handlers) PredictWait(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	minutes, err := h.Client.PredictWait(r.Context(), req)
	if err != nil {
		log.Printf("predict wait failed: %v", err)
		utils.RespondWithError(w, http.StatusBadGateway, "prediction service unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.WaitPrediction{PredictedWaitTimeMinutes: minutes})
}

func (h *Handlers) PredictAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	prob, err := h.Client.PredictAvailability(r.Context(), req)
	if err != nil {
		log.Printf("predict availability failed: %v", err)
		utils.RespondWithError(w, http.StatusBadGateway, "prediction service unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.AvailabilityPrediction{ProbabilitySlotAvailable: prob})
}

// CategoryOutlook is one row of the visit-planning response. WaitMinutes
// stays null when availability is high enough that no queueing is
// expected, or when the wait prediction failed.
type CategoryOutlook struct {
	Category     string   `json:"category"`
	Availability float64  `json:"availability_percent"`
	WaitMinutes  *float64 `json:"wait_minutes"`
}

// Plan answers GET /api/plan?date=YYYY-MM-DD&time=HH:MM with an outlook
// for every slot category. The wait-time prediction is only fetched when
// availability drops below 90%.
func (h *Handlers) Plan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	now := time.Now()
	date := r.URL.Query().Get("date")
	if date == "" {
		date = now.Format(utils.DateLayout)
	}
	visit := r.URL.Query().Get("time")
	if visit == "" {
		visit = now.Format("15:04")
	}

	day, err := time.Parse(utils.DateLayout, date)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date")
		return
	}
	if _, err := time.Parse("15:04", visit); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid time")
		return
	}

	dayOfWeek, isWeekend := utils.DayInfo(day)

	eventType := models.EventRegular
	isEventDay := 0
	if ev, err := h.Events.EventByDate(r.Context(), date); err != nil {
		log.Printf("event lookup failed for %s: %v", date, err)
	} else if ev != nil {
		eventType = ev.EventType
		isEventDay = 1
	}

	var outlooks []CategoryOutlook
	for _, category := range []string{models.CategoryCar, models.CategoryBike, models.CategoryAbled} {
		req := models.PredictionRequest{
			DayOfWeek:        dayOfWeek,
			SlotType:         category,
			EventType:        eventType,
			CheckinTimestamp: date + " " + visit + ":00",
			IsEventDay:       isEventDay,
			IsWeekend:        isWeekend,
		}

		prob, err := h.Client.PredictAvailability(r.Context(), req)
		if err != nil {
			log.Printf("availability prediction failed for %s: %v", category, err)
			continue
		}

		outlook := CategoryOutlook{Category: category, Availability: prob * 100}
		if outlook.Availability < 90 {
			if minutes, err := h.Client.PredictWait(r.Context(), req); err != nil {
				log.Printf("wait prediction failed for %s: %v", category, err)
			} else {
				outlook.WaitMinutes = &minutes
			}
		}
		outlooks = append(outlooks, outlook)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"date":         date,
		"time":         visit,
		"event_type":   eventType,
		"is_event_day": isEventDay,
		"categories":   outlooks,
	})
}
