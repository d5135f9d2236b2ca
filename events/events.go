package events

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kerbside/models"
	"kerbside/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers serves the special-day calendar.
type Handlers struct {
	Store Store
}

func NewHandlers(store Store) *Handlers {
	return &Handlers{Store: store}
}

type eventInput struct {
	EventID   string `json:"eventid,omitempty"`
	EventDate string `json:"event_date"`
	EventType string `json:"event_type"`
	EventName string `json:"event_name"`
}

func validEventType(t string) bool {
	return t == models.EventSalesDay || t == models.EventFestival
}

// CreateOrUpdate upserts the event for a calendar date. It searches by
// id and by date before inserting, so a date never carries two records.
func (h *Handlers) CreateOrUpdate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input eventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if input.EventDate == "" || input.EventName == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(utils.DateLayout, input.EventDate); err != nil {
		http.Error(w, "invalid event_date", http.StatusBadRequest)
		return
	}
	if !validEventType(input.EventType) {
		http.Error(w, "invalid event_type", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	event, err := CreateOrUpdateEvent(ctx, h.Store, input.EventID, models.Event{
		EventDate: input.EventDate,
		EventType: input.EventType,
		EventName: input.EventName,
	})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "event": event})
}

// CreateOrUpdateEvent resolves the target record by id, then by date,
// updating in place when found and inserting otherwise.
func CreateOrUpdateEvent(ctx context.Context, store Store, eventID string, data models.Event) (*models.Event, error) {
	target := eventID
	if target == "" {
		match, err := store.EventByDate(ctx, data.EventDate)
		if err != nil {
			return nil, err
		}
		if match != nil {
			target = match.EventID
		}
	}

	if target != "" {
		if err := store.UpdateEvent(ctx, target, data); err != nil {
			return nil, err
		}
		data.EventID = target
		return &data, nil
	}

	data.EventID = utils.GetUUID()
	if err := store.InsertEvent(ctx, data); err != nil {
		return nil, err
	}
	return &data, nil
}

// List returns all events, optionally filtered by type.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filterType := r.URL.Query().Get("type")
	if filterType != "" && !validEventType(filterType) {
		http.Error(w, "invalid type", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	events, err := h.Store.ListEvents(ctx, filterType)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": events})
}

// Delete removes an event by id.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	if eventID == "" {
		http.Error(w, "missing eventid", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Store.DeleteEvent(ctx, eventID)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
