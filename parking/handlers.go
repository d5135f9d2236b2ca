package parking

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kerbside/models"
	"kerbside/mq"
	"kerbside/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers serves the slot occupancy API.
type Handlers struct {
	Store    Store
	Toggler  *Toggler
	Registry *Registry
}

func NewHandlers(store Store, toggler *Toggler, registry *Registry) *Handlers {
	return &Handlers{Store: store, Toggler: toggler, Registry: registry}
}

// GetSlots returns the registry's identifier → vacancy view.
func (h *Handlers) GetSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"slots": h.Registry.Snapshot()})
}

// ListSlots returns the full slot documents, optionally filtered by
// slot_type.
func (h *Handlers) ListSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		slots []models.Slot
		err   error
	)
	if slotType := r.URL.Query().Get("slot_type"); slotType != "" {
		slots, err = h.Store.SlotsByType(ctx, slotType)
	} else {
		slots, err = h.Store.AllSlots(ctx)
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"slots": slots})
}

// ToggleSlot flips a slot's vacancy. The body carries the vacancy flag
// the caller currently sees, so a stale client cannot double-flip.
func (h *Handlers) ToggleSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID := ps.ByName("slotid")
	if slotID == "" {
		http.Error(w, "missing slotid", http.StatusBadRequest)
		return
	}

	var body struct {
		Vacancy bool `json:"vacancy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	newStatus := !body.Vacancy
	h.Registry.BeginToggle(slotID, newStatus)

	if err := h.Toggler.Toggle(ctx, slotID, body.Vacancy); err != nil {
		h.Registry.Rollback(slotID, body.Vacancy)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	h.Registry.Confirm(slotID)

	mq.Emit(ctx, models.SlotEvent{
		SlotID:   slotID,
		SlotType: CategoryOf(slotID),
		Vacancy:  newStatus,
		At:       time.Now(),
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"ok":      true,
		"slotid":  slotID,
		"vacancy": newStatus,
	})
}
