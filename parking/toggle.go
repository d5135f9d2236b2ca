package parking

import (
	"context"
	"log"
	"sync"
	"time"

	"kerbside/models"
	"kerbside/utils"
)

// Notifier delivers completed parking episodes to the prediction
// service's ingestion endpoint. prediction.Client satisfies it.
type Notifier interface {
	SubmitRecord(ctx context.Context, rec models.IngestRecord) error
}

// Toggler flips slot occupancy and keeps the wait log consistent with
// it. Toggles are serialized per category: the slot upsert, the
// all-occupied check and the wait-log open/close form one critical
// section against other toggles of the same category.
type Toggler struct {
	store    Store
	notifier Notifier
	now      func() time.Time

	mu       sync.Mutex
	catLocks map[string]*sync.Mutex
}

func NewToggler(store Store, notifier Notifier) *Toggler {
	return &Toggler{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		catLocks: make(map[string]*sync.Mutex),
	}
}

func (t *Toggler) categoryLock(category string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.catLocks[category]
	if !ok {
		lock = &sync.Mutex{}
		t.catLocks[category] = lock
	}
	return lock
}

// Toggle flips the slot's vacancy from currentVacancy. The slot
// mutation is the only step whose failure is returned; wait-log and
// ingestion failures are logged and never roll it back.
func (t *Toggler) Toggle(ctx context.Context, slotID string, currentVacancy bool) error {
	category := CategoryOf(slotID)

	lock := t.categoryLock(category)
	lock.Lock()
	defer lock.Unlock()

	now := t.now()
	newStatus := !currentVacancy

	existing, err := t.store.SlotByID(ctx, slotID)
	if err != nil {
		log.Printf("toggle %s: slot lookup failed: %v", slotID, err)
		return err
	}

	if existing != nil {
		var checkIn, checkOut *time.Time
		if !newStatus {
			checkIn = &now
		} else {
			checkOut = &now
		}
		if err := t.store.UpdateSlot(ctx, slotID, newStatus, checkIn, checkOut); err != nil {
			log.Printf("toggle %s: slot update failed: %v", slotID, err)
			return err
		}
	} else {
		slot := models.Slot{SlotID: slotID, SlotType: category, Vacancy: newStatus}
		if !newStatus {
			slot.CheckIn = &now
		} else {
			slot.CheckOut = &now
		}
		if err := t.store.CreateSlot(ctx, slot); err != nil {
			log.Printf("toggle %s: slot create failed: %v", slotID, err)
			return err
		}
	}

	if !newStatus {
		t.onOccupied(ctx, slotID, category, now)
	} else {
		t.onVacated(ctx, slotID, category, existing, now)
	}
	return nil
}

// onOccupied opens a wait-log entry when the toggled slot just filled
// its whole category. A category with no slot documents opens nothing;
// see DESIGN.md.
func (t *Toggler) onOccupied(ctx context.Context, slotID, category string, now time.Time) {
	slots, err := t.store.SlotsByType(ctx, category)
	if err != nil {
		log.Printf("toggle %s: category listing failed: %v", slotID, err)
		return
	}
	if len(slots) == 0 {
		return
	}
	for _, s := range slots {
		if s.Vacancy {
			return
		}
	}

	eventType, _ := t.todaysEvent(ctx, now)
	entry := models.WaitLogEntry{
		ID:        utils.GetUUID(),
		SlotID:    slotID,
		Category:  category,
		EventType: eventType,
		CheckIn:   now,
	}
	if err := t.store.CreateWaitLog(ctx, entry); err != nil {
		log.Printf("toggle %s: wait-log create failed: %v", slotID, err)
	}
}

// onVacated reports the slot's own turnover, then closes the oldest
// open wait-log entry for the category if one exists.
func (t *Toggler) onVacated(ctx context.Context, slotID, category string, existing *models.Slot, now time.Time) {
	dayOfWeek, _ := utils.DayInfo(now)
	eventType, isEventDay := t.todaysEvent(ctx, now)

	if existing != nil && existing.CheckIn != nil {
		rec := models.IngestRecord{
			SlotID:            slotID,
			CheckinTimestamp:  existing.CheckIn.Format(utils.TimestampLayout),
			CheckoutTimestamp: now.Format(utils.TimestampLayout),
			DayOfWeek:         dayOfWeek,
			SlotType:          category,
			EventType:         eventType,
			IsEventDay:        isEventDay,
			WaitTimeMinute:    0,
		}
		if err := t.notifier.SubmitRecord(ctx, rec); err != nil {
			log.Printf("toggle %s: ingest (vacated) failed: %v", slotID, err)
		}
	}

	logs, err := t.store.OpenWaitLogs(ctx, category)
	if err != nil {
		log.Printf("toggle %s: open wait-log listing failed: %v", slotID, err)
		return
	}
	if len(logs) == 0 {
		return
	}

	entry := logs[0]
	waitMinutes := WaitMinutes(entry.CheckIn, now)
	if err := t.store.CloseWaitLog(ctx, entry.ID, now, waitMinutes); err != nil {
		log.Printf("toggle %s: wait-log close failed: %v", slotID, err)
		return
	}

	rec := models.IngestRecord{
		SlotID:            slotID,
		CheckinTimestamp:  entry.CheckIn.Format(utils.TimestampLayout),
		CheckoutTimestamp: now.Format(utils.TimestampLayout),
		DayOfWeek:         dayOfWeek,
		SlotType:          category,
		EventType:         eventType,
		IsEventDay:        isEventDay,
		WaitTimeMinute:    waitMinutes,
	}
	if err := t.notifier.SubmitRecord(ctx, rec); err != nil {
		log.Printf("toggle %s: ingest (wait log) failed: %v", slotID, err)
	}
}

func (t *Toggler) todaysEvent(ctx context.Context, now time.Time) (eventType string, isEventDay int) {
	event, err := t.store.EventByDate(ctx, now.Format(utils.DateLayout))
	if err != nil {
		log.Printf("event lookup failed: %v", err)
		return models.EventRegular, 0
	}
	if event == nil {
		return models.EventRegular, 0
	}
	return event.EventType, 1
}

// WaitMinutes computes whole waited minutes, clamped to zero when the
// clock ran backwards.
func WaitMinutes(checkIn, checkOut time.Time) int {
	if checkOut.Before(checkIn) {
		return 0
	}
	return int(checkOut.Sub(checkIn) / time.Minute)
}
