package parking

import (
	"context"
	"sort"
	"testing"
	"time"

	"kerbside/models"
)

type fakeStore struct {
	slots     map[string]*models.Slot
	waitlogs  []*models.WaitLogEntry
	events    map[string]*models.Event
	hideSlots bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:  make(map[string]*models.Slot),
		events: make(map[string]*models.Event),
	}
}

func (f *fakeStore) SlotByID(_ context.Context, slotID string) (*models.Slot, error) {
	s, ok := f.slots[slotID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) AllSlots(_ context.Context) ([]models.Slot, error) {
	var out []models.Slot
	for _, s := range f.slots {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) SlotsByType(_ context.Context, slotType string) ([]models.Slot, error) {
	if f.hideSlots {
		return nil, nil
	}
	var out []models.Slot
	for _, s := range f.slots {
		if s.SlotType == slotType {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSlot(_ context.Context, slot models.Slot) error {
	f.slots[slot.SlotID] = &slot
	return nil
}

func (f *fakeStore) UpdateSlot(_ context.Context, slotID string, vacancy bool, checkIn, checkOut *time.Time) error {
	s := f.slots[slotID]
	s.Vacancy = vacancy
	if checkIn != nil {
		s.CheckIn = checkIn
	}
	if checkOut != nil {
		s.CheckOut = checkOut
	}
	return nil
}

func (f *fakeStore) CreateWaitLog(_ context.Context, entry models.WaitLogEntry) error {
	f.waitlogs = append(f.waitlogs, &entry)
	return nil
}

func (f *fakeStore) OpenWaitLogs(_ context.Context, category string) ([]models.WaitLogEntry, error) {
	var out []models.WaitLogEntry
	for _, e := range f.waitlogs {
		if e.Category == category && e.CheckOut == nil {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (f *fakeStore) CloseWaitLog(_ context.Context, id string, checkOut time.Time, waitMinutes int) error {
	for _, e := range f.waitlogs {
		if e.ID == id {
			e.CheckOut = &checkOut
			e.WaitTime = &waitMinutes
		}
	}
	return nil
}

func (f *fakeStore) ClosedWaitLogs(_ context.Context, limit int64) ([]models.WaitLogEntry, error) {
	var out []models.WaitLogEntry
	for _, e := range f.waitlogs {
		if e.CheckOut != nil {
			out = append(out, *e)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) EventByDate(_ context.Context, date string) (*models.Event, error) {
	ev, ok := f.events[date]
	if !ok {
		return nil, nil
	}
	cp := *ev
	return &cp, nil
}

type fakeNotifier struct {
	records []models.IngestRecord
}

func (f *fakeNotifier) SubmitRecord(_ context.Context, rec models.IngestRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func newTestToggler(store Store, notifier Notifier, at *time.Time) *Toggler {
	t := NewToggler(store, notifier)
	t.now = func() time.Time { return *at }
	return t
}

func vacantSlot(id string) *models.Slot {
	return &models.Slot{SlotID: id, SlotType: CategoryOf(id), Vacancy: true}
}

func TestCategoryOf(t *testing.T) {
	cases := map[string]string{
		"C1":  models.CategoryCar,
		"B2":  models.CategoryBike,
		"A1":  models.CategoryAbled,
		"X9":  models.CategoryUnknown,
		"c1":  models.CategoryUnknown, // case-sensitive
		"":    models.CategoryUnknown,
		"C":   models.CategoryCar,
		"B10": models.CategoryBike,
	}
	for id, want := range cases {
		if got := CategoryOf(id); got != want {
			t.Errorf("CategoryOf(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestWaitMinutes(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		delta time.Duration
		want  int
	}{
		{0, 0},
		{59 * time.Second, 0},
		{60 * time.Second, 1},
		{149 * time.Second, 2},
		{-5 * time.Minute, 0}, // clock skew clamps to zero
	}
	for _, c := range cases {
		if got := WaitMinutes(t0, t0.Add(c.delta)); got != c.want {
			t.Errorf("WaitMinutes(+%v) = %d, want %d", c.delta, got, c.want)
		}
	}
}

func TestToggleCreatesSlotOnFirstSight(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tog := newTestToggler(store, &fakeNotifier{}, &now)

	if err := tog.Toggle(context.Background(), "C1", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	s := store.slots["C1"]
	if s == nil {
		t.Fatal("slot document not created")
	}
	if s.Vacancy {
		t.Error("slot should be occupied")
	}
	if s.SlotType != models.CategoryCar {
		t.Errorf("slot_type = %q, want car", s.SlotType)
	}
	if s.CheckIn == nil || !s.CheckIn.Equal(now) {
		t.Error("check_in not stamped")
	}
	if s.CheckOut != nil {
		t.Error("check_out should stay null on occupy")
	}
}

func TestQueueStartsOnlyWhenCategoryFull(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"C1", "C2", "C3"} {
		store.slots[id] = vacantSlot(id)
	}
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tog := newTestToggler(store, &fakeNotifier{}, &now)

	for i, id := range []string{"C1", "C2"} {
		if err := tog.Toggle(context.Background(), id, true); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if len(store.waitlogs) != 0 {
			t.Fatalf("wait log opened before category full (after %s)", id)
		}
	}

	if err := tog.Toggle(context.Background(), "C3", true); err != nil {
		t.Fatalf("toggle C3: %v", err)
	}
	if len(store.waitlogs) != 1 {
		t.Fatalf("want 1 open wait log after category full, got %d", len(store.waitlogs))
	}
	entry := store.waitlogs[0]
	if entry.Category != models.CategoryCar {
		t.Errorf("category = %q, want car", entry.Category)
	}
	if entry.CheckOut != nil || entry.WaitTime != nil {
		t.Error("entry should start open")
	}
	if entry.EventType != models.EventRegular {
		t.Errorf("event type = %q, want regular", entry.EventType)
	}
}

func TestVacateClosesOldestEntryAndNotifies(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"C1", "C2", "C3"} {
		store.slots[id] = vacantSlot(id)
	}
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}
	tog := newTestToggler(store, notifier, &now)

	for _, id := range []string{"C1", "C2", "C3"} {
		if err := tog.Toggle(context.Background(), id, true); err != nil {
			t.Fatalf("occupy %s: %v", id, err)
		}
	}

	queuedAt := now
	now = now.Add(7*time.Minute + 30*time.Second)
	if err := tog.Toggle(context.Background(), "C1", false); err != nil {
		t.Fatalf("vacate C1: %v", err)
	}

	entry := store.waitlogs[0]
	if entry.CheckOut == nil || entry.WaitTime == nil {
		t.Fatal("entry not closed")
	}
	if *entry.WaitTime != 7 {
		t.Errorf("wait_time = %d, want 7 (floored)", *entry.WaitTime)
	}
	if !entry.CheckIn.Equal(queuedAt) {
		t.Error("closed entry check_in changed")
	}

	// one zero-wait turnover record plus one real-wait record
	if len(notifier.records) != 2 {
		t.Fatalf("want 2 ingest records, got %d", len(notifier.records))
	}
	if notifier.records[0].WaitTimeMinute != 0 {
		t.Errorf("turnover record wait = %d, want 0", notifier.records[0].WaitTimeMinute)
	}
	if notifier.records[1].WaitTimeMinute != 7 {
		t.Errorf("wait record = %d, want 7", notifier.records[1].WaitTimeMinute)
	}
	if notifier.records[1].DayOfWeek != "Monday" {
		t.Errorf("day_of_week = %q, want Monday", notifier.records[1].DayOfWeek)
	}

	if s := store.slots["C1"]; !s.Vacancy {
		t.Error("C1 should be vacant again")
	}
}

func TestVacateWithoutPriorCheckInSkipsTurnoverRecord(t *testing.T) {
	store := newFakeStore()
	store.slots["B1"] = &models.Slot{SlotID: "B1", SlotType: models.CategoryBike, Vacancy: false}
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}
	tog := newTestToggler(store, notifier, &now)

	if err := tog.Toggle(context.Background(), "B1", false); err != nil {
		t.Fatalf("vacate: %v", err)
	}
	if len(notifier.records) != 0 {
		t.Fatalf("want no ingest records without prior check_in, got %d", len(notifier.records))
	}
}

func TestCloseSelectsFIFO(t *testing.T) {
	store := newFakeStore()
	store.slots["C1"] = &models.Slot{SlotID: "C1", SlotType: models.CategoryCar, Vacancy: false}
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	later := base.Add(10 * time.Minute)
	store.waitlogs = []*models.WaitLogEntry{
		{ID: "w-late", Category: models.CategoryCar, CheckIn: later},
		{ID: "w-early", Category: models.CategoryCar, CheckIn: base},
	}

	now := base.Add(30 * time.Minute)
	tog := newTestToggler(store, &fakeNotifier{}, &now)
	checkIn := base
	store.slots["C1"].CheckIn = &checkIn

	if err := tog.Toggle(context.Background(), "C1", false); err != nil {
		t.Fatalf("vacate: %v", err)
	}

	for _, e := range store.waitlogs {
		switch e.ID {
		case "w-early":
			if e.CheckOut == nil {
				t.Error("earliest entry should be closed")
			} else if *e.WaitTime != 30 {
				t.Errorf("wait_time = %d, want 30", *e.WaitTime)
			}
		case "w-late":
			if e.CheckOut != nil {
				t.Error("later entry must stay open")
			}
		}
	}
}

func TestOccupyVacateRoundTrip(t *testing.T) {
	store := newFakeStore()
	store.slots["A1"] = vacantSlot("A1")
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tog := newTestToggler(store, &fakeNotifier{}, &now)

	if err := tog.Toggle(context.Background(), "A1", true); err != nil {
		t.Fatalf("occupy: %v", err)
	}
	// sole slot of the category: queue opened
	if len(store.waitlogs) != 1 {
		t.Fatalf("want 1 wait log, got %d", len(store.waitlogs))
	}

	now = now.Add(2 * time.Minute)
	if err := tog.Toggle(context.Background(), "A1", false); err != nil {
		t.Fatalf("vacate: %v", err)
	}

	if !store.slots["A1"].Vacancy {
		t.Error("vacancy flag should be restored")
	}
	closed, _ := store.ClosedWaitLogs(context.Background(), 10)
	if len(closed) != 1 {
		t.Fatalf("want exactly 1 closed entry, got %d", len(closed))
	}
}

func TestEmptyCategoryOpensNothing(t *testing.T) {
	store := newFakeStore()
	store.hideSlots = true // category listing comes back empty
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tog := newTestToggler(store, &fakeNotifier{}, &now)

	if err := tog.Toggle(context.Background(), "C1", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(store.waitlogs) != 0 {
		t.Error("vacuously full category must not open a wait log")
	}
}

func TestQueueTaggedWithTodaysEvent(t *testing.T) {
	store := newFakeStore()
	store.slots["C1"] = vacantSlot("C1")
	now := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC) // Saturday
	store.events["2026-03-07"] = &models.Event{EventID: "e1", EventDate: "2026-03-07", EventType: models.EventSalesDay, EventName: "Spring Sale"}
	notifier := &fakeNotifier{}
	tog := newTestToggler(store, notifier, &now)

	if err := tog.Toggle(context.Background(), "C1", true); err != nil {
		t.Fatalf("occupy: %v", err)
	}
	if store.waitlogs[0].EventType != models.EventSalesDay {
		t.Errorf("event type = %q, want salesday", store.waitlogs[0].EventType)
	}

	now = now.Add(time.Minute)
	if err := tog.Toggle(context.Background(), "C1", false); err != nil {
		t.Fatalf("vacate: %v", err)
	}
	last := notifier.records[len(notifier.records)-1]
	if last.IsEventDay != 1 || last.EventType != models.EventSalesDay {
		t.Errorf("ingest record event tagging = (%d, %q), want (1, salesday)", last.IsEventDay, last.EventType)
	}
	if last.DayOfWeek != "Saturday" {
		t.Errorf("day_of_week = %q, want Saturday", last.DayOfWeek)
	}
}
