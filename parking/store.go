package parking

import (
	"context"
	"errors"
	"time"

	"kerbside/db"
	"kerbside/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the slice of the document store the toggle workflow and the
// registry need. The Mongo implementation backs the service; tests
// substitute an in-memory fake.
type Store interface {
	SlotByID(ctx context.Context, slotID string) (*models.Slot, error)
	AllSlots(ctx context.Context) ([]models.Slot, error)
	SlotsByType(ctx context.Context, slotType string) ([]models.Slot, error)
	CreateSlot(ctx context.Context, slot models.Slot) error
	UpdateSlot(ctx context.Context, slotID string, vacancy bool, checkIn, checkOut *time.Time) error

	CreateWaitLog(ctx context.Context, entry models.WaitLogEntry) error
	OpenWaitLogs(ctx context.Context, category string) ([]models.WaitLogEntry, error)
	CloseWaitLog(ctx context.Context, id string, checkOut time.Time, waitMinutes int) error
	ClosedWaitLogs(ctx context.Context, limit int64) ([]models.WaitLogEntry, error)

	EventByDate(ctx context.Context, date string) (*models.Event, error)
}

type mongoStore struct{}

// NewStore returns the Mongo-backed store over the shared collections.
func NewStore() Store {
	return mongoStore{}
}

func (mongoStore) SlotByID(ctx context.Context, slotID string) (*models.Slot, error) {
	var slot models.Slot
	err := db.ParkingCollection.FindOne(ctx, bson.M{"slotid": slotID}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (mongoStore) AllSlots(ctx context.Context) ([]models.Slot, error) {
	return findSlots(ctx, bson.M{})
}

func (mongoStore) SlotsByType(ctx context.Context, slotType string) ([]models.Slot, error) {
	return findSlots(ctx, bson.M{"slot_type": slotType})
}

func findSlots(ctx context.Context, filter bson.M) ([]models.Slot, error) {
	cur, err := db.ParkingCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var slots []models.Slot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (mongoStore) CreateSlot(ctx context.Context, slot models.Slot) error {
	_, err := db.ParkingCollection.InsertOne(ctx, slot)
	return err
}

func (mongoStore) UpdateSlot(ctx context.Context, slotID string, vacancy bool, checkIn, checkOut *time.Time) error {
	set := bson.M{"vacancy": vacancy}
	if checkIn != nil {
		set["check_in"] = checkIn
	}
	if checkOut != nil {
		set["check_out"] = checkOut
	}
	_, err := db.ParkingCollection.UpdateOne(ctx, bson.M{"slotid": slotID}, bson.M{"$set": set})
	return err
}

func (mongoStore) CreateWaitLog(ctx context.Context, entry models.WaitLogEntry) error {
	_, err := db.WaitLogCollection.InsertOne(ctx, entry)
	return err
}

// OpenWaitLogs returns the category's open entries, oldest check-in
// first, so closing always selects FIFO.
func (mongoStore) OpenWaitLogs(ctx context.Context, category string) ([]models.WaitLogEntry, error) {
	cur, err := db.WaitLogCollection.Find(ctx,
		bson.M{"category": category, "check_out": nil},
		options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.WaitLogEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (mongoStore) CloseWaitLog(ctx context.Context, id string, checkOut time.Time, waitMinutes int) error {
	_, err := db.WaitLogCollection.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"check_out": checkOut, "wait_time": waitMinutes}},
	)
	return err
}

func (mongoStore) ClosedWaitLogs(ctx context.Context, limit int64) ([]models.WaitLogEntry, error) {
	cur, err := db.WaitLogCollection.Find(ctx,
		bson.M{"check_out": bson.M{"$ne": nil}},
		options.Find().SetSort(bson.D{{Key: "check_in", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.WaitLogEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (mongoStore) EventByDate(ctx context.Context, date string) (*models.Event, error) {
	var event models.Event
	err := db.EventsCollection.FindOne(ctx, bson.M{"event_date": date}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}
