package events

import (
	"context"
	"errors"

	"kerbside/db"
	"kerbside/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the event-registry slice of the document store.
type Store interface {
	EventByID(ctx context.Context, id string) (*models.Event, error)
	EventByDate(ctx context.Context, date string) (*models.Event, error)
	ListEvents(ctx context.Context, filterType string) ([]models.Event, error)
	InsertEvent(ctx context.Context, event models.Event) error
	UpdateEvent(ctx context.Context, id string, event models.Event) error
	DeleteEvent(ctx context.Context, id string) (int64, error)
}

type mongoStore struct{}

func NewStore() Store {
	return mongoStore{}
}

func (mongoStore) EventByID(ctx context.Context, id string) (*models.Event, error) {
	return findOne(ctx, bson.M{"eventid": id})
}

func (mongoStore) EventByDate(ctx context.Context, date string) (*models.Event, error) {
	return findOne(ctx, bson.M{"event_date": date})
}

func findOne(ctx context.Context, filter bson.M) (*models.Event, error) {
	var event models.Event
	err := db.EventsCollection.FindOne(ctx, filter).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (mongoStore) ListEvents(ctx context.Context, filterType string) ([]models.Event, error) {
	filter := bson.M{}
	if filterType != "" {
		filter["event_type"] = filterType
	}

	cur, err := db.EventsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (mongoStore) InsertEvent(ctx context.Context, event models.Event) error {
	_, err := db.EventsCollection.InsertOne(ctx, event)
	return err
}

func (mongoStore) UpdateEvent(ctx context.Context, id string, event models.Event) error {
	_, err := db.EventsCollection.UpdateOne(ctx,
		bson.M{"eventid": id},
		bson.M{"$set": bson.M{
			"event_date": event.EventDate,
			"event_type": event.EventType,
			"event_name": event.EventName,
		}},
	)
	return err
}

func (mongoStore) DeleteEvent(ctx context.Context, id string) (int64, error) {
	res, err := db.EventsCollection.DeleteOne(ctx, bson.M{"eventid": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
