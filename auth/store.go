package auth

import (
	"context"
	"errors"
	"time"

	"kerbside/db"
	"kerbside/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the users slice of the document store.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user models.User) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

type mongoStore struct{}

func NewStore() Store {
	return mongoStore{}
}

func (mongoStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"mail": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (mongoStore) InsertUser(ctx context.Context, user models.User) error {
	_, err := db.UserCollection.InsertOne(ctx, user)
	return err
}

func (mongoStore) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"last_login": at}},
	)
	return err
}
