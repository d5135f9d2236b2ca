package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ParkingCollection *mongo.Collection
	WaitLogCollection *mongo.Collection
	EventsCollection  *mongo.Collection
	UserCollection    *mongo.Collection
	Client            *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "parkingdb"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ParkingCollection = Client.Database(dbName).Collection("parking")
	WaitLogCollection = Client.Database(dbName).Collection("waitlog")
	EventsCollection = Client.Database(dbName).Collection("events")
	UserCollection = Client.Database(dbName).Collection("users")
}
