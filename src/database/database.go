package database

import (
	"context"
	"log"
	"sync"

	"Backend-Claim3000/src/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client     *mongo.Client
	once       sync.Once
	connectErr error

	FormCollection          *mongo.Collection
	AffCredentialCollection *mongo.Collection
	AdminCollection         *mongo.Collection
)

// ConnectMongoDB connects once and wires the shared collections.
func ConnectMongoDB() error {
	once.Do(func() {
		clientOptions := options.Client().ApplyURI(config.MongoURI)

		client, connectErr = mongo.Connect(context.TODO(), clientOptions)
		if connectErr != nil {
			return
		}

		connectErr = client.Ping(context.TODO(), readpref.Primary())
		if connectErr != nil {
			return
		}

		log.Println("✅ MongoDB connected successfully")

		FormCollection = GetCollection("Claim3000DB", "forms")
		AffCredentialCollection = GetCollection("Claim3000DB", "aff_credentials")
		AdminCollection = GetCollection("Claim3000DB", "admins")
	})

	return connectErr
}

// GetCollection returns a collection handle from the shared client.
func GetCollection(dbName, collectionName string) *mongo.Collection {
	if client == nil {
		log.Fatal("❌ MongoDB client is nil")
	}
	return client.Database(dbName).Collection(collectionName)
}
