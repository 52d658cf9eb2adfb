// Package db provides the MongoDB storage layer for users, campaigns,
// donations and the rest of the site content.
package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.vocdoni.io/dvote/log"
)

// MongoStorage uses an external MongoDB service for storing the backend state.
type MongoStorage struct {
	client *mongo.Client

	users        *mongo.Collection
	campaigns    *mongo.Collection
	donations    *mongo.Collection
	faqs         *mongo.Collection
	skills       *mongo.Collection
	testimonials *mongo.Collection
	objects      *mongo.Collection
}

// New connects to the MongoDB server, initializes the collections and creates
// the indexes. The connection is kept open until Close is called; callers own
// the lifecycle (opened at process start, closed on shutdown).
func New(url, database string) (*MongoStorage, error) {
	ms := &MongoStorage{}
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.Infow("connecting to mongodb", "url", url, "database", database)
	// preparing connection
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := time.Second * 10
	opts.ConnectTimeout = &timeout
	// create a new client with the connection options
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// check if the connection is successful
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// init the collections
	ms.client = client
	ms.initCollections(database)
	// if the reset flag is enabled, drop the database documents and recreate
	// the indexes, else just create the indexes
	if reset := os.Getenv("HELPINGHUB_MONGO_RESET_DB"); reset != "" {
		if err := ms.Reset(); err != nil {
			return nil, err
		}
	} else {
		if err := ms.createIndexes(); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

// Close disconnects the client from the MongoDB server.
func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ms.client.Disconnect(ctx); err != nil {
		log.Warn(err)
	}
}

// Reset drops all the collections and recreates the indexes.
func (ms *MongoStorage) Reset() error {
	log.Infof("resetting database")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, col := range ms.collections() {
		if err := col.Drop(ctx); err != nil {
			return err
		}
	}
	return ms.createIndexes()
}

func (ms *MongoStorage) initCollections(database string) {
	db := ms.client.Database(database)
	ms.users = db.Collection("users")
	ms.campaigns = db.Collection("campaigns")
	ms.donations = db.Collection("donations")
	ms.faqs = db.Collection("faqs")
	ms.skills = db.Collection("skills")
	ms.testimonials = db.Collection("testimonials")
	ms.objects = db.Collection("objects")
}

func (ms *MongoStorage) collections() []*mongo.Collection {
	return []*mongo.Collection{
		ms.users, ms.campaigns, ms.donations,
		ms.faqs, ms.skills, ms.testimonials, ms.objects,
	}
}

// createIndexes creates the indexes the storage layer relies on. The unique
// index on donations.transactionId is the idempotency guarantee for webhook
// redeliveries: a duplicate insert fails with a duplicate-key error instead of
// creating a second donation document.
func (ms *MongoStorage) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	// unique email index for users
	if _, err := ms.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	// unique transaction id index for donations
	if _, err := ms.donations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transactionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create donations index: %w", err)
	}
	// campaign filter index for donation listings
	if _, err := ms.donations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "campaignId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create donations campaign index: %w", err)
	}
	// unique name index for skills
	if _, err := ms.skills.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create skills index: %w", err)
	}
	return nil
}

// nextID returns the next available sequential document ID for the given
// collection.
func nextID(ctx context.Context, col *mongo.Collection) (uint64, error) {
	var doc struct {
		ID uint64 `bson:"_id"`
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	if err := col.FindOne(ctx, bson.M{}, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, err
	}
	return doc.ID + 1, nil
}
