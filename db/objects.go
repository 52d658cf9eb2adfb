package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Object method returns the stored object with the given ID.
func (ms *MongoStorage) Object(id string) (*Object, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	object := &Object{}
	if err := ms.objects.FindOne(ctx, bson.M{"_id": id}).Decode(object); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return object, nil
}

// SetObject method stores an object, updating it if the ID already exists.
func (ms *MongoStorage) SetObject(id, userEmail, contentType string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	updateDoc := bson.M{"$set": &Object{
		ID:          id,
		Data:        data,
		ContentType: contentType,
		UserEmail:   userEmail,
		CreatedAt:   time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := ms.objects.UpdateOne(ctx, bson.M{"_id": id}, updateDoc, opts)
	return err
}
