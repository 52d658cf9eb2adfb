package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// User method returns the user with the given ID. If the user doesn't exist,
// it returns ErrNotFound.
func (ms *MongoStorage) User(id uint64) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	user := &User{}
	if err := ms.users.FindOne(ctx, bson.M{"_id": id}).Decode(user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UserByEmail method returns the user with the given email. If the user
// doesn't exist, it returns ErrNotFound.
func (ms *MongoStorage) UserByEmail(email string) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	user := &User{}
	if err := ms.users.FindOne(ctx, bson.M{"email": email}).Decode(user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetUser method creates or updates the user in the database. If the user
// already exists, it updates the fields that have changed. If the user doesn't
// exist, it creates it. It returns the user ID.
func (ms *MongoStorage) SetUser(user *User) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if user.ID == 0 {
		nextID, err := nextID(ctx, ms.users)
		if err != nil {
			return 0, err
		}
		user.ID = nextID
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
		if user.Role == "" {
			user.Role = MemberRole
		}
	}
	updateDoc := bson.M{"$set": user}
	opts := options.Update().SetUpsert(true)
	if _, err := ms.users.UpdateOne(ctx, bson.M{"_id": user.ID}, updateDoc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrInvalidData
		}
		return 0, err
	}
	return user.ID, nil
}

// DelUser method removes the user from the database.
func (ms *MongoStorage) DelUser(user *User) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.users.DeleteOne(ctx, bson.M{"_id": user.ID})
	return err
}

// Users method returns a page of users sorted by ID. The total number of
// users is returned alongside the page.
func (ms *MongoStorage) Users(page, pageSize int64) ([]*User, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	total, err := ms.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := paginationOpts(page, pageSize).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := ms.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var users []*User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
