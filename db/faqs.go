package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FAQ method returns the FAQ with the given ID.
func (ms *MongoStorage) FAQ(id uint64) (*FAQ, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	faq := &FAQ{}
	if err := ms.faqs.FindOne(ctx, bson.M{"_id": id}).Decode(faq); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return faq, nil
}

// SetFAQ method creates or updates the FAQ in the database and returns its ID.
func (ms *MongoStorage) SetFAQ(faq *FAQ) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now()
	if faq.ID == 0 {
		nextID, err := nextID(ctx, ms.faqs)
		if err != nil {
			return 0, err
		}
		faq.ID = nextID
		faq.CreatedAt = now
	}
	faq.UpdatedAt = now
	updateDoc := bson.M{"$set": faq}
	opts := options.Update().SetUpsert(true)
	if _, err := ms.faqs.UpdateOne(ctx, bson.M{"_id": faq.ID}, updateDoc, opts); err != nil {
		return 0, err
	}
	return faq.ID, nil
}

// DelFAQ method removes the FAQ with the given ID.
func (ms *MongoStorage) DelFAQ(id uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	res, err := ms.faqs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FAQs method returns a page of FAQs sorted by ID, optionally filtered by
// category and published flag.
func (ms *MongoStorage) FAQs(category string, onlyPublished bool, page, pageSize int64) ([]*FAQ, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if onlyPublished {
		filter["published"] = true
	}
	total, err := ms.faqs.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := paginationOpts(page, pageSize).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := ms.faqs.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var faqs []*FAQ
	if err := cur.All(ctx, &faqs); err != nil {
		return nil, 0, err
	}
	return faqs, total, nil
}
