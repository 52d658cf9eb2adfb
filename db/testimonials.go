package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Testimonial method returns the testimonial with the given ID.
func (ms *MongoStorage) Testimonial(id uint64) (*Testimonial, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	testimonial := &Testimonial{}
	if err := ms.testimonials.FindOne(ctx, bson.M{"_id": id}).Decode(testimonial); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return testimonial, nil
}

// SetTestimonial method creates or updates the testimonial in the database and
// returns its ID.
func (ms *MongoStorage) SetTestimonial(testimonial *Testimonial) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if testimonial.ID == 0 {
		nextID, err := nextID(ctx, ms.testimonials)
		if err != nil {
			return 0, err
		}
		testimonial.ID = nextID
		testimonial.CreatedAt = time.Now()
	}
	updateDoc := bson.M{"$set": testimonial}
	opts := options.Update().SetUpsert(true)
	if _, err := ms.testimonials.UpdateOne(ctx, bson.M{"_id": testimonial.ID}, updateDoc, opts); err != nil {
		return 0, err
	}
	return testimonial.ID, nil
}

// DelTestimonial method removes the testimonial with the given ID.
func (ms *MongoStorage) DelTestimonial(id uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	res, err := ms.testimonials.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Testimonials method returns a page of testimonials sorted by newest first,
// optionally filtered to the published ones.
func (ms *MongoStorage) Testimonials(onlyPublished bool, page, pageSize int64) ([]*Testimonial, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if onlyPublished {
		filter["published"] = true
	}
	total, err := ms.testimonials.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := paginationOpts(page, pageSize).SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := ms.testimonials.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var testimonials []*Testimonial
	if err := cur.All(ctx, &testimonials); err != nil {
		return nil, 0, err
	}
	return testimonials, total, nil
}
