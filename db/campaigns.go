package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notDeletedFilter excludes soft-deleted campaigns from a query.
var notDeletedFilter = bson.M{"$or": bson.A{
	bson.M{"deletedAt": bson.M{"$exists": false}},
	bson.M{"deletedAt": time.Time{}},
}}

// Campaign method returns the campaign with the given ID. Soft-deleted
// campaigns are treated as missing and return ErrNotFound.
func (ms *MongoStorage) Campaign(id uint64) (*Campaign, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "$or": notDeletedFilter["$or"]}
	campaign := &Campaign{}
	if err := ms.campaigns.FindOne(ctx, filter).Decode(campaign); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return campaign, nil
}

// SetCampaign method creates or updates the campaign in the database and
// returns its ID.
func (ms *MongoStorage) SetCampaign(campaign *Campaign) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if campaign.ID == 0 {
		nextID, err := nextID(ctx, ms.campaigns)
		if err != nil {
			return 0, err
		}
		campaign.ID = nextID
		if campaign.CreatedAt.IsZero() {
			campaign.CreatedAt = time.Now()
		}
	}
	updateDoc := bson.M{"$set": campaign}
	opts := options.Update().SetUpsert(true)
	if _, err := ms.campaigns.UpdateOne(ctx, bson.M{"_id": campaign.ID}, updateDoc, opts); err != nil {
		return 0, err
	}
	return campaign.ID, nil
}

// DelCampaign method soft-deletes the campaign with the given ID by stamping
// its deletion time. The document is kept so existing donations keep a valid
// campaign reference.
func (ms *MongoStorage) DelCampaign(id uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	updateDoc := bson.M{"$set": bson.M{"deletedAt": time.Now(), "active": false}}
	res, err := ms.campaigns.UpdateOne(ctx, bson.M{"_id": id}, updateDoc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Campaigns method returns a page of campaigns sorted by ID, excluding the
// soft-deleted ones. If onlyActive is true, inactive campaigns are filtered
// out as well.
func (ms *MongoStorage) Campaigns(onlyActive bool, page, pageSize int64) ([]*Campaign, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": notDeletedFilter["$or"]}
	if onlyActive {
		filter["active"] = true
	}
	total, err := ms.campaigns.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := paginationOpts(page, pageSize).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := ms.campaigns.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var campaigns []*Campaign
	if err := cur.All(ctx, &campaigns); err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// AddCampaignDonation atomically adds a completed donation to the campaign
// running total and donation counter. The increment is performed server-side
// ($inc) so concurrent donations to the same campaign cannot lose updates.
func (ms *MongoStorage) AddCampaignDonation(id uint64, amount int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	updateDoc := bson.M{"$inc": bson.M{"currentAmount": amount, "donationsCount": 1}}
	res, err := ms.campaigns.UpdateOne(ctx, bson.M{"_id": id}, updateDoc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
