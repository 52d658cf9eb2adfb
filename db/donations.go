package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// maxIDAllocationRetries bounds the insert retries on a sequential id
// collision.
const maxIDAllocationRetries = 20

// isDuplicateKeyOn reports whether err is a duplicate-key error on the index
// of the given field. The driver does not expose which index was violated,
// but the server error message always names it
// ("E11000 ... index: transactionId_1 dup key ...").
func isDuplicateKeyOn(err error, field string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), "index: "+field)
}

// CreateDonation inserts a new donation document. The insert is idempotent on
// the transaction ID: when a document with the same transactionId already
// exists, the duplicate-key error is swallowed and created=false is returned,
// so webhook redeliveries never double-record. Sequential ids can collide when
// two donations are inserted concurrently; a duplicate on _id is retried with
// a freshly allocated id, so a distinct transaction is never mistaken for a
// replay. Any other error is returned as-is.
func (ms *MongoStorage) CreateDonation(donation *Donation) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if donation.TransactionID == "" || donation.CampaignID == 0 {
		return false, ErrInvalidData
	}
	if !ValidDonationType(donation.Type) {
		return false, ErrInvalidData
	}
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = time.Now()
	}
	for attempt := 0; attempt < maxIDAllocationRetries; attempt++ {
		if donation.ID == 0 || attempt > 0 {
			id, err := nextID(ctx, ms.donations)
			if err != nil {
				return false, err
			}
			donation.ID = id
		}
		_, err := ms.donations.InsertOne(ctx, donation)
		if err == nil {
			return true, nil
		}
		if isDuplicateKeyOn(err, "transactionId") {
			return false, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return false, err
		}
		// lost the race for this _id to a concurrent insert, allocate again
	}
	return false, fmt.Errorf("could not allocate an id for donation %s", donation.TransactionID)
}

// Donation method returns the donation with the given ID.
func (ms *MongoStorage) Donation(id uint64) (*Donation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	donation := &Donation{}
	if err := ms.donations.FindOne(ctx, bson.M{"_id": id}).Decode(donation); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return donation, nil
}

// DonationByTransactionID method returns the donation recorded for the given
// provider transaction ID.
func (ms *MongoStorage) DonationByTransactionID(txID string) (*Donation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	donation := &Donation{}
	if err := ms.donations.FindOne(ctx, bson.M{"transactionId": txID}).Decode(donation); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return donation, nil
}

// DonationsByCampaign method returns a page of donations made to the given
// campaign, newest first.
func (ms *MongoStorage) DonationsByCampaign(campaignID uint64, page, pageSize int64) ([]*Donation, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"campaignId": campaignID}
	total, err := ms.donations.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := paginationOpts(page, pageSize).SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := ms.donations.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var donations []*Donation
	if err := cur.All(ctx, &donations); err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}
