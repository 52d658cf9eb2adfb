package db

import (
	"fmt"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestCreateDonationIdempotency(t *testing.T) {
	c := qt.New(t)
	defer func() {
		c.Assert(testDB.Reset(), qt.IsNil)
	}()

	campaignID, err := testDB.SetCampaign(&Campaign{Title: "Food Drive", GoalAmount: 100000, Active: true})
	c.Assert(err, qt.IsNil)

	donation := &Donation{
		DonorID:       1,
		DonorEmail:    "donor@example.com",
		CampaignID:    campaignID,
		Amount:        2500,
		Currency:      "usd",
		Type:          DonationTypeOneTime,
		PaymentStatus: PaymentStatusCompleted,
		TransactionID: "pi_test_1",
		CreatedAt:     time.Now(),
	}
	created, err := testDB.CreateDonation(donation)
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsTrue)

	// the same transaction inserted again is silently dropped by the unique
	// index, no error and no second document
	duplicate := &Donation{
		CampaignID:    campaignID,
		Amount:        2500,
		Currency:      "usd",
		Type:          DonationTypeOneTime,
		PaymentStatus: PaymentStatusCompleted,
		TransactionID: "pi_test_1",
		CreatedAt:     time.Now(),
	}
	created, err = testDB.CreateDonation(duplicate)
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsFalse)

	donations, total, err := testDB.DonationsByCampaign(campaignID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(1))
	c.Assert(donations, qt.HasLen, 1)

	stored, err := testDB.DonationByTransactionID("pi_test_1")
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Amount, qt.Equals, int64(2500))
	c.Assert(stored.DonorEmail, qt.Equals, "donor@example.com")
}

func TestCreateDonationIDCollision(t *testing.T) {
	c := qt.New(t)
	defer func() {
		c.Assert(testDB.Reset(), qt.IsNil)
	}()

	campaignID, err := testDB.SetCampaign(&Campaign{Title: "Food Drive", GoalAmount: 100000, Active: true})
	c.Assert(err, qt.IsNil)

	first := &Donation{
		CampaignID:    campaignID,
		Amount:        2500,
		Currency:      "usd",
		Type:          DonationTypeOneTime,
		PaymentStatus: PaymentStatusCompleted,
		TransactionID: "pi_seq_1",
	}
	created, err := testDB.CreateDonation(first)
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsTrue)

	// a donation racing to the same sequential id is a different transaction,
	// not a replay: it must be inserted under a fresh id, never dropped
	second := &Donation{
		ID:            first.ID,
		CampaignID:    campaignID,
		Amount:        1000,
		Currency:      "usd",
		Type:          DonationTypeOneTime,
		PaymentStatus: PaymentStatusCompleted,
		TransactionID: "pi_seq_2",
	}
	created, err = testDB.CreateDonation(second)
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsTrue)
	c.Assert(second.ID, qt.Not(qt.Equals), first.ID)

	_, total, err := testDB.DonationsByCampaign(campaignID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(2))
}

func TestCreateDonationConcurrent(t *testing.T) {
	c := qt.New(t)
	defer func() {
		c.Assert(testDB.Reset(), qt.IsNil)
	}()

	campaignID, err := testDB.SetCampaign(&Campaign{Title: "Food Drive", GoalAmount: 100000, Active: true})
	c.Assert(err, qt.IsNil)

	// distinct transactions inserted concurrently all land, no matter how the
	// sequential id reads interleave
	const donors = 10
	var wg sync.WaitGroup
	results := make(chan bool, donors)
	errs := make(chan error, donors)
	for i := 0; i < donors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := testDB.CreateDonation(&Donation{
				CampaignID:    campaignID,
				Amount:        1000,
				Currency:      "usd",
				Type:          DonationTypeOneTime,
				PaymentStatus: PaymentStatusCompleted,
				TransactionID: fmt.Sprintf("pi_conc_%d", i),
			})
			results <- created
			errs <- err
		}(i)
	}
	wg.Wait()
	close(results)
	close(errs)
	for err := range errs {
		c.Assert(err, qt.IsNil)
	}
	for created := range results {
		c.Assert(created, qt.IsTrue)
	}

	_, total, err := testDB.DonationsByCampaign(campaignID, 1, 2*donors)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(donors))
}

func TestCreateDonationValidation(t *testing.T) {
	c := qt.New(t)
	defer func() {
		c.Assert(testDB.Reset(), qt.IsNil)
	}()

	// missing transaction id
	_, err := testDB.CreateDonation(&Donation{CampaignID: 1, Type: DonationTypeOneTime})
	c.Assert(err, qt.Equals, ErrInvalidData)

	// missing campaign
	_, err = testDB.CreateDonation(&Donation{TransactionID: "tx", Type: DonationTypeOneTime})
	c.Assert(err, qt.Equals, ErrInvalidData)

	// unknown donation type
	_, err = testDB.CreateDonation(&Donation{TransactionID: "tx", CampaignID: 1, Type: "bitcoin"})
	c.Assert(err, qt.Equals, ErrInvalidData)
}

func TestDonationsByCampaignPagination(t *testing.T) {
	c := qt.New(t)
	defer func() {
		c.Assert(testDB.Reset(), qt.IsNil)
	}()

	campaignID, err := testDB.SetCampaign(&Campaign{Title: "Shelter", GoalAmount: 100000, Active: true})
	c.Assert(err, qt.IsNil)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := testDB.CreateDonation(&Donation{
			CampaignID:    campaignID,
			Amount:        int64(1000 * (i + 1)),
			Currency:      "usd",
			Type:          DonationTypeOneTime,
			PaymentStatus: PaymentStatusCompleted,
			TransactionID: "pi_page_" + string(rune('a'+i)),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		c.Assert(err, qt.IsNil)
	}

	// newest first
	donations, total, err := testDB.DonationsByCampaign(campaignID, 1, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(5))
	c.Assert(donations, qt.HasLen, 2)
	c.Assert(donations[0].Amount, qt.Equals, int64(5000))
	c.Assert(donations[1].Amount, qt.Equals, int64(4000))

	donations, _, err = testDB.DonationsByCampaign(campaignID, 3, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(donations, qt.HasLen, 1)
	c.Assert(donations[0].Amount, qt.Equals, int64(1000))
}
