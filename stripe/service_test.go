package stripe

import (
	"context"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
	"github.com/helpinghub/volunteer-backend/notifications"
)

// fakeRepo is an in-memory stripe.Repository used to test validation and
// recording logic without a database.
type fakeRepo struct {
	campaigns map[uint64]*db.Campaign
	donations map[string]*db.Donation
	users     map[uint64]*db.User
	failing   bool
}

func newFakeRepo(campaigns ...*db.Campaign) *fakeRepo {
	repo := &fakeRepo{
		campaigns: make(map[uint64]*db.Campaign),
		donations: make(map[string]*db.Donation),
		users:     make(map[uint64]*db.User),
	}
	for _, campaign := range campaigns {
		repo.campaigns[campaign.ID] = campaign
	}
	return repo
}

func (f *fakeRepo) Campaign(id uint64) (*db.Campaign, error) {
	if f.failing {
		return nil, fmt.Errorf("storage unavailable")
	}
	campaign, ok := f.campaigns[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return campaign, nil
}

func (f *fakeRepo) CreateDonation(donation *db.Donation) (bool, error) {
	if f.failing {
		return false, fmt.Errorf("storage unavailable")
	}
	if _, exists := f.donations[donation.TransactionID]; exists {
		return false, nil
	}
	f.donations[donation.TransactionID] = donation
	return true, nil
}

func (f *fakeRepo) User(id uint64) (*db.User, error) {
	if f.failing {
		return nil, fmt.Errorf("storage unavailable")
	}
	user, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return user, nil
}

func (f *fakeRepo) AddCampaignDonation(id uint64, amount int64) error {
	if f.failing {
		return fmt.Errorf("storage unavailable")
	}
	campaign, ok := f.campaigns[id]
	if !ok {
		return db.ErrNotFound
	}
	campaign.CurrentAmount += amount
	campaign.DonationsCount++
	return nil
}

func testConfig() *Config {
	return &Config{
		APIKey:        "sk_test_123",
		WebhookSecret: "whsec_test_123",
		WebAppURL:     "https://app.helpinghub.org",
		Currency:      "usd",
		Tiers:         DefaultTiers(),
	}
}

func testService(c *qt.C, repo Repository) *Service {
	service, err := NewService(testConfig(), repo, NewMemoryEventStore(time.Minute), nil, nil)
	c.Assert(err, qt.IsNil)
	return service
}

// fakeNotifier records sent notifications in memory.
type fakeNotifier struct {
	sent []*notifications.Notification
}

func (f *fakeNotifier) New(any) error { return nil }

func (f *fakeNotifier) SendNotification(_ context.Context, n *notifications.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

func testCampaign() *db.Campaign {
	return &db.Campaign{ID: 7, Title: "Winter Shelter", GoalAmount: 500000, Active: true}
}

func TestCreateDonationCheckoutSessionValidation(t *testing.T) {
	c := qt.New(t)
	service := testService(c, newFakeRepo(testCampaign()))

	// neither amount nor tier
	_, err := service.CreateDonationCheckoutSession(&DonationRequest{CampaignID: 7})
	c.Assert(err, qt.Equals, error(errors.ErrAmountOrTierRequired))

	// both amount and tier
	_, err = service.CreateDonationCheckoutSession(&DonationRequest{
		Amount: 25, Tier: TierSilver, CampaignID: 7,
	})
	c.Assert(err, qt.Equals, error(errors.ErrAmountOrTierRequired))

	// no campaign
	_, err = service.CreateDonationCheckoutSession(&DonationRequest{Amount: 25})
	c.Assert(err, qt.Equals, error(errors.ErrNoCampaignProvided))

	// unknown campaign
	_, err = service.CreateDonationCheckoutSession(&DonationRequest{Amount: 25, CampaignID: 99})
	c.Assert(err, qt.Equals, error(errors.ErrCampaignNotFound))

	// unknown tier
	_, err = service.CreateDonationCheckoutSession(&DonationRequest{
		Tier: "platinum", Recurring: true, CampaignID: 7,
	})
	apiErr, ok := err.(errors.Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(apiErr.Code, qt.Equals, errors.ErrInvalidTier.Code)

	// one-time tier donation never resolves a price
	_, err = service.CreateDonationCheckoutSession(&DonationRequest{Tier: TierGold, CampaignID: 7})
	apiErr, ok = err.(errors.Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(apiErr.Code, qt.Equals, errors.ErrInvalidTier.Code)

	// recurring donations require a tier
	_, err = service.CreateDonationCheckoutSession(&DonationRequest{
		Amount: 25, Recurring: true, CampaignID: 7,
	})
	c.Assert(err, qt.Equals, error(errors.ErrRecurringRequiresTier))

	// below the $1 minimum
	_, err = service.CreateDonationCheckoutSession(&DonationRequest{Amount: 0.5, CampaignID: 7})
	c.Assert(err, qt.Equals, error(errors.ErrDonationBelowMinimum))
	c.Assert(err.Error(), qt.Contains, "Minimum donation is $1.")

	// repository failure surfaces as an internal error, not a client one
	service = testService(c, &fakeRepo{failing: true})
	_, err = service.CreateDonationCheckoutSession(&DonationRequest{Amount: 25, CampaignID: 7})
	apiErr, ok = err.(errors.Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(apiErr.Code, qt.Equals, errors.ErrGenericInternalServerError.Code)
}

func TestBuildCheckoutParamsOneTime(t *testing.T) {
	c := qt.New(t)
	campaign := testCampaign()
	req := &DonationRequest{Amount: 25, CampaignID: campaign.ID}

	params := buildCheckoutParams(testConfig(), campaign, req, 2500, "")
	c.Assert(*params.Mode, qt.Equals, string(stripeapi.CheckoutSessionModePayment))
	c.Assert(params.LineItems, qt.HasLen, 1)
	c.Assert(params.LineItems[0].Price, qt.IsNil)
	c.Assert(*params.LineItems[0].PriceData.UnitAmount, qt.Equals, int64(2500))
	c.Assert(*params.LineItems[0].PriceData.Currency, qt.Equals, "usd")
	c.Assert(*params.LineItems[0].PriceData.ProductData.Name, qt.Contains, campaign.Title)
	c.Assert(params.CustomerEmail, qt.IsNil)
	c.Assert(*params.SuccessURL, qt.Contains, "https://app.helpinghub.org")

	// anonymous request carries the donor sentinel
	c.Assert(params.Metadata["campaign_id"], qt.Equals, "7")
	c.Assert(params.Metadata["donor_id"], qt.Equals, AnonymousDonorID)
	c.Assert(params.Metadata["is_anonymous"], qt.Equals, "true")
	c.Assert(params.Metadata["donation_type"], qt.Equals, string(db.DonationTypeOneTime))
}

func TestBuildCheckoutParamsRecurringTier(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	campaign := testCampaign()
	donor := &db.User{ID: 42, Email: "donor@example.com"}
	req := &DonationRequest{Tier: TierGold, Recurring: true, CampaignID: campaign.ID, Donor: donor}

	priceID, ok := cfg.PriceIDForTier(TierGold, true)
	c.Assert(ok, qt.IsTrue)
	amount, ok := cfg.AmountForTier(TierGold)
	c.Assert(ok, qt.IsTrue)
	c.Assert(amount, qt.Equals, int64(5000))

	params := buildCheckoutParams(cfg, campaign, req, amount, priceID)
	c.Assert(*params.Mode, qt.Equals, string(stripeapi.CheckoutSessionModeSubscription))
	c.Assert(params.LineItems, qt.HasLen, 1)
	c.Assert(*params.LineItems[0].Price, qt.Equals, priceID)
	c.Assert(params.LineItems[0].PriceData, qt.IsNil)
	c.Assert(*params.CustomerEmail, qt.Equals, "donor@example.com")

	c.Assert(params.Metadata["donor_id"], qt.Equals, "42")
	c.Assert(params.Metadata["is_anonymous"], qt.Equals, "false")
	c.Assert(params.Metadata["donation_type"], qt.Equals, string(db.DonationTypeRecurring))
}

func TestRecordDonationIdempotency(t *testing.T) {
	c := qt.New(t)
	campaign := testCampaign()
	repo := newFakeRepo(campaign)
	service := testService(c, repo)

	rec := &DonationRecord{
		TransactionID: "pi_test_123",
		CampaignID:    campaign.ID,
		DonorID:       42,
		DonorEmail:    "donor@example.com",
		Type:          db.DonationTypeOneTime,
		Amount:        2500,
		Currency:      "usd",
		CreatedAt:     time.Now(),
	}
	c.Assert(service.recordDonation(rec), qt.IsNil)
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(2500))
	c.Assert(campaign.DonationsCount, qt.Equals, int64(1))

	// the same transaction recorded again is a no-op
	c.Assert(service.recordDonation(rec), qt.IsNil)
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(2500))
	c.Assert(campaign.DonationsCount, qt.Equals, int64(1))
	c.Assert(repo.donations, qt.HasLen, 1)
}

func TestRecordDonationAnonymousOmitsDonor(t *testing.T) {
	c := qt.New(t)
	campaign := testCampaign()
	repo := newFakeRepo(campaign)
	service := testService(c, repo)

	c.Assert(service.recordDonation(&DonationRecord{
		TransactionID: "pi_test_anon",
		CampaignID:    campaign.ID,
		DonorID:       42,
		DonorEmail:    "donor@example.com",
		Anonymous:     true,
		Type:          db.DonationTypeOneTime,
		Amount:        1000,
		Currency:      "usd",
	}), qt.IsNil)

	donation := repo.donations["pi_test_anon"]
	c.Assert(donation, qt.IsNotNil)
	c.Assert(donation.Anonymous, qt.IsTrue)
	c.Assert(donation.DonorID, qt.Equals, uint64(0))
	c.Assert(donation.DonorEmail, qt.Equals, "")
}

func TestRecordDonationSendsSMSReceipt(t *testing.T) {
	c := qt.New(t)
	campaign := testCampaign()
	repo := newFakeRepo(campaign)
	repo.users[42] = &db.User{ID: 42, Email: "donor@example.com", FirstName: "Sam", Phone: "+12025550143"}
	sms := &fakeNotifier{}
	service, err := NewService(testConfig(), repo, NewMemoryEventStore(time.Minute), nil, sms)
	c.Assert(err, qt.IsNil)

	c.Assert(service.recordDonation(&DonationRecord{
		TransactionID: "pi_sms_1",
		CampaignID:    campaign.ID,
		DonorID:       42,
		DonorEmail:    "donor@example.com",
		Type:          db.DonationTypeOneTime,
		Amount:        2500,
		Currency:      "usd",
	}), qt.IsNil)
	c.Assert(sms.sent, qt.HasLen, 1)
	c.Assert(sms.sent[0].ToNumber, qt.Equals, "+12025550143")
	c.Assert(sms.sent[0].PlainBody, qt.Contains, "$25.00")

	// anonymous donations never get a text
	c.Assert(service.recordDonation(&DonationRecord{
		TransactionID: "pi_sms_2",
		CampaignID:    campaign.ID,
		Anonymous:     true,
		Type:          db.DonationTypeOneTime,
		Amount:        1000,
		Currency:      "usd",
	}), qt.IsNil)
	c.Assert(sms.sent, qt.HasLen, 1)

	// donors without a phone on file are skipped
	repo.users[43] = &db.User{ID: 43, Email: "quiet@example.com"}
	c.Assert(service.recordDonation(&DonationRecord{
		TransactionID: "pi_sms_3",
		CampaignID:    campaign.ID,
		DonorID:       43,
		DonorEmail:    "quiet@example.com",
		Type:          db.DonationTypeOneTime,
		Amount:        1000,
		Currency:      "usd",
	}), qt.IsNil)
	c.Assert(sms.sent, qt.HasLen, 1)
}

func TestRecordInKindDonation(t *testing.T) {
	c := qt.New(t)
	campaign := testCampaign()
	repo := newFakeRepo(campaign)
	service := testService(c, repo)
	donor := &db.User{ID: 42, Email: "donor@example.com"}

	c.Assert(service.RecordInKindDonation(donor, campaign.ID, "20 winter coats"), qt.IsNil)
	c.Assert(repo.donations, qt.HasLen, 1)
	for _, donation := range repo.donations {
		c.Assert(donation.Type, qt.Equals, db.DonationTypeInKind)
		c.Assert(donation.DonorID, qt.Equals, uint64(42))
		c.Assert(donation.Description, qt.Equals, "20 winter coats")
	}
	// no monetary amount flows through the campaign total
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(0))

	err := service.RecordInKindDonation(donor, 99, "anything")
	c.Assert(err, qt.Equals, error(errors.ErrCampaignNotFound))
}
