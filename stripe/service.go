// Package stripe provides the Stripe payment integration: donation checkout
// session creation, webhook event dispatch and idempotent donation recording.
package stripe

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	//revive:disable:import-alias-naming
	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
	"github.com/helpinghub/volunteer-backend/notifications"
	"github.com/helpinghub/volunteer-backend/notifications/mailtemplates"
	"go.vocdoni.io/dvote/log"
)

// Checkout session metadata keys. The provider metadata channel is
// string-typed and is the only way the asynchronous webhook recovers the
// donation context, so ids and booleans are explicitly serialized on the way
// out and re-parsed on the way back.
const (
	metadataKeyCampaignID   = "campaign_id"
	metadataKeyDonorID      = "donor_id"
	metadataKeyAnonymous    = "is_anonymous"
	metadataKeyDonationType = "donation_type"
)

// AnonymousDonorID is the donor id sentinel carried in session metadata for
// unauthenticated donations.
const AnonymousDonorID = "anonymous"

// minDonationCents is the minimum accepted donation ($1).
const minDonationCents = 100

// Repository is the persistence surface the Stripe service depends on. It is
// satisfied by db.MongoStorage.
type Repository interface {
	Campaign(id uint64) (*db.Campaign, error)
	CreateDonation(donation *db.Donation) (bool, error)
	AddCampaignDonation(id uint64, amount int64) error
	User(id uint64) (*db.User, error)
}

// Gateway is the payment provider surface the service depends on. It is
// satisfied by Client; tests substitute a stub to exercise the webhook flows
// without calling the live API.
type Gateway interface {
	ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error)
	NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error)
	GetCheckoutSession(sessionID string) (*stripeapi.CheckoutSession, error)
	LatestSessionForSubscription(subscriptionID string) (*stripeapi.CheckoutSession, error)
}

// Service provides the main business logic for Stripe operations.
type Service struct {
	client   Gateway
	repo     Repository
	events   *MemoryEventStore
	config   *Config
	notifier notifications.NotificationService
	sms      notifications.NotificationService
}

// NewService creates a new Stripe service. The notifier and sms services are
// optional; when nil no donation receipts are sent over that channel.
func NewService(config *Config, repo Repository, events *MemoryEventStore,
	notifier, sms notifications.NotificationService,
) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if events == nil {
		events = NewMemoryEventStore(0)
	}
	return &Service{
		client:   NewClient(config),
		repo:     repo,
		events:   events,
		config:   config,
		notifier: notifier,
		sms:      sms,
	}, nil
}

// DonationRequest is a donation intent as received from the client. Exactly
// one of Amount (in whole currency units) or Tier must be set. Donor is nil
// for unauthenticated requests, which are always anonymous.
type DonationRequest struct {
	Amount     float64
	Tier       Tier
	Recurring  bool
	CampaignID uint64
	Donor      *db.User
}

// CreateDonationCheckoutSession validates a donation request, resolves the
// amount and price, and creates the provider checkout session. All validation
// failures are returned as coded client errors before any Stripe call is
// made; adapter failures surface as-is with the provider's message.
func (s *Service) CreateDonationCheckoutSession(req *DonationRequest) (*stripeapi.CheckoutSession, error) {
	hasAmount := req.Amount != 0
	hasTier := req.Tier != ""
	if hasAmount == hasTier {
		return nil, errors.ErrAmountOrTierRequired
	}
	if req.CampaignID == 0 {
		return nil, errors.ErrNoCampaignProvided
	}
	campaign, err := s.repo.Campaign(req.CampaignID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrCampaignNotFound
		}
		return nil, errors.ErrGenericInternalServerError.WithErr(err)
	}

	var amountCents int64
	var priceID string
	if hasTier {
		amount, ok := s.config.AmountForTier(req.Tier)
		if !ok {
			return nil, errors.ErrInvalidTier.Withf("unknown tier %q", req.Tier)
		}
		// Only recurring tiers have a catalog price, so a one-time tier
		// donation never resolves and is rejected here.
		priceID, ok = s.config.PriceIDForTier(req.Tier, req.Recurring)
		if !ok {
			return nil, errors.ErrInvalidTier.Withf("tier %q has no price for this donation type", req.Tier)
		}
		amountCents = amount
	} else {
		if req.Recurring {
			return nil, errors.ErrRecurringRequiresTier
		}
		amountCents = int64(math.Round(req.Amount * 100))
	}
	if amountCents < minDonationCents {
		return nil, errors.ErrDonationBelowMinimum
	}

	return s.client.NewCheckoutSession(buildCheckoutParams(s.config, campaign, req, amountCents, priceID))
}

// buildCheckoutParams translates a validated donation intent into the provider
// session descriptor. The metadata attached here is echoed back on the
// webhook events and is the only channel carrying the donation context.
func buildCheckoutParams(cfg *Config, campaign *db.Campaign, req *DonationRequest,
	amountCents int64, priceID string,
) *stripeapi.CheckoutSessionParams {
	currency := cfg.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	params := &stripeapi.CheckoutSessionParams{
		SuccessURL: stripeapi.String(cfg.WebAppURL + "/donations/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripeapi.String(cfg.WebAppURL + "/donations/cancel"),
	}
	if req.Recurring {
		params.Mode = stripeapi.String(string(stripeapi.CheckoutSessionModeSubscription))
		params.LineItems = []*stripeapi.CheckoutSessionLineItemParams{
			{
				Price:    stripeapi.String(priceID),
				Quantity: stripeapi.Int64(1),
			},
		}
	} else {
		// One-time donations have no catalog price; the amount is sent as an
		// inline price in minor currency units.
		params.Mode = stripeapi.String(string(stripeapi.CheckoutSessionModePayment))
		params.LineItems = []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripeapi.String(currency),
					UnitAmount: stripeapi.Int64(amountCents),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(fmt.Sprintf("Donation to %s", campaign.Title)),
					},
				},
				Quantity: stripeapi.Int64(1),
			},
		}
	}

	donationType := db.DonationTypeOneTime
	if req.Recurring {
		donationType = db.DonationTypeRecurring
	}
	donorID := AnonymousDonorID
	anonymous := true
	if req.Donor != nil {
		donorID = strconv.FormatUint(req.Donor.ID, 10)
		anonymous = false
		if req.Donor.Email != "" {
			params.CustomerEmail = stripeapi.String(req.Donor.Email)
		}
	}
	params.AddMetadata(metadataKeyCampaignID, strconv.FormatUint(campaign.ID, 10))
	params.AddMetadata(metadataKeyDonorID, donorID)
	params.AddMetadata(metadataKeyAnonymous, strconv.FormatBool(anonymous))
	params.AddMetadata(metadataKeyDonationType, string(donationType))
	return params
}

// CheckoutSessionStatus represents the status of a checkout session.
type CheckoutSessionStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	AmountTotal   int64  `json:"amountTotal"`
	Currency      string `json:"currency"`
}

// GetCheckoutSession retrieves a checkout session status by ID.
func (s *Service) GetCheckoutSession(sessionID string) (*CheckoutSessionStatus, error) {
	session, err := s.client.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, err
	}
	status := &CheckoutSessionStatus{
		Status:        string(session.Status),
		PaymentStatus: string(session.PaymentStatus),
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
	}
	if session.CustomerDetails != nil {
		status.CustomerEmail = session.CustomerDetails.Email
	}
	return status, nil
}

// DonationRecord is a confirmed payment event, normalized from either a
// completed checkout session or a paid subscription invoice.
type DonationRecord struct {
	TransactionID string
	CampaignID    uint64
	DonorID       uint64
	DonorEmail    string
	Anonymous     bool
	Type          db.DonationType
	Amount        int64
	Currency      string
	ReceiptURL    string
	CreatedAt     time.Time
}

// recordDonation creates exactly one donation row for the record and bumps the
// campaign running total. Safe under at-least-once delivery: the insert is
// idempotent on the transaction id and a redelivered event that was already
// recorded is a no-op, so the campaign total reflects each payment exactly
// once regardless of arrival order or duplication.
func (s *Service) recordDonation(rec *DonationRecord) error {
	donation := &db.Donation{
		CampaignID:    rec.CampaignID,
		Amount:        rec.Amount,
		Currency:      rec.Currency,
		Type:          rec.Type,
		PaymentStatus: db.PaymentStatusCompleted,
		TransactionID: rec.TransactionID,
		ReceiptURL:    rec.ReceiptURL,
		Anonymous:     rec.Anonymous,
		CreatedAt:     rec.CreatedAt,
	}
	if !rec.Anonymous {
		// anonymous donations omit the donor identity from the row
		donation.DonorID = rec.DonorID
		donation.DonorEmail = rec.DonorEmail
	}
	created, err := s.repo.CreateDonation(donation)
	if err != nil {
		return fmt.Errorf("failed to record donation %s: %w", rec.TransactionID, err)
	}
	if !created {
		log.Infof("stripe webhook: donation %s already recorded, skipping", rec.TransactionID)
		return nil
	}
	if err := s.repo.AddCampaignDonation(rec.CampaignID, rec.Amount); err != nil {
		return fmt.Errorf("failed to update campaign %d total for donation %s: %w",
			rec.CampaignID, rec.TransactionID, err)
	}
	log.Infow("donation recorded", "transaction", rec.TransactionID,
		"campaign", rec.CampaignID, "amount", rec.Amount, "type", rec.Type)
	s.sendDonationReceipt(rec)
	s.sendDonationReceiptSMS(rec)
	return nil
}

// sendDonationReceipt sends a thank-you email to the donor. Best effort:
// failures are logged and never bubble up to the webhook response.
func (s *Service) sendDonationReceipt(rec *DonationRecord) {
	if s.notifier == nil || rec.Anonymous || rec.DonorEmail == "" {
		return
	}
	notification, err := mailtemplates.DonationReceiptNotification.ExecTemplate(struct {
		Amount   string
		Campaign uint64
		Link     string
	}{
		Amount:   fmt.Sprintf("$%.2f", float64(rec.Amount)/100),
		Campaign: rec.CampaignID,
		Link:     fmt.Sprintf("%s/campaigns/%d", s.config.WebAppURL, rec.CampaignID),
	})
	if err != nil {
		log.Warnw("could not compose donation receipt", "error", err)
		return
	}
	notification.ToAddress = rec.DonorEmail
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.notifier.SendNotification(ctx, notification); err != nil {
		log.Warnw("could not send donation receipt", "error", err, "transaction", rec.TransactionID)
	}
}

// sendDonationReceiptSMS texts a short receipt to donors with a known phone
// number. Best effort, like the email receipt.
func (s *Service) sendDonationReceiptSMS(rec *DonationRecord) {
	if s.sms == nil || rec.Anonymous || rec.DonorID == 0 {
		return
	}
	donor, err := s.repo.User(rec.DonorID)
	if err != nil || donor.Phone == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.sms.SendNotification(ctx, &notifications.Notification{
		ToName:   donor.FirstName,
		ToNumber: donor.Phone,
		PlainBody: fmt.Sprintf("Thank you for your donation of $%.2f to HelpingHub!",
			float64(rec.Amount)/100),
	}); err != nil {
		log.Warnw("could not send donation receipt SMS", "error", err, "transaction", rec.TransactionID)
	}
}

// RecordInKindDonation records a donation made outside the payment provider
// (goods or services). A synthetic transaction id keeps the uniqueness
// invariant; the campaign total is not touched since there is no monetary
// amount flowing through the provider.
func (s *Service) RecordInKindDonation(donor *db.User, campaignID uint64, description string) error {
	if campaignID == 0 {
		return errors.ErrNoCampaignProvided
	}
	if _, err := s.repo.Campaign(campaignID); err != nil {
		if err == db.ErrNotFound {
			return errors.ErrCampaignNotFound
		}
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	donation := &db.Donation{
		DonorID:       donor.ID,
		DonorEmail:    donor.Email,
		CampaignID:    campaignID,
		Type:          db.DonationTypeInKind,
		PaymentStatus: db.PaymentStatusCompleted,
		TransactionID: fmt.Sprintf("inkind_%d_%d_%d", donor.ID, campaignID, time.Now().UnixNano()),
		Description:   description,
		CreatedAt:     time.Now(),
	}
	if _, err := s.repo.CreateDonation(donation); err != nil {
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	log.Infow("in-kind donation recorded", "donor", donor.ID,
		"campaign", campaignID, "description", description)
	return nil
}
