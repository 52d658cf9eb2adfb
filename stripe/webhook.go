package stripe

import (
	"encoding/json"
	"strconv"
	"time"

	//revive:disable:import-alias-naming
	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/helpinghub/volunteer-backend/db"
	"go.vocdoni.io/dvote/log"
)

// ProcessWebhookEvent verifies, deduplicates and dispatches a webhook event.
// A signature failure returns a validation error (callers answer 400, the
// provider will not retry). Any handler failure leaves the event unmarked so
// a provider redelivery gets another chance.
func (s *Service) ProcessWebhookEvent(payload []byte, signatureHeader string) error {
	event, err := s.client.ValidateWebhookEvent(payload, signatureHeader)
	if err != nil {
		return err
	}
	if s.events.EventExists(event.ID) {
		log.Debugf("stripe webhook: event %s already processed, skipping", event.ID)
		return nil
	}
	if err := s.handleEvent(event); err != nil {
		return err
	}
	return s.events.MarkProcessed(event.ID)
}

func (s *Service) handleEvent(event *stripeapi.Event) error {
	switch event.Type {
	case stripeapi.EventTypeCheckoutSessionCompleted,
		stripeapi.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		return s.handleCheckoutSessionCompleted(event)
	case stripeapi.EventTypeInvoicePaid:
		return s.handleInvoicePaid(event)
	default:
		// acknowledged but ignored, so the provider stops redelivering
		log.Debugf("stripe webhook: unhandled event type %s (id %s)", event.Type, event.ID)
		return nil
	}
}

// handleCheckoutSessionCompleted records the donation carried by a completed
// checkout session. Covers one-time payments (sync and delayed methods) and
// the initial charge of a subscription. A session whose donation context
// cannot be recovered is logged and acknowledged; a redelivery would carry
// the same unusable payload.
func (s *Service) handleCheckoutSessionCompleted(event *stripeapi.Event) error {
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Warnw("unparseable checkout session, skipping event", "event", event.ID, "error", err)
		return nil
	}
	rec, err := donationFromSession(&session)
	if err != nil {
		log.Warnw("unusable checkout session metadata, skipping event",
			"event", event.ID, "session", session.ID, "error", err)
		return nil
	}
	return s.recordDonation(rec)
}

// handleInvoicePaid records the donation for a recurring subscription charge.
// The invoice itself carries no donation context, so the originating checkout
// session is looked up through the subscription and its metadata reused. An
// invoice whose context cannot be recovered is logged and acknowledged;
// retrying would never succeed.
func (s *Service) handleInvoicePaid(event *stripeapi.Event) error {
	var invoice stripeapi.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return NewStripeError("invalid_event", "failed to parse invoice from event", err)
	}
	if invoice.Subscription == nil {
		log.Debugf("stripe webhook: invoice %s has no subscription, ignoring", invoice.ID)
		return nil
	}
	session, err := s.client.LatestSessionForSubscription(invoice.Subscription.ID)
	if err != nil {
		// transient lookup failure, let the provider retry
		return err
	}
	if session == nil || len(session.Metadata) == 0 {
		log.Warnw("no session metadata for subscription, skipping invoice",
			"subscription", invoice.Subscription.ID, "invoice", invoice.ID)
		return nil
	}
	rec, err := donationFromMetadata(session.Metadata)
	if err != nil {
		log.Warnw("unusable session metadata for subscription, skipping invoice",
			"subscription", invoice.Subscription.ID, "invoice", invoice.ID, "error", err)
		return nil
	}
	rec.TransactionID = invoice.ID
	rec.Amount = invoice.AmountPaid
	rec.Currency = string(invoice.Currency)
	rec.DonorEmail = invoice.CustomerEmail
	rec.ReceiptURL = invoice.HostedInvoiceURL
	rec.CreatedAt = time.Unix(invoice.Created, 0)
	if rec.Type == "" {
		rec.Type = db.DonationTypeRecurring
	}
	return s.recordDonation(rec)
}

// donationFromSession normalizes a completed checkout session into a
// donation record. The payment intent id is the preferred transaction id;
// subscription sessions carry none, so the session id stands in.
func donationFromSession(session *stripeapi.CheckoutSession) (*DonationRecord, error) {
	rec, err := donationFromMetadata(session.Metadata)
	if err != nil {
		return nil, err
	}
	rec.TransactionID = session.ID
	if session.PaymentIntent != nil {
		rec.TransactionID = session.PaymentIntent.ID
	}
	rec.Amount = session.AmountTotal
	rec.Currency = string(session.Currency)
	if session.CustomerDetails != nil {
		rec.DonorEmail = session.CustomerDetails.Email
	}
	rec.CreatedAt = time.Unix(session.Created, 0)
	if rec.Type == "" {
		rec.Type = db.DonationTypeOneTime
	}
	return rec, nil
}

// donationFromMetadata parses the string-typed session metadata written by
// buildCheckoutParams back into the donation context. A session without a
// usable campaign id cannot be recorded.
func donationFromMetadata(metadata map[string]string) (*DonationRecord, error) {
	if len(metadata) == 0 {
		return nil, NewStripeError("invalid_event", "session has no donation metadata", nil)
	}
	campaignID, err := strconv.ParseUint(metadata[metadataKeyCampaignID], 10, 64)
	if err != nil || campaignID == 0 {
		return nil, NewStripeError("invalid_event", "session has no usable campaign id", err)
	}
	rec := &DonationRecord{
		CampaignID: campaignID,
		Type:       db.DonationType(metadata[metadataKeyDonationType]),
		Anonymous:  true,
	}
	if anonymous, err := strconv.ParseBool(metadata[metadataKeyAnonymous]); err == nil {
		rec.Anonymous = anonymous
	}
	if donorID := metadata[metadataKeyDonorID]; donorID != "" && donorID != AnonymousDonorID {
		if id, err := strconv.ParseUint(donorID, 10, 64); err == nil {
			rec.DonorID = id
		}
	}
	return rec, nil
}
