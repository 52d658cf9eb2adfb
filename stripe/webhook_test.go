package stripe

import (
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/helpinghub/volunteer-backend/db"
)

// fakeGateway keeps the real signature verification from the embedded client
// and stubs the subscription session lookup.
type fakeGateway struct {
	*Client
	session *stripeapi.CheckoutSession
	err     error
}

func (f *fakeGateway) LatestSessionForSubscription(string) (*stripeapi.CheckoutSession, error) {
	return f.session, f.err
}

// signedCheckoutEvent builds a checkout.session.completed event payload
// signed with the test webhook secret.
func signedCheckoutEvent(eventID, sessionID, paymentIntentID string, metadata string) *webhook.SignedPayload {
	paymentIntent := "null"
	if paymentIntentID != "" {
		paymentIntent = fmt.Sprintf("%q", paymentIntentID)
	}
	payload := fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": %q,
				"object": "checkout.session",
				"payment_intent": %s,
				"amount_total": 2500,
				"currency": "usd",
				"created": 1700000000,
				"customer_details": {"email": "donor@example.com"},
				"metadata": %s
			}
		}
	}`, eventID, sessionID, paymentIntent, metadata)
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    "whsec_test_123",
		Timestamp: time.Now(),
	})
}

const donationMetadata = `{
	"campaign_id": "7",
	"donor_id": "42",
	"is_anonymous": "false",
	"donation_type": "one_time"
}`

func TestProcessWebhookEventCheckoutCompleted(t *testing.T) {
	c := qt.New(t)
	campaign := testCampaign()
	repo := newFakeRepo(campaign)
	service := testService(c, repo)

	signed := signedCheckoutEvent("evt_1", "cs_test_1", "pi_test_1", donationMetadata)
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)

	donation := repo.donations["pi_test_1"]
	c.Assert(donation, qt.IsNotNil)
	c.Assert(donation.CampaignID, qt.Equals, uint64(7))
	c.Assert(donation.DonorID, qt.Equals, uint64(42))
	c.Assert(donation.DonorEmail, qt.Equals, "donor@example.com")
	c.Assert(donation.Amount, qt.Equals, int64(2500))
	c.Assert(donation.Currency, qt.Equals, "usd")
	c.Assert(donation.Type, qt.Equals, db.DonationTypeOneTime)
	c.Assert(donation.PaymentStatus, qt.Equals, db.PaymentStatusCompleted)
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(2500))
}

func TestProcessWebhookEventDeduplication(t *testing.T) {
	c := qt.New(t)
	campaign := testCampaign()
	repo := newFakeRepo(campaign)
	service := testService(c, repo)

	// the exact same event redelivered is dropped by the event store
	signed := signedCheckoutEvent("evt_dup", "cs_test_1", "pi_test_1", donationMetadata)
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
	c.Assert(repo.donations, qt.HasLen, 1)
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(2500))

	// a different event for the same transaction is caught by the unique
	// transaction id instead
	signed = signedCheckoutEvent("evt_other", "cs_test_1", "pi_test_1", donationMetadata)
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
	c.Assert(repo.donations, qt.HasLen, 1)
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(2500))
}

func TestProcessWebhookEventBadSignature(t *testing.T) {
	c := qt.New(t)
	service := testService(c, newFakeRepo(testCampaign()))

	err := service.ProcessWebhookEvent([]byte(`{}`), "t=1,v1=bad")
	c.Assert(err, qt.IsNotNil)
	c.Assert(IsValidationError(err), qt.IsTrue)
}

func TestProcessWebhookEventUnhandledType(t *testing.T) {
	c := qt.New(t)
	repo := newFakeRepo(testCampaign())
	service := testService(c, repo)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(`{"id": "evt_sub", "type": "customer.subscription.created", "data": {"object": {}}}`),
		Secret:    "whsec_test_123",
		Timestamp: time.Now(),
	})
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
	c.Assert(repo.donations, qt.HasLen, 0)
}

func TestProcessWebhookEventAPIVersionMismatch(t *testing.T) {
	c := qt.New(t)
	repo := newFakeRepo(testCampaign())
	service := testService(c, repo)

	// a correctly signed event from another API version is still authentic
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(`{"id": "evt_ver", "api_version": "2020-08-27",` +
			` "type": "customer.created", "data": {"object": {}}}`),
		Secret:    "whsec_test_123",
		Timestamp: time.Now(),
	})
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
}

func TestProcessWebhookEventUnusableMetadata(t *testing.T) {
	c := qt.New(t)
	repo := newFakeRepo(testCampaign())
	service := testService(c, repo)

	// an authentic completed session with no donation context is acknowledged
	// without recording: a redelivery would carry the same payload
	signed := signedCheckoutEvent("evt_meta", "cs_meta", "pi_meta", `{}`)
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
	c.Assert(repo.donations, qt.HasLen, 0)
}

func signedInvoicePaidEvent(eventID, invoiceID, subscriptionID string) *webhook.SignedPayload {
	payload := fmt.Sprintf(`{
		"id": %q,
		"type": "invoice.paid",
		"data": {
			"object": {
				"id": %q,
				"object": "invoice",
				"subscription": %q,
				"amount_paid": 5000,
				"currency": "usd",
				"created": 1700000000,
				"customer_email": "donor@example.com",
				"hosted_invoice_url": "https://invoice.example.com/in_1"
			}
		}
	}`, eventID, invoiceID, subscriptionID)
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    "whsec_test_123",
		Timestamp: time.Now(),
	})
}

func TestHandleInvoicePaidNoPriorSession(t *testing.T) {
	c := qt.New(t)
	repo := newFakeRepo(testCampaign())
	service := testService(c, repo)
	service.client = &fakeGateway{Client: NewClient(testConfig())}

	// no checkout session is locatable for the subscription: the invoice is
	// acknowledged and no donation row appears
	signed := signedInvoicePaidEvent("evt_inv_1", "in_test_1", "sub_test_1")
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
	c.Assert(repo.donations, qt.HasLen, 0)
}

func TestHandleInvoicePaidRecordsRecurring(t *testing.T) {
	c := qt.New(t)
	campaign := testCampaign()
	repo := newFakeRepo(campaign)
	service := testService(c, repo)
	service.client = &fakeGateway{
		Client: NewClient(testConfig()),
		session: &stripeapi.CheckoutSession{Metadata: map[string]string{
			"campaign_id":   "7",
			"donor_id":      "42",
			"is_anonymous":  "false",
			"donation_type": string(db.DonationTypeRecurring),
		}},
	}

	// the invoice amount and tx ref merge with the session donation context
	signed := signedInvoicePaidEvent("evt_inv_2", "in_test_2", "sub_test_2")
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
	donation := repo.donations["in_test_2"]
	c.Assert(donation, qt.IsNotNil)
	c.Assert(donation.Type, qt.Equals, db.DonationTypeRecurring)
	c.Assert(donation.Amount, qt.Equals, int64(5000))
	c.Assert(donation.DonorID, qt.Equals, uint64(42))
	c.Assert(donation.DonorEmail, qt.Equals, "donor@example.com")
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(5000))
}

func TestHandleInvoicePaidLookupFailure(t *testing.T) {
	c := qt.New(t)
	repo := newFakeRepo(testCampaign())
	service := testService(c, repo)
	service.client = &fakeGateway{
		Client: NewClient(testConfig()),
		err:    NewStripeError("api_call_failed", "failed to list checkout sessions", nil),
	}

	// a transient lookup failure propagates as a retryable error, never 400
	signed := signedInvoicePaidEvent("evt_inv_3", "in_test_3", "sub_test_3")
	err := service.ProcessWebhookEvent(signed.Payload, signed.Header)
	c.Assert(err, qt.IsNotNil)
	c.Assert(IsValidationError(err), qt.IsFalse)
	c.Assert(repo.donations, qt.HasLen, 0)

	// the event stays unmarked, so a redelivery can succeed
	service.client = &fakeGateway{Client: NewClient(testConfig())}
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
}

func TestDonationFromSession(t *testing.T) {
	c := qt.New(t)

	// subscription sessions carry no payment intent, the session id stands in
	signed := signedCheckoutEvent("evt_sub1", "cs_test_sub", "", donationMetadata)
	repo := newFakeRepo(testCampaign())
	service := testService(c, repo)
	c.Assert(service.ProcessWebhookEvent(signed.Payload, signed.Header), qt.IsNil)
	c.Assert(repo.donations["cs_test_sub"], qt.IsNotNil)
}

func TestDonationFromMetadata(t *testing.T) {
	c := qt.New(t)

	// no metadata at all; not a signature failure, so never the 400 class
	_, err := donationFromMetadata(nil)
	c.Assert(err, qt.IsNotNil)
	c.Assert(IsValidationError(err), qt.IsFalse)

	// unusable campaign id
	_, err = donationFromMetadata(map[string]string{"campaign_id": "not-a-number"})
	c.Assert(err, qt.IsNotNil)

	// anonymous sentinel
	rec, err := donationFromMetadata(map[string]string{
		"campaign_id":   "7",
		"donor_id":      AnonymousDonorID,
		"is_anonymous":  "true",
		"donation_type": "one_time",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(rec.CampaignID, qt.Equals, uint64(7))
	c.Assert(rec.DonorID, qt.Equals, uint64(0))
	c.Assert(rec.Anonymous, qt.IsTrue)

	// missing anonymity flag defaults to anonymous
	rec, err = donationFromMetadata(map[string]string{"campaign_id": "7"})
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Anonymous, qt.IsTrue)
}

func TestMemoryEventStore(t *testing.T) {
	c := qt.New(t)
	store := NewMemoryEventStore(time.Minute)

	c.Assert(store.EventExists("evt_1"), qt.IsFalse)
	c.Assert(store.MarkProcessed("evt_1"), qt.IsNil)
	c.Assert(store.EventExists("evt_1"), qt.IsTrue)
	c.Assert(store.Size(), qt.Equals, 1)
}
