package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/helpinghub/volunteer-backend/db"
)

// postWebhook delivers a raw payload with the given signature header to the
// webhook endpoint, the way the payment provider would.
func postWebhook(c *qt.C, payload []byte, signature string) (int, []byte) {
	req, err := http.NewRequest(http.MethodPost, testServer.URL+paymentsWebhookEndpoint, bytes.NewReader(payload))
	c.Assert(err, qt.IsNil)
	req.Header.Set("Stripe-Signature", signature)
	resp, err := http.DefaultClient.Do(req)
	c.Assert(err, qt.IsNil)
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	c.Assert(err, qt.IsNil)
	return resp.StatusCode, body
}

// signedCheckoutPayload builds a signed checkout.session.completed event for
// the given campaign and transaction.
func signedCheckoutPayload(eventID, paymentIntentID string, campaignID uint64) *webhook.SignedPayload {
	payload := fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_http",
				"object": "checkout.session",
				"payment_intent": %q,
				"amount_total": 2500,
				"currency": "usd",
				"created": 1700000000,
				"customer_details": {"email": "donor@example.com"},
				"metadata": {
					"campaign_id": "%d",
					"donor_id": "42",
					"is_anonymous": "false",
					"donation_type": "one_time"
				}
			}
		}
	}`, eventID, paymentIntentID, campaignID)
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
}

func TestStripeWebhookEndpoint(t *testing.T) {
	c := qt.New(t)
	defer func() {
		c.Assert(testDB.Reset(), qt.IsNil)
	}()

	campaignID, err := testDB.SetCampaign(&db.Campaign{Title: "Warm Meals", GoalAmount: 100000, Active: true})
	c.Assert(err, qt.IsNil)

	// a correctly signed event is acknowledged and recorded
	signed := signedCheckoutPayload("evt_http_1", "pi_http_1", campaignID)
	status, body := postWebhook(c, signed.Payload, signed.Header)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(string(body), qt.Contains, `"received":true`)

	donation, err := testDB.DonationByTransactionID("pi_http_1")
	c.Assert(err, qt.IsNil)
	c.Assert(donation.CampaignID, qt.Equals, campaignID)
	c.Assert(donation.Amount, qt.Equals, int64(2500))
	c.Assert(donation.PaymentStatus, qt.Equals, db.PaymentStatusCompleted)

	campaign, err := testDB.Campaign(campaignID)
	c.Assert(err, qt.IsNil)
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(2500))
	c.Assert(campaign.DonationsCount, qt.Equals, int64(1))

	// a redelivery under a fresh event id still acks but records nothing new
	replay := signedCheckoutPayload("evt_http_2", "pi_http_1", campaignID)
	status, _ = postWebhook(c, replay.Payload, replay.Header)
	c.Assert(status, qt.Equals, http.StatusOK)

	_, total, err := testDB.DonationsByCampaign(campaignID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(1))

	campaign, err = testDB.Campaign(campaignID)
	c.Assert(err, qt.IsNil)
	c.Assert(campaign.CurrentAmount, qt.Equals, int64(2500))
}

func TestStripeWebhookBadSignature(t *testing.T) {
	c := qt.New(t)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(`{"id": "evt_bad", "type": "checkout.session.completed"}`),
		Secret:    "whsec_wrong_secret",
		Timestamp: time.Now(),
	})
	status, body := postWebhook(c, signed.Payload, signed.Header)
	c.Assert(status, qt.Equals, http.StatusBadRequest)
	c.Assert(strings.HasPrefix(string(body), "Webhook Error:"), qt.IsTrue)
}

func TestStripeWebhookUnhandledEventType(t *testing.T) {
	c := qt.New(t)

	payload := []byte(`{"id": "evt_http_other", "type": "customer.created", "data": {"object": {}}}`)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	status, body := postWebhook(c, signed.Payload, signed.Header)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(string(body), qt.Contains, `"received":true`)
}
