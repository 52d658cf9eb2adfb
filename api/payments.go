package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helpinghub/volunteer-backend/errors"
	"github.com/helpinghub/volunteer-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// maxWebhookBodyBytes bounds the webhook payload size read from the provider.
const maxWebhookBodyBytes = int64(65536)

// createDonationSessionHandler creates a payment provider checkout session
// for a donation. Authentication is optional: requests without a valid token
// create anonymous donations.
func (a *API) createDonationSessionHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		errors.ErrStripeError.Withf("payment service not available").Write(w)
		return
	}
	req := &CreateDonationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	session, err := a.stripe.CreateDonationCheckoutSession(&stripe.DonationRequest{
		Amount:     req.Amount,
		Tier:       stripe.Tier(req.Tier),
		Recurring:  req.Recurring,
		CampaignID: req.CampaignID,
		Donor:      a.optionalUserFromRequest(r),
	})
	if err != nil {
		if apiErr, ok := err.(errors.Error); ok {
			apiErr.Write(w)
			return
		}
		log.Errorf("failed to create checkout session: %v", err)
		errors.ErrStripeError.Withf("cannot create session: %v", err).Write(w)
		return
	}
	httpWriteJSON(w, &CheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	})
}

// checkoutSessionStatusHandler returns the status of a checkout session, used
// by the frontend success page to confirm the payment outcome.
func (a *API) checkoutSessionStatusHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		errors.ErrStripeError.Withf("payment service not available").Write(w)
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		errors.ErrMalformedURLParam.Withf("sessionID is required").Write(w)
		return
	}
	status, err := a.stripe.GetCheckoutSession(sessionID)
	if err != nil {
		log.Errorf("failed to get checkout session: %v", err)
		errors.ErrStripeError.Withf("cannot get session: %v", err).Write(w)
		return
	}
	httpWriteJSON(w, status)
}

// stripeWebhookHandler receives payment provider events. The response
// contract drives the provider's retry behavior: 200 acknowledges the event,
// 400 marks it permanently rejected (bad signature), 500 asks for a
// redelivery.
func (a *API) stripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		log.Errorf("stripe webhook: payment service not available")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("stripe webhook: error reading request body: %v", err)
		http.Error(w, fmt.Sprintf("Webhook Error: %s", err.Error()), http.StatusBadRequest)
		return
	}
	if err := a.stripe.ProcessWebhookEvent(payload, r.Header.Get("Stripe-Signature")); err != nil {
		log.Errorf("stripe webhook: failed to process event: %v", err)
		if stripe.IsValidationError(err) {
			http.Error(w, fmt.Sprintf("Webhook Error: %s", err.Error()), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Webhook Error: %s", err.Error()), http.StatusInternalServerError)
		return
	}
	httpWriteJSON(w, map[string]bool{"received": true})
}
