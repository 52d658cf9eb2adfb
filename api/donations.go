package api

import (
	"encoding/json"
	"net/http"

	"github.com/helpinghub/volunteer-backend/errors"
)

// inKindDonationHandler records a non-monetary donation (goods or services)
// for a campaign. Authenticated users only; in-kind donations are never
// anonymous since the organization needs to coordinate the handover.
func (a *API) inKindDonationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	if a.stripe == nil {
		errors.ErrGenericInternalServerError.Withf("donation service not available").Write(w)
		return
	}
	req := &InKindDonationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Description == "" {
		errors.ErrInvalidDonationData.With("description is required").Write(w)
		return
	}
	if err := a.stripe.RecordInKindDonation(user, req.CampaignID, req.Description); err != nil {
		if apiErr, ok := err.(errors.Error); ok {
			apiErr.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteOK(w)
}
