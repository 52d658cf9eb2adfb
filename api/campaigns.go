package api

import (
	"encoding/json"
	"net/http"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
)

// campaignsHandler lists campaigns. By default only active campaigns are
// returned; admins can pass ?all=true to include inactive ones.
func (a *API) campaignsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationFromRequest(r)
	onlyActive := r.URL.Query().Get("all") != "true"
	campaigns, total, err := a.db.Campaigns(onlyActive, page, pageSize)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, &CampaignsResponse{Campaigns: campaigns, Total: total, Page: page})
}

// campaignHandler returns a single campaign by ID.
func (a *API) campaignHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := urlParamUint64(r, "campaignID")
	if !ok {
		errors.ErrMalformedURLParam.With("campaignID is required").Write(w)
		return
	}
	campaign, err := a.db.Campaign(campaignID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrCampaignNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, campaign)
}

// createCampaignHandler creates a new campaign. Admin only.
func (a *API) createCampaignHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	campaign := &db.Campaign{}
	if err := json.NewDecoder(r.Body).Decode(campaign); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if campaign.Title == "" || campaign.GoalAmount <= 0 {
		errors.ErrInvalidData.With("title and a positive goal amount are required").Write(w)
		return
	}
	// new campaigns always start with a clean donation counter
	campaign.ID = 0
	campaign.CurrentAmount = 0
	campaign.DonationsCount = 0
	id, err := a.db.SetCampaign(campaign)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	campaign.ID = id
	httpWriteJSON(w, campaign)
}

// updateCampaignHandler updates the editable fields of a campaign. Admin
// only. The running donation total is never writable through the API.
func (a *API) updateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	campaignID, ok := urlParamUint64(r, "campaignID")
	if !ok {
		errors.ErrMalformedURLParam.With("campaignID is required").Write(w)
		return
	}
	campaign, err := a.db.Campaign(campaignID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrCampaignNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	update := &db.Campaign{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if update.Title != "" {
		campaign.Title = update.Title
	}
	if update.Description != "" {
		campaign.Description = update.Description
	}
	if update.ImageURL != "" {
		campaign.ImageURL = update.ImageURL
	}
	if update.GoalAmount > 0 {
		campaign.GoalAmount = update.GoalAmount
	}
	campaign.Active = update.Active
	if _, err := a.db.SetCampaign(campaign); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, campaign)
}

// deleteCampaignHandler soft-deletes a campaign. Admin only. The campaign's
// donation history is preserved.
func (a *API) deleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	campaignID, ok := urlParamUint64(r, "campaignID")
	if !ok {
		errors.ErrMalformedURLParam.With("campaignID is required").Write(w)
		return
	}
	if err := a.db.DelCampaign(campaignID); err != nil {
		if err == db.ErrNotFound {
			errors.ErrCampaignNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteOK(w)
}

// campaignDonationsHandler lists the donations of a campaign. Donor identity
// is stripped from anonymous donations.
func (a *API) campaignDonationsHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := urlParamUint64(r, "campaignID")
	if !ok {
		errors.ErrMalformedURLParam.With("campaignID is required").Write(w)
		return
	}
	if _, err := a.db.Campaign(campaignID); err != nil {
		if err == db.ErrNotFound {
			errors.ErrCampaignNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	page, pageSize := paginationFromRequest(r)
	donations, total, err := a.db.DonationsByCampaign(campaignID, page, pageSize)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	infos := make([]*DonationInfo, 0, len(donations))
	for _, donation := range donations {
		info := &DonationInfo{
			ID:        donation.ID,
			Amount:    donation.Amount,
			Currency:  donation.Currency,
			Type:      donation.Type,
			Anonymous: donation.Anonymous,
			CreatedAt: donation.CreatedAt,
		}
		if !donation.Anonymous {
			info.DonorEmail = donation.DonorEmail
		}
		infos = append(infos, info)
	}
	httpWriteJSON(w, &DonationsResponse{Donations: infos, Total: total, Page: page})
}
