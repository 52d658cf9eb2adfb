package api

import (
	"time"

	"github.com/helpinghub/volunteer-backend/db"
)

// UserInfo is the user information of the register and login requests.
type UserInfo struct {
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// LoginResponse is the response of the login and refresh requests.
type LoginResponse struct {
	Token    string    `json:"token"`
	Expirity time.Time `json:"expirity"`
}

// CreateDonationRequest is the body of the donation checkout session request.
// Exactly one of Amount (in whole currency units, e.g. dollars) or Tier must
// be provided.
type CreateDonationRequest struct {
	Amount     float64 `json:"amount,omitempty"`
	Tier       string  `json:"tier,omitempty"`
	Recurring  bool    `json:"recurring,omitempty"`
	CampaignID uint64  `json:"campaign_id"`
}

// CheckoutSessionResponse carries the created checkout session reference and
// the provider-hosted payment page the client must redirect to.
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// InKindDonationRequest is the body of the in-kind donation request.
type InKindDonationRequest struct {
	CampaignID  uint64 `json:"campaignId"`
	Description string `json:"description"`
}

// DonationInfo is the public view of a donation. Donor identity is only
// present for non-anonymous donations.
type DonationInfo struct {
	ID         uint64          `json:"id"`
	Amount     int64           `json:"amount"`
	Currency   string          `json:"currency"`
	Type       db.DonationType `json:"donationType"`
	DonorEmail string          `json:"donorEmail,omitempty"`
	Anonymous  bool            `json:"anonymous"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// UsersResponse is the paginated users listing.
type UsersResponse struct {
	Users []*db.User `json:"users"`
	Total int64      `json:"total"`
	Page  int64      `json:"page"`
}

// CampaignsResponse is the paginated campaigns listing.
type CampaignsResponse struct {
	Campaigns []*db.Campaign `json:"campaigns"`
	Total     int64          `json:"total"`
	Page      int64          `json:"page"`
}

// DonationsResponse is the paginated campaign donations listing.
type DonationsResponse struct {
	Donations []*DonationInfo `json:"donations"`
	Total     int64           `json:"total"`
	Page      int64           `json:"page"`
}

// FAQsResponse is the paginated FAQs listing.
type FAQsResponse struct {
	FAQs  []*db.FAQ `json:"faqs"`
	Total int64     `json:"total"`
	Page  int64     `json:"page"`
}

// SkillsResponse is the paginated skills listing.
type SkillsResponse struct {
	Skills []*db.Skill `json:"skills"`
	Total  int64       `json:"total"`
	Page   int64       `json:"page"`
}

// TestimonialsResponse is the paginated testimonials listing.
type TestimonialsResponse struct {
	Testimonials []*db.Testimonial `json:"testimonials"`
	Total        int64             `json:"total"`
	Page         int64             `json:"page"`
}
