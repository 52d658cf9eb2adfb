package db

import "time"

// UserRole represents the role of a user account.
type UserRole string

// DonationType represents how a donation was made.
type DonationType string

// PaymentStatus represents the lifecycle state of a donation payment.
type PaymentStatus string

// User represents a registered account. Donors and volunteers are regular
// members; site content is managed by admins.
type User struct {
	ID        uint64    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	FirstName string    `json:"firstName" bson:"firstName"`
	LastName  string    `json:"lastName" bson:"lastName"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role      UserRole  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Campaign represents a fundraising campaign. CurrentAmount is the running
// total of completed donations in minor currency units and is only ever
// modified through atomic increments (see AddCampaignDonation); it is never
// negative. A non-zero DeletedAt marks the campaign as soft-deleted.
type Campaign struct {
	ID             uint64    `json:"id" bson:"_id"`
	Title          string    `json:"title" bson:"title"`
	Description    string    `json:"description" bson:"description"`
	ImageURL       string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	GoalAmount     int64     `json:"goalAmount" bson:"goalAmount"`
	CurrentAmount  int64     `json:"currentAmount" bson:"currentAmount"`
	DonationsCount int64     `json:"donationsCount" bson:"donationsCount"`
	Active         bool      `json:"active" bson:"active"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	DeletedAt      time.Time `json:"-" bson:"deletedAt,omitempty"`
}

// Donation represents a single recorded donation. TransactionID uniquely
// identifies the provider transaction and carries the idempotency guarantee:
// recording the same transaction twice leaves a single document. Donations are
// never deleted. Amount is in minor currency units. DonorID is zero for
// anonymous donations.
type Donation struct {
	ID            uint64        `json:"id" bson:"_id"`
	DonorID       uint64        `json:"donorId,omitempty" bson:"donorId,omitempty"`
	DonorEmail    string        `json:"donorEmail,omitempty" bson:"donorEmail,omitempty"`
	CampaignID    uint64        `json:"campaignId" bson:"campaignId"`
	Amount        int64         `json:"amount" bson:"amount"`
	Currency      string        `json:"currency" bson:"currency"`
	Type          DonationType  `json:"donationType" bson:"donationType"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	TransactionID string        `json:"transactionId" bson:"transactionId"`
	ReceiptURL    string        `json:"receiptUrl,omitempty" bson:"receiptUrl,omitempty"`
	// Description is only set for in-kind donations (donated goods/services).
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Anonymous     bool          `json:"anonymous" bson:"anonymous"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
}

// FAQ represents a frequently asked question shown on the site.
type FAQ struct {
	ID        uint64    `json:"id" bson:"_id"`
	Question  string    `json:"question" bson:"question"`
	Answer    string    `json:"answer" bson:"answer"`
	Category  string    `json:"category,omitempty" bson:"category,omitempty"`
	Published bool      `json:"published" bson:"published"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Skill represents a volunteer skill that members can sign up with.
type Skill struct {
	ID          uint64    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Testimonial represents a published quote from a donor or volunteer.
type Testimonial struct {
	ID        uint64    `json:"id" bson:"_id"`
	Author    string    `json:"author" bson:"author"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Quote     string    `json:"quote" bson:"quote"`
	Published bool      `json:"published" bson:"published"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Object represents a stored binary object (campaign and testimonial images).
type Object struct {
	ID          string    `json:"id" bson:"_id"`
	Data        []byte    `json:"data" bson:"data"`
	ContentType string    `json:"contentType" bson:"contentType"`
	UserEmail   string    `json:"userEmail" bson:"userEmail"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
