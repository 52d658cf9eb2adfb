package db

import "time"

const (
	// user roles
	AdminRole  UserRole = "admin"
	MemberRole UserRole = "member"
	// donation types
	DonationTypeOneTime   DonationType = "one_time"
	DonationTypeRecurring DonationType = "recurring"
	DonationTypeInKind    DonationType = "in_kind"
	// payment statuses
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// validDonationTypes is a map that contains the valid donation types
var validDonationTypes = map[DonationType]bool{
	DonationTypeOneTime:   true,
	DonationTypeRecurring: true,
	DonationTypeInKind:    true,
}

// ValidDonationType checks if the provided donation type is valid
func ValidDonationType(t DonationType) bool {
	return validDonationTypes[t]
}

const (
	defaultTimeout = 10 * time.Second

	// DefaultPageSize is the number of documents returned by paginated
	// listings when the client does not specify a page size.
	DefaultPageSize = 20
	// MaxPageSize caps the page size a client may request.
	MaxPageSize = 100
)
