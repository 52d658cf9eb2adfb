// Package notifications defines the notification types and the service
// interface implemented by the email and SMS backends.
package notifications

import "context"

// Notification is a message to be delivered to a single recipient over email
// or SMS, depending on the service implementation.
type Notification struct {
	ToName    string
	ToAddress string
	ToNumber  string
	Subject   string
	Body      string
	PlainBody string
}

// NotificationService is implemented by each delivery backend (SMTP, Twilio,
// test mail). New receives a backend-specific configuration struct.
type NotificationService interface {
	New(conf any) error
	SendNotification(context.Context, *Notification) error
}
