// Package mailtemplates provides the predefined email templates sent by the
// backend, such as donation receipts and welcome messages, along with the
// utilities for rendering them.
package mailtemplates

import "github.com/helpinghub/volunteer-backend/notifications"

// DonationReceiptNotification is the notification sent to a donor after a
// payment is confirmed by the provider.
var DonationReceiptNotification = MailTemplate{
	File: "donation_receipt",
	Placeholder: notifications.Notification{
		Subject: "Thank you for your donation",
		PlainBody: `Thank you for your donation of {{.Amount}}.

You can follow the campaign progress here: {{.Link}}`,
	},
}

// WelcomeNotification is the notification sent when a user registers.
var WelcomeNotification = MailTemplate{
	File: "welcome",
	Placeholder: notifications.Notification{
		Subject: "Welcome to HelpingHub",
		PlainBody: `Hi {{.Name}},

Your HelpingHub account is ready. Sign in here: {{.Link}}`,
	},
}
