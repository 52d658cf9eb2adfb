package mailtemplates

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLoad(t *testing.T) {
	c := qt.New(t)

	c.Assert(Load(), qt.IsNil)
	c.Assert(len(AvailableTemplates) > 0, qt.IsTrue)
	for _, template := range []MailTemplate{DonationReceiptNotification, WelcomeNotification} {
		_, ok := AvailableTemplates[template.File]
		c.Assert(ok, qt.IsTrue, qt.Commentf("template %s should be available", template.File))
	}
}

func TestDonationReceiptNotification(t *testing.T) {
	c := qt.New(t)
	c.Assert(Load(), qt.IsNil)

	notification, err := DonationReceiptNotification.ExecTemplate(struct {
		Amount   string
		Campaign uint64
		Link     string
	}{
		Amount:   "$25.00",
		Campaign: 7,
		Link:     "https://example.com/campaigns/7",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(notification.Subject, qt.Equals, "Thank you for your donation")
	c.Assert(notification.Body, qt.Contains, "$25.00")
	c.Assert(notification.Body, qt.Contains, "https://example.com/campaigns/7")
	c.Assert(notification.PlainBody, qt.Contains, "$25.00")
	c.Assert(notification.PlainBody, qt.Not(qt.Contains), "{{.Amount}}")
}

func TestWelcomeNotification(t *testing.T) {
	c := qt.New(t)
	c.Assert(Load(), qt.IsNil)

	notification, err := WelcomeNotification.ExecTemplate(struct {
		Name string
		Link string
	}{
		Name: "Sam",
		Link: "https://example.com/login",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(notification.Subject, qt.Equals, "Welcome to HelpingHub")
	c.Assert(notification.Body, qt.Contains, "Sam")
	c.Assert(notification.PlainBody, qt.Contains, "https://example.com/login")
}

func TestExecTemplateEscapesHTML(t *testing.T) {
	c := qt.New(t)
	c.Assert(Load(), qt.IsNil)

	notification, err := WelcomeNotification.ExecTemplate(struct {
		Name string
		Link string
	}{
		Name: "<script>alert('xss')</script>",
		Link: "https://example.com/login",
	})
	c.Assert(err, qt.IsNil)
	// the HTML body escapes the injected markup, the plain body keeps it
	c.Assert(notification.Body, qt.Not(qt.Contains), "<script>")
	c.Assert(notification.PlainBody, qt.Contains, "<script>alert('xss')</script>")
}

func TestExecTemplateUnknownFile(t *testing.T) {
	c := qt.New(t)
	c.Assert(Load(), qt.IsNil)

	missing := MailTemplate{File: "does_not_exist"}
	_, err := missing.ExecTemplate(struct{}{})
	c.Assert(err, qt.IsNotNil)
}
