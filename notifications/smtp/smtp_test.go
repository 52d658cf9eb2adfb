package smtp

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	qt "github.com/frankban/quicktest"

	"github.com/helpinghub/volunteer-backend/notifications"
	"github.com/helpinghub/volunteer-backend/notifications/testmail"
	"github.com/helpinghub/volunteer-backend/test"
)

func TestSendNotification(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := test.StartMailService(ctx)
	c.Assert(err, qt.IsNil)
	defer func() {
		_ = container.Terminate(ctx)
	}()
	host, err := container.Host(ctx)
	c.Assert(err, qt.IsNil)
	smtpPort, err := container.MappedPort(ctx, nat.Port(test.MailSMTPPort))
	c.Assert(err, qt.IsNil)
	apiPort, err := container.MappedPort(ctx, nat.Port(test.MailAPIPort))
	c.Assert(err, qt.IsNil)

	mailService := new(Email)
	c.Assert(mailService.New(&Config{
		FromName:    "HelpingHub",
		FromAddress: "noreply@helpinghub.org",
		SMTPServer:  host,
		SMTPPort:    smtpPort.Int(),
		TestAPIPort: apiPort.Int(),
	}), qt.IsNil)

	notification := &notifications.Notification{
		ToName:    "Sam Rivera",
		ToAddress: "donor@example.com",
		Subject:   "Thank you for your donation",
		Body:      "<p>Thank you for your donation of $25.00</p>",
		PlainBody: "Thank you for your donation of $25.00",
	}
	c.Assert(mailService.SendNotification(ctx, notification), qt.IsNil)

	// fetch the delivered message back through the MailHog API
	inbox := new(testmail.TestMail)
	c.Assert(inbox.New(&testmail.Config{
		FromAddress: "noreply@helpinghub.org",
		Host:        host,
		SMTPPort:    smtpPort.Int(),
		APIPort:     apiPort.Int(),
	}), qt.IsNil)
	body, err := inbox.FindEmail(ctx, "donor@example.com")
	c.Assert(err, qt.IsNil)
	c.Assert(body, qt.Contains, "$25.00")
}

func TestNewInvalidConfig(t *testing.T) {
	c := qt.New(t)

	mailService := new(Email)
	c.Assert(mailService.New("not a config"), qt.IsNotNil)
	c.Assert(mailService.New(&Config{FromAddress: "not-an-address"}), qt.IsNotNil)
}
