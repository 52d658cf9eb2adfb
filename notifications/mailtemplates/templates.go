package mailtemplates

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"strings"
	texttemplate "text/template"

	root "github.com/helpinghub/volunteer-backend"
	"github.com/helpinghub/volunteer-backend/notifications"
)

// AvailableTemplates maps every template key to its raw HTML content, loaded
// from the embedded assets directory by Load.
var AvailableTemplates map[TemplateFile]string

// TemplateFile represents an email template key. Every email template should
// have a key that identifies it, which is the filename without the extension.
type TemplateFile string

// MailTemplate struct represents an email template. It includes the file key
// and the notification placeholder to be sent. The file key is the filename
// of the template without the extension. The notification placeholder includes
// the plain body template to be used as a fallback for email clients that do
// not support HTML, and the mail subject.
type MailTemplate struct {
	File        TemplateFile
	Placeholder notifications.Notification
}

// Load reads the email templates from the embedded assets filesystem and
// fills AvailableTemplates. It must be called once at startup, before any
// template is executed.
func Load() error {
	htmlFiles := make(map[TemplateFile]string)
	if err := fs.WalkDir(root.Assets, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			return nil
		}
		content, err := root.Assets.ReadFile(path)
		if err != nil {
			return err
		}
		filename := strings.TrimSuffix(entry.Name(), ".html")
		htmlFiles[TemplateFile(filename)] = string(content)
		return nil
	}); err != nil {
		return err
	}
	AvailableTemplates = htmlFiles
	return nil
}

// ExecTemplate executes the HTML template identified by the mail template
// file key with the provided data, and the plain body placeholder with the
// same data. It returns a notification with the subject, body and plain body
// filled in; the recipient fields are left for the caller.
func (mt MailTemplate) ExecTemplate(data any) (*notifications.Notification, error) {
	content, ok := AvailableTemplates[mt.File]
	if !ok {
		return nil, fmt.Errorf("template %q not found", mt.File)
	}
	n := &notifications.Notification{
		Subject:   mt.Placeholder.Subject,
		PlainBody: mt.Placeholder.PlainBody,
	}
	tmpl, err := htmltemplate.New(string(mt.File)).Parse(content)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return nil, err
	}
	n.Body = buf.String()
	if n.PlainBody != "" {
		tmpl, err := texttemplate.New("plain").Parse(n.PlainBody)
		if err != nil {
			return nil, err
		}
		buf := new(bytes.Buffer)
		if err := tmpl.Execute(buf, data); err != nil {
			return nil, err
		}
		n.PlainBody = buf.String()
	}
	return n, nil
}
