package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/textproto"

	"github.com/venkm/formrelay/types"
)

const xMailer = "formrelay"

var htmlBody = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
	<h2>New contact form submission</h2>
	<p><strong>Name:</strong> {{.Name}}</p>
	<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
	<p><strong>Received:</strong> {{.Timestamp}}</p>
	<p><strong>IP address:</strong> {{.SourceIP}}</p>
	<h3>Message</h3>
	<div style="white-space: pre-wrap; background: #f8f9fa; padding: 16px; border-radius: 4px;">{{.Message}}</div>
	<p style="color: #666; font-size: 12px;">Reply directly to this email to respond.</p>
</body>
</html>
`))

// BuildMessage renders a Submission into a complete RFC 5322 message: a multipart/alternative
// body with a plain-text and an HTML rendition, Reply-To pointing at the submitter so a plain
// reply reaches them.
func BuildMessage(sub types.Submission, sender, recipient string) ([]byte, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)

	subject := mime.QEncoding.Encode("utf-8", "Portfolio contact: "+sub.Name)
	from := mime.QEncoding.Encode("utf-8", sub.Name) + " <" + sender + ">"

	headers := [][2]string{
		{"From", from},
		{"To", recipient},
		{"Reply-To", sub.Email},
		{"Subject", subject},
		{"X-Mailer", xMailer},
		{"MIME-Version", "1.0"},
		{"Content-Type", `multipart/alternative; boundary="` + alt.Boundary() + `"`},
	}

	var head bytes.Buffer
	for _, h := range headers {
		head.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	head.WriteString("\r\n")

	text, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="utf-8"`},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create the text part %w", err)
	}

	_, _ = fmt.Fprint(text, textBody(sub))

	html, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="utf-8"`},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create the HTML part %w", err)
	}

	if err := htmlBody.Execute(html, sub); err != nil {
		return nil, fmt.Errorf("unable to render the HTML part %w", err)
	}

	if err := alt.Close(); err != nil {
		return nil, fmt.Errorf("unable to finish the message %w", err)
	}

	return append(head.Bytes(), buf.Bytes()...), nil
}

func textBody(sub types.Submission) string {
	return fmt.Sprintf(`NEW CONTACT FORM SUBMISSION
===========================

Name:     %s
Email:    %s
Time:     %s
IP:       %s

MESSAGE:
--------
%s

---
Reply directly to this email to respond.
`, sub.Name, sub.Email, sub.Timestamp, sub.SourceIP, sub.Message)
}
