package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"time"

	gomail "gopkg.in/mail.v2"

	"streamvault-bot/config"
	"streamvault-bot/storage"
)

// EmailNotifier sends a digest email after an auto-post run summarizing the
// items that were delivered to the channel.
type EmailNotifier struct {
	smtpHost       string
	smtpPort       int
	senderEmail    string
	senderPass     string
	recipientEmail string
	htmlTemplate   *template.Template
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(cfg config.EmailConfig) (*EmailNotifier, error) {
	tmpl, err := template.New("email").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>StreamVault Bot - Channel Post Digest</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; }
        h1 { color: #e50914; }
        h2 { color: #0071c5; margin-top: 30px; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        th { background-color: #f4f4f4; text-align: left; padding: 10px; }
        td { padding: 10px; border-bottom: 1px solid #ddd; }
        .movie { background-color: #fff3e0; }
        .show { background-color: #e3f2fd; }
        .footer { font-size: 12px; color: #666; margin-top: 50px; text-align: center; }
        .count { font-weight: bold; color: #e50914; }
    </style>
</head>
<body>
    <h1>StreamVault Bot - Channel Post Digest</h1>
    <p>The following content was posted to the channel on {{.Date}}.</p>

    <p>Total items posted: <span class="count">{{.TotalCount}}</span></p>

    {{if .Shows}}
    <h2>TV Shows ({{len .Shows}})</h2>
    <table>
        <tr>
            <th>Title</th>
            <th>Year</th>
            <th>Rating</th>
        </tr>
        {{range .Shows}}
        <tr class="show">
            <td>{{.Title}}</td>
            <td>{{if .Year}}{{.Year}}{{else}}-{{end}}</td>
            <td>{{if .Rating}}{{.Rating}}{{else}}-{{end}}</td>
        </tr>
        {{end}}
    </table>
    {{end}}

    {{if .Movies}}
    <h2>Movies ({{len .Movies}})</h2>
    <table>
        <tr>
            <th>Title</th>
            <th>Year</th>
            <th>Rating</th>
        </tr>
        {{range .Movies}}
        <tr class="movie">
            <td>{{.Title}}</td>
            <td>{{if .Year}}{{.Year}}{{else}}-{{end}}</td>
            <td>{{if .Rating}}{{.Rating}}{{else}}-{{end}}</td>
        </tr>
        {{end}}
    </table>
    {{end}}

    <div class="footer">
        <p>This is an automated email from StreamVault Bot. Please do not reply.</p>
    </div>
</body>
</html>
`)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %v", err)
	}

	return &EmailNotifier{
		smtpHost:       cfg.SMTPHost,
		smtpPort:       cfg.SMTPPort,
		senderEmail:    cfg.SenderEmail,
		senderPass:     cfg.SenderPassword,
		recipientEmail: cfg.RecipientEmail,
		htmlTemplate:   tmpl,
	}, nil
}

// NotifyPostedContent sends an email summarizing a completed auto-post run.
func (n *EmailNotifier) NotifyPostedContent(posts []storage.PostRecord) error {
	if len(posts) == 0 {
		log.Println("No posts to notify about")
		return nil
	}

	if n.recipientEmail == "" {
		log.Println("No recipient email configured, skipping notification")
		return nil
	}

	var shows []storage.PostRecord
	var movies []storage.PostRecord
	for _, post := range posts {
		if post.Kind == "shows" {
			shows = append(shows, post)
		} else {
			movies = append(movies, post)
		}
	}

	data := struct {
		Date       string
		TotalCount int
		Shows      []storage.PostRecord
		Movies     []storage.PostRecord
	}{
		Date:       time.Now().Format("January 2, 2006 at 3:04 PM"),
		TotalCount: len(posts),
		Shows:      shows,
		Movies:     movies,
	}

	var emailBody bytes.Buffer
	if err := n.htmlTemplate.Execute(&emailBody, data); err != nil {
		return fmt.Errorf("failed to render email template: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.senderEmail)
	m.SetHeader("To", n.recipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("StreamVault Bot: %d Items Posted (%d Shows, %d Movies)",
		len(posts), len(shows), len(movies)))

	plainText := fmt.Sprintf(
		"StreamVault Bot Channel Post Digest\n\n"+
			"Content posted to the channel on %s.\n"+
			"Total items: %d (%d shows, %d movies)\n\n"+
			"This is an automated email from StreamVault Bot. Please do not reply.",
		data.Date, data.TotalCount, len(shows), len(movies))

	m.SetBody("text/plain", plainText)
	m.AddAlternative("text/html", emailBody.String())

	d := gomail.NewDialer(n.smtpHost, n.smtpPort, "api", n.senderPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Email digest sent to %s with %d posted items", n.recipientEmail, len(posts))
	return nil
}
