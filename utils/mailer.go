package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"taskhive/config"
	"taskhive/models"
)

var reminderTemplate = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Task due soon</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .task { font-size: 18px; font-weight: bold; margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header"><h2>Task due soon</h2></div>
    <p>Hello,</p>
    <p>A task assigned to you is due {{.Due}}:</p>
    <div class="task">{{.Title}}</div>
    <p>Project: {{.Project}}</p>
    <div class="footer"><p>You receive this because you are an assignee of the task.</p></div>
</body>
</html>`))

// Mailer sends due-date reminder mail. A nil or unconfigured Mailer is
// safe to call and does nothing.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer() *Mailer {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		return &Mailer{}
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.FromEmail,
	}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

// SendTaskReminder mails every assignee of a task that is about to be due.
func (m *Mailer) SendTaskReminder(task *models.Task, projectName string, recipients []string) error {
	if !m.Enabled() || len(recipients) == 0 {
		return nil
	}

	due := "soon"
	if task.DueDate != nil {
		due = task.DueDate.Format("Mon, 02 Jan 2006")
	}

	var body bytes.Buffer
	if err := reminderTemplate.Execute(&body, map[string]string{
		"Title":   task.Title,
		"Project": projectName,
		"Due":     due,
	}); err != nil {
		return fmt.Errorf("failed to render reminder: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", fmt.Sprintf("Reminder: %q is due soon", task.Title))
	msg.SetDateHeader("Date", time.Now())
	msg.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(msg)
}
