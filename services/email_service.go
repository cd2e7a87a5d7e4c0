// File: /services/email_service.go
package services

import (
	"fmt"
	"html"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"socialnet-api/config"
	"socialnet-api/logger"
	"socialnet-api/models"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// FriendRequestNotifier is told about new friend requests.
type FriendRequestNotifier interface {
	FriendRequestSent(sender, receiver *models.User)
}

type EmailService struct {
	config config.SMTPConfig
	sender MailSender
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return NewEmailServiceWithSender(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func NewEmailServiceWithSender(cfg config.SMTPConfig, sender MailSender) *EmailService {
	return &EmailService{config: cfg, sender: sender}
}

// FriendRequestSent emails the receiver. Failures are logged only.
func (es *EmailService) FriendRequestSent(sender, receiver *models.User) {
	if err := es.SendFriendRequestEmail(sender, receiver); err != nil {
		logger.Warn("friend request email failed",
			zap.Error(err),
			zap.String("sender_id", sender.ID),
			zap.String("receiver_id", receiver.ID),
		)
	}
}

func (es *EmailService) SendFriendRequestEmail(sender, receiver *models.User) error {
	if receiver.Email == "" {
		return fmt.Errorf("receiver %s has no email address", receiver.ID)
	}

	m := es.friendRequestMessage(sender, receiver)
	if err := es.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	logger.Info("friend request email sent", zap.String("receiver_id", receiver.ID))
	return nil
}

func (es *EmailService) friendRequestMessage(sender, receiver *models.User) *gomail.Message {
	link := es.config.AppURL + "/friends"

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", receiver.Email)
	m.SetHeader("Subject", fmt.Sprintf("%s sent you a friend request", sender.Name))

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .btn { display: inline-block; background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; }
        .footer { margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Hello %s!</h2>
        <p><strong>%s</strong> wants to be your friend.</p>
        <p><a class="btn" href="%s">Review request</a></p>
        <div class="footer">This is an automated email, please do not reply.</div>
    </div>
</body>
</html>`, html.EscapeString(receiver.Name), html.EscapeString(sender.Name), link)

	textBody := fmt.Sprintf(`Hello %s!

%s wants to be your friend.

Review the request at %s

This is an automated email, please do not reply.
`, receiver.Name, sender.Name, link)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}
