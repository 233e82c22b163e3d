package channels

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// EmailConfig thông tin SMTP để gửi digest.
type EmailConfig struct {
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string
}

// SendEmail gửi một email digest dạng text tới danh sách người nhận.
func SendEmail(cfg EmailConfig, recipients []string, subject, content string) error {
	htmlContent := "<pre style=\"font-family:monospace\">" + strings.ReplaceAll(content, "\n", "<br>") + "</pre>"

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("Metrics Digest <%s>", cfg.FromEmail))
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return dialer.DialAndSend(msg)
}
