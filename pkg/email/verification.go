package email

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// VerificationConfig holds the pieces needed to build verification emails.
type VerificationConfig struct {
	AppName         string `env:"APP_NAME" envDefault:"DocVault"`
	VerificationURL string `env:"VERIFICATION_URL,required"` // e.g. https://app.example.com/auth/verify
}

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>Welcome to {{.AppName}}</h2>
  <p>Confirm your email address to activate your account. The link expires in 24 hours.</p>
  <p><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background: #2563eb; color: #ffffff; text-decoration: none; border-radius: 4px;">Verify email</a></p>
  <p>If the button does not work, open this link:</p>
  <p>{{.Link}}</p>
  <p>If you did not create an account, ignore this message.</p>
</body>
</html>`))

// VerificationMailer builds and sends the account verification email through
// any EmailSender.
type VerificationMailer struct {
	sender EmailSender
	cfg    VerificationConfig
}

// NewVerificationMailer creates a verification mailer.
func NewVerificationMailer(sender EmailSender, cfg VerificationConfig) (*VerificationMailer, error) {
	if cfg.VerificationURL == "" {
		return nil, fmt.Errorf("%w: VerificationURL is required", ErrInvalidConfig)
	}
	if cfg.AppName == "" {
		cfg.AppName = "DocVault"
	}
	return &VerificationMailer{sender: sender, cfg: cfg}, nil
}

// SendVerificationEmail sends the verification link carrying the token.
func (m *VerificationMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	link := m.cfg.VerificationURL + "?token=" + url.QueryEscape(token)

	var body strings.Builder
	if err := verificationTemplate.Execute(&body, map[string]string{
		"AppName": m.cfg.AppName,
		"Link":    link,
	}); err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  fmt.Sprintf("Verify your %s account", m.cfg.AppName),
		BodyHTML: body.String(),
		Tag:      "email-verification",
	})
}
