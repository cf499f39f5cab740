package email_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docvault/pkg/email"
)

func TestVerificationMailer(t *testing.T) {
	t.Parallel()

	t.Run("sends templated email with escaped token link", func(t *testing.T) {
		t.Parallel()

		mockSender := new(MockEmailSender)
		mailer, err := email.NewVerificationMailer(mockSender, email.VerificationConfig{
			AppName:         "DocVault",
			VerificationURL: "https://app.example.com/auth/verify",
		})
		require.NoError(t, err)

		mockSender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return p.SendTo == "a@acme.com" &&
				p.Tag == "email-verification" &&
				assert.ObjectsAreEqual("Verify your DocVault account", p.Subject)
		})).Return(nil)

		err = mailer.SendVerificationEmail(context.Background(), "a@acme.com", "tok/en+value")
		require.NoError(t, err)
		mockSender.AssertExpectations(t)

		// The raw token must be query-escaped in the link.
		params := mockSender.Calls[0].Arguments.Get(1).(email.SendEmailParams)
		assert.Contains(t, params.BodyHTML, "https://app.example.com/auth/verify?token=tok%2Fen%2Bvalue")
		assert.NotContains(t, params.BodyHTML, "tok/en+value")
	})

	t.Run("requires verification url", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewVerificationMailer(new(MockEmailSender), email.VerificationConfig{})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}
