package mailer

import (
	"fmt"
	"time"
)

// PasswordResetJob builds the reset mail carrying link, valid for window.
func PasswordResetJob(to, name, link string, window time.Duration) EmailJob {
	return EmailJob{
		To:      to,
		Kind:    "password_reset",
		Subject: "Reset your password",
		Text: fmt.Sprintf("Hi %s,\n\nSomeone asked to reset the password of your account. "+
			"Open the link below within %s to choose a new one:\n\n%s\n\n"+
			"If it was not you, ignore this email.\n", name, humanWindow(window), link),
	}
}

// VerificationJob builds the account verification mail.
func VerificationJob(to, name, link string, window time.Duration) EmailJob {
	return EmailJob{
		To:      to,
		Kind:    "account_verification",
		Subject: "Verify your account",
		Text: fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening the link below within %s:\n\n%s\n",
			name, humanWindow(window), link),
	}
}

func humanWindow(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}
