// Package mail delivers sign-in and invitation links. The log sender is
// the development delivery path; a provider-backed sender can replace it
// behind the same interfaces.
package mail

import (
	"context"
	"log"
)

// LogSender writes outbound links to the process log instead of sending
// email.
type LogSender struct{}

// NewLogSender creates a log-backed sender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// SendMagicLink logs a sign-in link.
func (s *LogSender) SendMagicLink(_ context.Context, email, link string) error {
	log.Printf("mail magic-link to=%s link=%s", email, link)
	return nil
}

// SendInvitation logs an invitation link.
func (s *LogSender) SendInvitation(_ context.Context, email, link string) error {
	log.Printf("mail invitation to=%s link=%s", email, link)
	return nil
}
