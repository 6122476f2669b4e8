// Package mail sends notification email over SMTP.
package mail

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages. Delivery failures are reported to the caller,
// who decides whether they are fatal (they never are for notifications).
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
