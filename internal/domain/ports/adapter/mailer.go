package adapter

import "context"

// Email is a rendered message ready for the transactional provider.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends a single email. Implementations wrap domain.ErrRateLimited
// for rate-limit-class provider errors so the dispatcher knows the send is
// worth retrying.
type Mailer interface {
	Send(ctx context.Context, msg Email) (id string, err error)
}
