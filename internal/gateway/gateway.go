package gateway

import "context"

// Kind classifies how an answer was obtained. Rate-limited and failed calls
// still produce a user-visible answer text; no error ever reaches the caller.
type Kind string

const (
	KindSuccess     Kind = "success"
	KindRateLimited Kind = "rate_limited"
	KindFailure     Kind = "failure"
)

type Answer struct {
	Text string
	Kind Kind
}

// Fixed substitution texts, carried over from the original widget.
const (
	RateLimitMessage   = "🕒 Google AI rate limit reached. Please wait 2-3 minutes and try again. Free tier has tight limits!"
	FailureMessage     = "I'm having trouble connecting right now. Try one of the FAQ suggestions below!"
	EmptyAnswerMessage = "I'm having trouble answering that right now. Please try again."
)

// Gateway abstracts the external question-answering service.
// authToken is an optional bearer credential; implementations that do their
// own authentication ignore it.
type Gateway interface {
	Ask(ctx context.Context, question, authToken string) Answer
}
