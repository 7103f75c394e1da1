package ports

import "context"

type PushNotification struct {
	Title string
	Body  string
}

// PushMessage is one notification addressed to many device tokens. Link is
// the page opened when a web push notification is clicked.
type PushMessage struct {
	Notification PushNotification
	Link         string
	Tokens       []string
}

type PushResponse struct {
	Token     string
	Success   bool
	MessageID string
	Err       error
}

// MulticastResult holds one response per token, in the order of
// PushMessage.Tokens.
type MulticastResult struct {
	SuccessCount int
	FailureCount int
	Responses    []PushResponse
}

type PushSender interface {
	SendMulticast(ctx context.Context, msg PushMessage) (MulticastResult, error)
}
