package fcm

import (
	"context"
	"fmt"

	"bakery-backoffice/internal/ports"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/aws/aws-xray-sdk-go/xray"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// MaxTokensPerBatch is the FCM limit for one multicast request.
const MaxTokensPerBatch = 500

const maxParallelBatches = 4

type MulticastClient interface {
	SendEachForMulticast(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type Sender struct {
	client MulticastClient
}

// NewSender builds a messaging client for projectID. An empty
// credentialsFile falls back to application default credentials.
func NewSender(ctx context.Context, projectID, credentialsFile string) (*Sender, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return NewSenderWithClient(client), nil
}

func NewSenderWithClient(client MulticastClient) *Sender {
	return &Sender{client: client}
}

func chunk(tokens []string, size int) [][]string {
	var out [][]string
	for len(tokens) > size {
		out = append(out, tokens[:size:size])
		tokens = tokens[size:]
	}
	if len(tokens) > 0 {
		out = append(out, tokens)
	}
	return out
}

// SendMulticast delivers msg to every token. Requests larger than
// MaxTokensPerBatch are split; responses keep the order of msg.Tokens. Any
// batch-level error fails the whole call.
func (s *Sender) SendMulticast(ctx context.Context, msg ports.PushMessage) (ports.MulticastResult, error) {
	batches := chunk(msg.Tokens, MaxTokensPerBatch)
	results := make([]*messaging.BatchResponse, len(batches))

	err := xray.Capture(ctx, "FCM.SendEachForMulticast", func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxParallelBatches)
		for i, tokens := range batches {
			i, tokens := i, tokens
			g.Go(func() error {
				resp, err := s.client.SendEachForMulticast(gctx, toMulticast(msg, tokens))
				if err != nil {
					return err
				}
				results[i] = resp
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return ports.MulticastResult{}, err
	}

	out := ports.MulticastResult{Responses: make([]ports.PushResponse, 0, len(msg.Tokens))}
	for i, resp := range results {
		if resp == nil {
			continue
		}
		out.SuccessCount += resp.SuccessCount
		out.FailureCount += resp.FailureCount
		for j, r := range resp.Responses {
			pr := ports.PushResponse{Token: batches[i][j]}
			if r != nil {
				pr.Success = r.Success
				pr.MessageID = r.MessageID
				pr.Err = r.Error
			}
			out.Responses = append(out.Responses, pr)
		}
	}
	return out, nil
}

func toMulticast(msg ports.PushMessage, tokens []string) *messaging.MulticastMessage {
	m := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Notification.Title,
			Body:  msg.Notification.Body,
		},
	}
	if msg.Link != "" {
		m.Webpush = &messaging.WebpushConfig{
			FCMOptions: &messaging.WebpushFCMOptions{Link: msg.Link},
		}
	}
	return m
}
