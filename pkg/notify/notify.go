// Package notify pushes operational notifications to a configured webhook.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Notification is one message for a recipient account.
type Notification struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Sender delivers notifications.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Client is a resty-backed webhook Sender.
type Client struct {
	httpClient *resty.Client
}

// webhookError is the error payload the webhook returns on failure.
type webhookError struct {
	Error string `json:"error"`
}

// NewClient builds a webhook client for the given endpoint.
func NewClient(webhookURL, authToken string) *Client {
	c := resty.New()
	c.
		SetBaseURL(webhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if authToken != "" {
		c.SetHeader("Authorization", "Bearer "+authToken)
	}
	return &Client{httpClient: c}
}

// Send posts one notification. Delivery is best-effort; callers log and move
// on when it fails.
func (c *Client) Send(ctx context.Context, n Notification) error {
	whErr := new(webhookError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(n).
		SetError(whErr).
		Post("")
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	if resp.IsError() {
		if whErr.Error != "" {
			return fmt.Errorf("send notification: %s (status %d)", whErr.Error, resp.StatusCode())
		}
		return fmt.Errorf("send notification: status %d", resp.StatusCode())
	}
	return nil
}

// Nop is a Sender that discards notifications; used when no webhook is
// configured.
type Nop struct{}

// Send implements Sender.
func (Nop) Send(ctx context.Context, n Notification) error {
	return nil
}
