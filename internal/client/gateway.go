package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSGateway sends outbound text messages through a Twilio-compatible
// Messages API.
type SMSGateway struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

// NewSMSGateway creates a new gateway client.
func NewSMSGateway(baseURL, accountSID, authToken, fromNumber string) *SMSGateway {
	return &SMSGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Send delivers one text message to the given number.
func (g *SMSGateway) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", g.baseURL, g.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", g.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.accountSID, g.authToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to send message: status %d", resp.StatusCode)
	}
	return nil
}
