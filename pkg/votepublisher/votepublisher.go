// Package votepublisher emits a CloudEvent for every durably recorded vote,
// so downstream consumers (dashboards, CRM hooks) can react without polling
// the spreadsheet.
package votepublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"

	"github.com/SAIZENtm1/tgbot/internal/storage"
)

const (
	// EventType identifies a recorded vote.
	EventType = "com.saizen.tgbot.vote.recorded"
	// EventSource is the CloudEvents source attribute.
	EventSource = "github.com/SAIZENtm1/tgbot"
)

// Client publishes vote events over HTTP in structured CloudEvents JSON.
type Client struct {
	Endpoint   string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type votePayload struct {
	Timestamp   string `json:"timestamp"`
	Rating      int    `json:"rating"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

// Publish sends one vote event. Failures are reported to the caller, which
// treats them as non-fatal.
func (c Client) Publish(ctx context.Context, rec storage.VoteRecord) error {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetSource(EventSource)
	e.SetType(EventType)
	e.SetTime(time.Now().UTC())
	if err := e.SetData(cloudevents.ApplicationJSON, votePayload{
		Timestamp:   rec.Timestamp,
		Rating:      rec.Rating,
		UserID:      rec.UserID,
		DisplayName: rec.DisplayName,
		Username:    rec.Username,
	}); err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if token := strings.TrimSpace(c.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/cloudevents+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("event rejected: status=%s body=%s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}
