package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	colorAlert    = 0x9E2C2C
	colorResolved = 0x57F287

	// Discord rejects embeds with more than 25 fields; overflow is folded
	// into the last slot instead of being dropped silently.
	maxEmbedFields = 25
)

// Discord posts transition messages to a webhook. BaseURL defaults to the
// public endpoint and is overridable for tests.
type Discord struct {
	BaseURL string
	ID      string
	Token   string
	Client  *http.Client
}

func NewDiscord(id, token string) *Discord {
	if id == "" || token == "" {
		return nil
	}
	return &Discord{
		BaseURL: "https://discord.com",
		ID:      id,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type embedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type embed struct {
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

func (d *Discord) Alert(ctx context.Context, failures []Failure) error {
	fields := make([]embedField, 0, maxEmbedFields)
	for i, f := range failures {
		if len(failures) > maxEmbedFields && i == maxEmbedFields-1 {
			fields = append(fields, embedField{
				Name:  "…",
				Value: fmt.Sprintf("and %d more errors", len(failures)-i),
			})
			break
		}
		fields = append(fields, embedField{Name: f.Subject, Value: f.Reason})
	}
	return d.execute(ctx, embed{
		Description: "Some errors occurred.\nAs soon as all requests are successful again you will be notified.",
		Color:       colorAlert,
		Fields:      fields,
	})
}

func (d *Discord) Resolved(ctx context.Context) error {
	return d.execute(ctx, embed{
		Description: "All requests have been successful. Collector working as expected again.",
		Color:       colorResolved,
	})
}

func (d *Discord) execute(ctx context.Context, e embed) error {
	if d == nil || d.ID == "" || d.Token == "" {
		return errors.New("discord webhook disabled")
	}
	body, _ := json.Marshal(webhookPayload{Embeds: []embed{e}})
	url := fmt.Sprintf("%s/api/webhooks/%s/%s", d.BaseURL, d.ID, d.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("discord webhook returned %s", resp.Status)
	}
	return nil
}
