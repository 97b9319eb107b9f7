// Package chat posts trigger notifications to the marketing team's chat
// via an incoming webhook.
package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: http.DefaultClient,
	}
}

type webhookPayload struct {
	Text string `json:"text"`
}

// Send posts one notification to the webhook. A missing webhook URL is not
// an error: the channel is simply not configured.
func (c *Client) Send(recipient, title, body string, metadata map[string]string) error {
	if c.webhookURL == "" {
		log.Println("⚠️ chat: webhook URL not configured, skipping")
		return nil
	}

	text := fmt.Sprintf("*%s*\nlead: %s\n%s", title, recipient, body)
	if triggerType := metadata["trigger_type"]; triggerType != "" {
		text = fmt.Sprintf("[%s] %s", triggerType, text)
	}

	payload, _ := json.Marshal(webhookPayload{Text: text})
	resp, err := c.httpClient.Post(c.webhookURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat webhook: %d - %s", resp.StatusCode, string(respBody))
	}

	return nil
}
