package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Notifier posts a short run summary somewhere a human will see it.
type Notifier interface {
	Notify(message string) error
}

// Nop is used when no webhook is configured.
type Nop struct{}

func (Nop) Notify(string) error { return nil }

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordWebhook posts to a channel webhook. No bot token is needed.
type DiscordWebhook struct {
	session   webhookExecutor
	webhookID string
	token     string
	username  string
}

func NewDiscordWebhook(webhookURL string) (*DiscordWebhook, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	return &DiscordWebhook{
		session:   session,
		webhookID: id,
		token:     token,
		username:  "drivethumbs",
	}, nil
}

func (d *DiscordWebhook) Notify(message string) error {
	_, err := d.session.WebhookExecute(d.webhookID, d.token, false, &discordgo.WebhookParams{
		Content:  message,
		Username: d.username,
	})
	if err != nil {
		return fmt.Errorf("failed to post Discord webhook: %w", err)
	}
	return nil
}

// ParseWebhookURL splits https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("invalid webhook URL: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "webhooks" && i+2 < len(parts) && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("invalid webhook URL: expected .../webhooks/<id>/<token>")
}
