package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/status-beacon/beacon/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorRed    = 16711680 // #FF0000 - critical/major impact
	ColorGreen  = 65280    // #00FF00 - incident resolved
	ColorOrange = 16753920 // #FFA500 - minor/none impact

	Username = "Status Beacon"
)

func discordColorForImpact(impact models.IncidentImpact) int {
	if impact == models.ImpactCritical || impact == models.ImpactMajor {
		return ColorRed
	}
	return ColorOrange
}

func slackColorForImpact(impact models.IncidentImpact) string {
	if impact == models.ImpactCritical || impact == models.ImpactMajor {
		return "danger"
	}
	return "warning"
}

// SendIncidentCreatedNotification posts a new provider incident to the
// configured Discord and/or Slack webhooks. Unset webhooks are skipped.
func SendIncidentCreatedNotification(service models.Service, incident models.Incident) error {
	if url := os.Getenv("DISCORD_WEBHOOK"); url != "" {
		if err := sendDiscordIncidentCreated(url, service, incident); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if url := os.Getenv("SLACK_WEBHOOK"); url != "" {
		if err := sendSlackIncidentCreated(url, service, incident); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func SendIncidentResolvedNotification(service models.Service, incident models.Incident) error {
	if url := os.Getenv("DISCORD_WEBHOOK"); url != "" {
		if err := sendDiscordIncidentResolved(url, service, incident); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if url := os.Getenv("SLACK_WEBHOOK"); url != "" {
		if err := sendSlackIncidentResolved(url, service, incident); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func sendDiscordIncidentCreated(webhookURL string, service models.Service, incident models.Incident) error {
	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "🚨 **PROVIDER INCIDENT**",
				Description: fmt.Sprintf("**%s** reported an incident.", service.Name),
				Color:       discordColorForImpact(incident.Impact),
				Fields: []DiscordWebhookField{
					{Name: "Service", Value: service.Name, Inline: true},
					{Name: "Provider", Value: service.Provider, Inline: true},
					{Name: "Impact", Value: string(incident.Impact), Inline: true},
					{Name: "Status", Value: string(incident.Status), Inline: true},
					{Name: "Title", Value: incident.Title, Inline: false},
					{Name: "Description", Value: incident.Description, Inline: false},
				},
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Incident %s | Status Beacon", incident.ExternalID),
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return sendDiscordWebhook(webhookURL, payload)
}

func sendDiscordIncidentResolved(webhookURL string, service models.Service, incident models.Incident) error {
	resolvedAt := "Unknown"
	duration := "Unknown"

	if incident.ResolvedAt != nil {
		resolvedAt = incident.ResolvedAt.Format("2006-01-02 15:04:05 UTC")
		duration = incident.ResolvedAt.Sub(incident.CreatedAt).Round(time.Second).String()
	}

	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "✅ **INCIDENT RESOLVED**",
				Description: fmt.Sprintf("**%s** is back to normal operation.", service.Name),
				Color:       ColorGreen,
				Fields: []DiscordWebhookField{
					{Name: "Service", Value: service.Name, Inline: true},
					{Name: "Provider", Value: service.Provider, Inline: true},
					{Name: "Impact", Value: string(incident.Impact), Inline: true},
					{Name: "Title", Value: incident.Title, Inline: false},
					{Name: "Resolved At", Value: resolvedAt, Inline: true},
					{Name: "Duration", Value: duration, Inline: true},
				},
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Incident %s | Status Beacon", incident.ExternalID),
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return sendDiscordWebhook(webhookURL, payload)
}

func sendSlackIncidentCreated(webhookURL string, service models.Service, incident models.Incident) error {
	payload := SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":rotating_light:",
		Text:      ":rotating_light: *PROVIDER INCIDENT*",
		Attachments: []SlackAttachment{
			{
				Color: slackColorForImpact(incident.Impact),
				Title: fmt.Sprintf("%s reported an incident", service.Name),
				Text:  incident.Description,
				Fields: []SlackField{
					{Title: "Service", Value: service.Name, Short: true},
					{Title: "Provider", Value: service.Provider, Short: true},
					{Title: "Impact", Value: string(incident.Impact), Short: true},
					{Title: "Status", Value: string(incident.Status), Short: true},
					{Title: "Title", Value: incident.Title, Short: false},
				},
				Footer:    fmt.Sprintf("Incident %s", incident.ExternalID),
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return sendSlackWebhook(webhookURL, payload)
}

func sendSlackIncidentResolved(webhookURL string, service models.Service, incident models.Incident) error {
	duration := "Unknown"

	if incident.ResolvedAt != nil {
		duration = incident.ResolvedAt.Sub(incident.CreatedAt).Round(time.Second).String()
	}

	payload := SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":white_check_mark:",
		Text:      ":white_check_mark: *INCIDENT RESOLVED*",
		Attachments: []SlackAttachment{
			{
				Color: "good",
				Title: fmt.Sprintf("%s is back to normal operation", service.Name),
				Text:  "The provider has marked the incident as resolved.",
				Fields: []SlackField{
					{Title: "Service", Value: service.Name, Short: true},
					{Title: "Provider", Value: service.Provider, Short: true},
					{Title: "Impact", Value: string(incident.Impact), Short: true},
					{Title: "Duration", Value: duration, Short: true},
					{Title: "Title", Value: incident.Title, Short: false},
				},
				Footer:    fmt.Sprintf("Incident %s", incident.ExternalID),
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return sendSlackWebhook(webhookURL, payload)
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
