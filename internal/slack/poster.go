package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prosora-labs/prosora/internal/composer"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Poster pushes generated drafts into a Slack channel for review.
// Reactions on the posted message drive the approvals ledger.
type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostPiece posts one draft for review and returns the message timestamp
// (ts) used to route reactions back to the piece.
func (p *Poster) PostPiece(ctx context.Context, piece composer.Piece) (string, error) {
	text := formatPieceMessage(piece)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": "React: :+1: approve | :-1: reject",
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted draft to slack", "ts", slackResp.TS, "piece", piece.ID, "platform", piece.Platform)
	return slackResp.TS, nil
}

func formatPieceMessage(piece composer.Piece) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Draft:* %s | Tier %d | credibility %.2f\n", piece.Platform, piece.Tier, piece.Credibility)
	if len(piece.Evidence) > 0 {
		fmt.Fprintf(&sb, "*Evidence:* %s\n", strings.Join(piece.Evidence, ", "))
	}
	sb.WriteString("\n")

	if len(piece.Tweets) > 0 {
		for i, tweet := range piece.Tweets {
			fmt.Fprintf(&sb, "%d/ %s\n", i+1, tweet)
		}
	} else {
		sb.WriteString(piece.Body)
	}

	return sb.String()
}
