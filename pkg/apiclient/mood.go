package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type MoodLog struct {
	ID             int       `json:"id"`
	MoodScore      int       `json:"mood_score"`
	TextInput      string    `json:"text_input,omitempty"`
	SentimentLabel string    `json:"sentiment_label,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type MoodStats struct {
	AverageMood float64   `json:"average_mood"`
	TotalLogs   int       `json:"total_logs"`
	Logs        []MoodLog `json:"logs"`
}

func (c *Client) CreateMoodLog(ctx context.Context, score int, textInput, sentiment string) (*MoodLog, error) {
	body := map[string]any{
		"mood_score": score,
	}
	if textInput != "" {
		body["text_input"] = textInput
	}
	if sentiment != "" {
		body["sentiment_label"] = sentiment
	}

	var log MoodLog
	if err := c.doAuth(ctx, http.MethodPost, "/mood/", nil, body, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (c *Client) MoodStats(ctx context.Context, days int) (*MoodStats, error) {
	q := url.Values{"days": []string{strconv.Itoa(days)}}

	var stats MoodStats
	if err := c.doAuth(ctx, http.MethodGet, "/mood/stats/", q, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
