package fireflies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// DefaultURL is the Fireflies GraphQL endpoint
const DefaultURL = "https://api.fireflies.ai/graphql"

const userQuery = `query { user { email name } }`

const transcriptsQuery = `query {
  transcripts(limit: %d, date_filter: { start_date: "%s" }) {
    id
    title
    date
    duration
    participants
    transcript_text
  }
}`

// Client talks to the Fireflies GraphQL API. The API key is supplied per call
// since every account stores its own.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a Fireflies client. An empty endpoint uses DefaultURL.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// UserInfo is the account owner behind an API key
type UserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type rawTranscript struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Date           json.RawMessage `json:"date"`
	Duration       float64         `json:"duration"`
	Participants   []string        `json:"participants"`
	TranscriptText string          `json:"transcript_text"`
}

// TestConnection verifies the key by fetching the owning user
func (c *Client) TestConnection(ctx context.Context, apiKey string) (*UserInfo, error) {
	var out struct {
		User UserInfo `json:"user"`
	}
	if err := c.do(ctx, apiKey, userQuery, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// FetchTranscripts lists up to limit transcripts recorded since the given time
func (c *Client) FetchTranscripts(ctx context.Context, apiKey string, since time.Time, limit int) ([]entities.Transcript, error) {
	query := fmt.Sprintf(transcriptsQuery, limit, since.UTC().Format(time.RFC3339))

	var out struct {
		Transcripts []rawTranscript `json:"transcripts"`
	}
	if err := c.do(ctx, apiKey, query, &out); err != nil {
		return nil, err
	}

	transcripts := make([]entities.Transcript, 0, len(out.Transcripts))
	for _, rt := range out.Transcripts {
		if rt.ID == "" {
			continue
		}
		transcripts = append(transcripts, entities.Transcript{
			ExternalID:      rt.ID,
			Source:          entities.SourceFireflies,
			Title:           rt.Title,
			Date:            parseDate(rt.Date),
			DurationSeconds: int(rt.Duration + 0.5),
			Participants:    ParseParticipants(rt.Participants),
			Text:            rt.TranscriptText,
		})
	}
	return transcripts, nil
}

func (c *Client) do(ctx context.Context, apiKey, query string, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fireflies request: %v", entities.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read fireflies response: %v", entities.ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: fireflies returned status %d", entities.ErrAuth, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: fireflies returned status %d", entities.ErrUpstream, resp.StatusCode)
	}

	var gr graphQLResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return fmt.Errorf("%w: decode fireflies response: %v", entities.ErrUpstream, err)
	}
	if len(gr.Errors) > 0 {
		first := gr.Errors[0]
		if isAuthError(first) {
			return fmt.Errorf("%w: %s", entities.ErrAuth, first.Message)
		}
		return fmt.Errorf("%w: fireflies: %s", entities.ErrUpstream, first.Message)
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("%w: decode fireflies data: %v", entities.ErrUpstream, err)
	}
	return nil
}

func isAuthError(e graphQLError) bool {
	code := strings.ToLower(e.Extensions.Code)
	if strings.Contains(code, "auth") || code == "forbidden" {
		return true
	}
	msg := strings.ToLower(e.Message)
	for _, hint := range []string{"auth", "api key", "unauthor", "forbidden", "invalid token"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// parseDate accepts epoch milliseconds or an RFC 3339 string
func parseDate(raw json.RawMessage) time.Time {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return time.Time{}
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return time.UnixMilli(int64(ms)).UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// ParseParticipants turns Fireflies participant strings ("a@b.com",
// "Name <a@b.com>" or a bare name) into participants.
func ParseParticipants(values []string) []entities.Participant {
	out := make([]entities.Participant, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		// Fireflies sometimes packs several emails into one entry
		if strings.Contains(v, ",") {
			out = append(out, ParseParticipants(strings.Split(v, ","))...)
			continue
		}
		if open := strings.LastIndex(v, "<"); open >= 0 && strings.HasSuffix(v, ">") {
			out = append(out, entities.Participant{
				Name:  strings.TrimSpace(v[:open]),
				Email: strings.TrimSpace(v[open+1 : len(v)-1]),
			})
			continue
		}
		if strings.Contains(v, "@") {
			out = append(out, entities.Participant{Email: v})
			continue
		}
		out = append(out, entities.Participant{Name: v})
	}
	return out
}
