package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

const defaultCallTitle = "Sales Call"

// WebhookParticipant accepts either {"name","email"} objects or bare strings
type WebhookParticipant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON implements json.Unmarshaler
func (p *WebhookParticipant) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if strings.Contains(s, "@") {
			p.Email = strings.TrimSpace(s)
		} else {
			p.Name = strings.TrimSpace(s)
		}
		return nil
	}
	type plain WebhookParticipant
	var obj plain
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*p = WebhookParticipant(obj)
	return nil
}

// WebhookPayload is a pushed transcript. Either Transcript or Sentences must
// be present.
type WebhookPayload struct {
	ID           string               `json:"id"`
	TranscriptID string               `json:"transcript_id"`
	MeetingID    string               `json:"meetingId"`
	Transcript   string               `json:"transcript"`
	Title        string               `json:"title"`
	Duration     float64              `json:"duration"`
	Participants []WebhookParticipant `json:"participants"`
	Date         json.RawMessage      `json:"date"`
	Sentences    []entities.Sentence  `json:"sentences"`
	Summary      string               `json:"summary"`
}

// Normalize converts the payload into a Transcript. The text falls back to
// the sentences; the title falls back to "Call with <first participant>" and
// then to "Sales Call".
func (p *WebhookPayload) Normalize(now time.Time) (*entities.Transcript, error) {
	t := &entities.Transcript{
		Source:          entities.SourceFireflies,
		Text:            strings.TrimSpace(p.Transcript),
		Sentences:       p.Sentences,
		DurationSeconds: int(p.Duration + 0.5),
	}
	date, dated := parseWebhookDate(p.Date)
	t.Date = now.UTC()
	if dated {
		t.Date = date
	}
	t.Text = t.FullText()
	if strings.TrimSpace(t.Text) == "" {
		return nil, fmt.Errorf("%w: no transcript provided", entities.ErrInvalidInput)
	}

	for _, wp := range p.Participants {
		if wp.Name == "" && wp.Email == "" {
			continue
		}
		t.Participants = append(t.Participants, entities.Participant{Name: wp.Name, Email: wp.Email})
	}

	t.Title = strings.TrimSpace(p.Title)
	if t.Title == "" {
		t.Title = defaultCallTitle
		if len(t.Participants) > 0 {
			if who := firstNonEmpty(t.Participants[0].Name, t.Participants[0].Email); who != "" {
				t.Title = "Call with " + who
			}
		}
	}

	t.ExternalID = firstNonEmpty(p.ID, p.TranscriptID, p.MeetingID)
	if t.ExternalID == "" {
		t.ExternalID = contentID(t, dated)
	}
	return t, nil
}

// contentID derives a stable id for payloads that carry none, so redeliveries
// still collide on the dedup key. The date takes part only when the sender
// supplied one; a receive-time date would change with every retry.
func contentID(t *entities.Transcript, dated bool) string {
	key := t.Title + "\x00"
	if dated {
		key += t.Date.Format(time.DateOnly)
	}
	sum := sha256.Sum256([]byte(key + "\x00" + t.Text))
	return "sha256:" + hex.EncodeToString(sum[:16])
}

// parseWebhookDate accepts epoch milliseconds, RFC 3339 or a bare date.
// ok is false when the payload carried no usable date.
func parseWebhookDate(raw json.RawMessage) (date time.Time, ok bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return time.Time{}, false
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
