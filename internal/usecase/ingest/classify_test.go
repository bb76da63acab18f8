package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

func TestClassifyCallType(t *testing.T) {
	cases := []struct {
		title string
		text  string
		want  entities.CallType
	}{
		{"Product Demo - Acme", "", entities.CallTypeDemo},
		{"Acme QUALIFICATION", "let me show you", entities.CallTypeDiscovery},
		{"Presentation for board", "", entities.CallTypeDemo},
		{"Closing call", "", entities.CallTypeClosing},
		{"Proposal review", "", entities.CallTypeClosing},
		{"Weekly follow-up", "", entities.CallTypeFollowup},
		{"Quarterly check-in", "", entities.CallTypeFollowup},
		{"Acme", "What's the budget and the timeline here?", entities.CallTypeDiscovery},
		{"Acme", "Let me SHOW YOU the dashboard", entities.CallTypeDemo},
		{"Acme", "I'll send the contract tonight", entities.CallTypeClosing},
		{"Acme", "Nice to meet you", entities.CallTypeDiscovery},
		{"", "", entities.CallTypeDiscovery},
		// title rules win over the body
		{"Demo day", "We will sign the contract", entities.CallTypeDemo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyCallType(tc.title, tc.text), "title=%q text=%q", tc.title, tc.text)
	}
}

func TestWebhookPayload_Normalize(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("sentences rebuild the text", func(t *testing.T) {
		p := &WebhookPayload{
			ID:           "ff-9",
			Duration:     905,
			Participants: []WebhookParticipant{{Name: "Dana", Email: "Dana@Acme.com"}},
			Sentences: []entities.Sentence{
				{SpeakerName: "Rep", Text: "Hi Dana"},
				{Text: "Hello"},
			},
			Date: []byte(`"2026-10-01"`),
		}
		tr, err := p.Normalize(now)
		require.NoError(t, err)
		assert.Equal(t, "ff-9", tr.ExternalID)
		assert.Equal(t, "Rep: Hi Dana\nSpeaker: Hello", tr.Text)
		assert.Equal(t, "Call with Dana", tr.Title)
		assert.Equal(t, 905, tr.DurationSeconds)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), tr.Date)
		assert.Equal(t, []string{"dana@acme.com"}, tr.ParticipantEmails())
	})

	t.Run("title falls back to Sales Call", func(t *testing.T) {
		tr, err := (&WebhookPayload{Transcript: "Rep: hi"}).Normalize(now)
		require.NoError(t, err)
		assert.Equal(t, "Sales Call", tr.Title)
		assert.Equal(t, now, tr.Date)
		assert.Contains(t, tr.ExternalID, "sha256:")
	})

	t.Run("content id survives redelivery on a later day", func(t *testing.T) {
		a, err := (&WebhookPayload{Transcript: "Rep: hi", Title: "x"}).Normalize(now)
		require.NoError(t, err)
		b, err := (&WebhookPayload{Transcript: "Rep: hi", Title: "x"}).Normalize(now.Add(48 * time.Hour))
		require.NoError(t, err)
		assert.Equal(t, a.ExternalID, b.ExternalID)
		assert.NotEqual(t, a.Date, b.Date)
	})

	t.Run("content id uses the sender's date", func(t *testing.T) {
		first := &WebhookPayload{Transcript: "Rep: hi", Title: "x", Date: []byte(`"2026-10-01"`)}
		a, err := first.Normalize(now)
		require.NoError(t, err)
		b, err := first.Normalize(now.Add(48 * time.Hour))
		require.NoError(t, err)
		assert.Equal(t, a.ExternalID, b.ExternalID)

		other, err := (&WebhookPayload{Transcript: "Rep: hi", Title: "x", Date: []byte(`"2026-10-02"`)}).Normalize(now)
		require.NoError(t, err)
		assert.NotEqual(t, a.ExternalID, other.ExternalID)
	})

	t.Run("unparseable date falls back to receive time", func(t *testing.T) {
		tr, err := (&WebhookPayload{Transcript: "Rep: hi", Date: []byte(`"last tuesday"`)}).Normalize(now)
		require.NoError(t, err)
		assert.Equal(t, now, tr.Date)
	})

	t.Run("no text and no sentences", func(t *testing.T) {
		_, err := (&WebhookPayload{Title: "Empty"}).Normalize(now)
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
	})
}

func TestWebhookParticipant_AcceptsStrings(t *testing.T) {
	var p WebhookPayload
	raw := `{"transcript":"x","participants":["rep@coach.io","Sam",{"name":"Lee","email":"lee@acme.com"}],"date":1760000000000}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, []WebhookParticipant{{Email: "rep@coach.io"}, {Name: "Sam"}, {Name: "Lee", Email: "lee@acme.com"}}, p.Participants)

	tr, err := p.Normalize(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1760000000000).UTC(), tr.Date)
}
