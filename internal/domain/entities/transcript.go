package entities

import (
	"strings"
	"time"
)

// SourceFireflies marks transcripts pulled or pushed from Fireflies.ai
const SourceFireflies = "fireflies"

// Participant is a call attendee as reported by the recording service
type Participant struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Sentence is one speaker-attributed line of a transcript
type Sentence struct {
	SpeakerName string `json:"speaker_name,omitempty"`
	Text        string `json:"text"`
}

// Transcript is an ingested call transcript. It is never mutated after ingestion.
type Transcript struct {
	ExternalID      string        `json:"external_id"`
	Source          string        `json:"source"`
	Title           string        `json:"title"`
	Date            time.Time     `json:"date"`
	DurationSeconds int           `json:"duration_seconds"`
	Participants    []Participant `json:"participants,omitempty"`
	Text            string        `json:"text,omitempty"`
	Sentences       []Sentence    `json:"sentences,omitempty"`
}

// FullText returns the flat transcript text, rebuilding it from sentences
// as "speaker: text" lines when no flat text was supplied.
func (t *Transcript) FullText() string {
	if t.Text != "" || len(t.Sentences) == 0 {
		return t.Text
	}
	lines := make([]string, 0, len(t.Sentences))
	for _, s := range t.Sentences {
		speaker := s.SpeakerName
		if speaker == "" {
			speaker = "Speaker"
		}
		lines = append(lines, speaker+": "+s.Text)
	}
	return strings.Join(lines, "\n")
}

// DurationMinutes rounds the duration to whole minutes
func (t *Transcript) DurationMinutes() int {
	return (t.DurationSeconds + 30) / 60
}

// ShorterThan reports whether the call is below a minimum duration in minutes.
// A floor of zero or less admits everything.
func (t *Transcript) ShorterThan(minMinutes int) bool {
	return minMinutes > 0 && t.DurationSeconds < minMinutes*60
}

// ParticipantEmails returns the non-empty, lower-cased participant emails
func (t *Transcript) ParticipantEmails() []string {
	emails := make([]string, 0, len(t.Participants))
	for _, p := range t.Participants {
		if e := strings.ToLower(strings.TrimSpace(p.Email)); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}
