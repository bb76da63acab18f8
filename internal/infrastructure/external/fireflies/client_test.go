package fireflies

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

func newServer(t *testing.T, status int, body string, check func(r *http.Request, query string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(r, req.Query)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTranscripts(t *testing.T) {
	since := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	body := `{"data":{"transcripts":[
		{"id":"ff-1","title":"Acme discovery","date":1760000000000,"duration":1830,
		 "participants":["rep@coach.io","Dana Buyer <dana@acme.com>"],"transcript_text":"Rep: hi"},
		{"id":"","title":"ghost"},
		{"id":"ff-2","title":"Demo","date":"2026-10-01T15:00:00Z","duration":600,"participants":null,"transcript_text":""}
	]}}`

	srv := newServer(t, http.StatusOK, body, func(r *http.Request, query string) {
		assert.Equal(t, "Bearer ff-key", r.Header.Get("Authorization"))
		assert.Contains(t, query, "limit: 50")
		assert.Contains(t, query, `start_date: "2026-09-15T00:00:00Z"`)
		assert.Contains(t, query, "transcript_text")
	})

	got, err := NewClient(srv.URL, time.Second).FetchTranscripts(context.Background(), "ff-key", since, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "ff-1", first.ExternalID)
	assert.Equal(t, entities.SourceFireflies, first.Source)
	assert.Equal(t, 1830, first.DurationSeconds)
	assert.Equal(t, time.UnixMilli(1760000000000).UTC(), first.Date)
	assert.Equal(t, []string{"rep@coach.io", "dana@acme.com"}, first.ParticipantEmails())
	assert.Equal(t, "Dana Buyer", first.Participants[1].Name)

	assert.Equal(t, time.Date(2026, 10, 1, 15, 0, 0, 0, time.UTC), got[1].Date)
	assert.Empty(t, got[1].Participants)
}

func TestFetchTranscripts_Errors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized status", http.StatusUnauthorized, `{}`, entities.ErrAuth},
		{"forbidden status", http.StatusForbidden, `{}`, entities.ErrAuth},
		{"graphql auth error", http.StatusOK, `{"errors":[{"message":"Invalid API key"}]}`, entities.ErrAuth},
		{"graphql auth code", http.StatusOK, `{"errors":[{"message":"nope","extensions":{"code":"auth_failed"}}]}`, entities.ErrAuth},
		{"graphql other error", http.StatusOK, `{"errors":[{"message":"rate limited"}]}`, entities.ErrUpstream},
		{"server error", http.StatusBadGateway, `oops`, entities.ErrUpstream},
		{"not json", http.StatusOK, `<html>`, entities.ErrUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, tc.status, tc.body, nil)
			_, err := NewClient(srv.URL, time.Second).FetchTranscripts(context.Background(), "k", time.Now(), 50)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFetchTranscripts_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchTranscripts(context.Background(), "k", time.Now(), 50)
	assert.ErrorIs(t, err, entities.ErrUpstream)
}

func TestTestConnection(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"user":{"email":"owner@coach.io","name":"Owner"}}}`, func(r *http.Request, query string) {
		assert.Contains(t, query, "user { email name }")
	})

	user, err := NewClient(srv.URL, time.Second).TestConnection(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "owner@coach.io", user.Email)
}

func TestParseParticipants(t *testing.T) {
	got := ParseParticipants([]string{" ", "a@x.com, b@x.com", "Sam", "Lee <LEE@x.com>"})
	assert.Equal(t, []entities.Participant{
		{Email: "a@x.com"},
		{Email: "b@x.com"},
		{Name: "Sam"},
		{Name: "Lee", Email: "LEE@x.com"},
	}, got)
}
