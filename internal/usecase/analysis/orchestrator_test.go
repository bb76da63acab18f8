package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/domain/methodology"
	"github.com/johnquangdev/sales-coach/internal/usecase/prompt"
	"github.com/johnquangdev/sales-coach/internal/usecase/usecasetest"
)

type fakeArchiver struct {
	calls int
	err   error
}

func (a *fakeArchiver) ArchiveAnalysis(ctx context.Context, analysis *entities.ConversationAnalysis) error {
	a.calls++
	return a.err
}

func transcript(id string) *entities.Transcript {
	return &entities.Transcript{
		ExternalID:      id,
		Source:          entities.SourceFireflies,
		Title:           "Acme discovery",
		Date:            time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC),
		DurationSeconds: 1800,
		Participants:    []entities.Participant{{Email: "rep@coach.io"}},
		Text:            "Rep: Thanks for taking the time today. What made you take this call?\nBuyer: Our reporting takes two days every month.",
	}
}

type fixture struct {
	repo      *usecasetest.AnalysisRepo
	gen       *usecasetest.Generator
	pub       *usecasetest.Publisher
	archiver  *fakeArchiver
	orch      Orchestrator
	accountID uuid.UUID
}

func newFixture(t *testing.T, respond func(string) (string, error)) *fixture {
	t.Helper()
	f := &fixture{
		repo:      usecasetest.NewAnalysisRepo(),
		gen:       &usecasetest.Generator{Respond: respond},
		pub:       &usecasetest.Publisher{},
		archiver:  &fakeArchiver{},
		accountID: uuid.New(),
	}
	builder := prompt.NewBuilder(methodology.MustNewRegistry(""))
	f.orch = NewOrchestrator(builder, f.gen, f.repo, Options{
		Archiver:  f.archiver,
		Publisher: f.pub,
		Timeout:   time.Second,
		Now:       func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) },
	})
	return f
}

func fixed(s string) func(string) (string, error) {
	return func(string) (string, error) { return s, nil }
}

func TestProcessTranscript_Success(t *testing.T) {
	f := newFixture(t, fixed(usecasetest.SandlerResponse))

	got, err := f.orch.ProcessTranscript(context.Background(), Input{
		AccountID:   f.accountID,
		Transcript:  transcript("ff-1"),
		CallType:    entities.CallTypeDiscovery,
		Methodology: "Sandler",
	})
	require.NoError(t, err)

	assert.Equal(t, "sandler", got.Methodology)
	assert.Equal(t, 7.5, got.OverallScore)
	assert.Len(t, got.Scores, 6)
	assert.Equal(t, 30, got.DurationMinutes)
	assert.Equal(t, "en", got.Language)
	assert.True(t, got.PainIdentified)
	assert.Equal(t, []string{"Confirm next steps"}, got.Recommendations)
	assert.Equal(t, entities.CallTypeDiscovery, got.ConversationType)
	assert.Contains(t, string(got.RawResponse), `"overall_score": 7.5`)

	assert.Equal(t, 1, f.repo.Analyses())
	assert.Equal(t, 1, f.repo.Records())
	assert.Equal(t, []int{MaxTokens}, f.gen.Budgets)
	assert.Contains(t, f.gen.Prompts[0], "Conversation Type: discovery")
	assert.Equal(t, 1, f.archiver.calls)
	assert.Equal(t, []string{entities.EventAnalysisCreated}, f.pub.Events)

	stored, err := f.repo.GetByID(context.Background(), f.accountID, got.ID)
	require.NoError(t, err)
	assert.Same(t, got, stored)
}

func TestProcessTranscript_GeneratorFailure(t *testing.T) {
	f := newFixture(t, func(string) (string, error) { return "", errors.New("connection reset") })

	_, err := f.orch.ProcessTranscript(context.Background(), Input{AccountID: f.accountID, Transcript: transcript("ff-1")})
	assert.ErrorIs(t, err, entities.ErrUpstream)
	assert.Zero(t, f.repo.Records())
	assert.Empty(t, f.pub.Events)
}

func TestProcessTranscript_RejectedResponsesPersistNothing(t *testing.T) {
	cases := map[string]struct {
		reply string
		want  error
	}{
		"prose only":   {"I cannot score this call.", entities.ErrMalformedResponse},
		"out of range": {`{"overall_score": 15}`, entities.ErrSchemaViolation},
		"wrong dims":   {usecasetest.MeddicResponse, entities.ErrSchemaViolation},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, fixed(tc.reply))
			_, err := f.orch.ProcessTranscript(context.Background(), Input{
				AccountID:   f.accountID,
				Transcript:  transcript("ff-1"),
				Methodology: "sandler",
			})
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, f.repo.Records())
			assert.Zero(t, f.repo.Analyses())
		})
	}
}

func TestProcessTranscript_UnknownMethodologyFallsBack(t *testing.T) {
	f := newFixture(t, fixed(usecasetest.MeddicResponse))

	got, err := f.orch.ProcessTranscript(context.Background(), Input{
		AccountID:   f.accountID,
		Transcript:  transcript("ff-1"),
		Methodology: "bant",
	})
	require.NoError(t, err)
	assert.Equal(t, "meddic", got.Methodology)
	assert.Contains(t, got.Scores, "champion_score")
}

func TestProcessTranscript_DuplicateIsAlreadySynced(t *testing.T) {
	f := newFixture(t, fixed(usecasetest.SandlerResponse))
	in := Input{AccountID: f.accountID, Transcript: transcript("ff-1"), Methodology: "sandler"}

	_, err := f.orch.ProcessTranscript(context.Background(), in)
	require.NoError(t, err)

	_, err = f.orch.ProcessTranscript(context.Background(), in)
	assert.ErrorIs(t, err, entities.ErrAlreadySynced)
	assert.Equal(t, 1, f.repo.Records())
	assert.Len(t, f.pub.Events, 1)
}

func TestProcessTranscript_ConcurrentSameTranscript(t *testing.T) {
	f := newFixture(t, fixed(usecasetest.SandlerResponse))
	in := Input{AccountID: f.accountID, Transcript: transcript("ff-race"), Methodology: "sandler"}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orch.ProcessTranscript(context.Background(), in)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, entities.ErrAlreadySynced)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.repo.Records())
	assert.Equal(t, 1, f.repo.Analyses())
}

func TestProcessTranscript_SideEffectFailuresDoNotUndoCommit(t *testing.T) {
	f := newFixture(t, fixed(usecasetest.SandlerResponse))
	f.archiver.err = errors.New("bucket missing")
	f.pub.Err = errors.New("nats down")

	got, err := f.orch.ProcessTranscript(context.Background(), Input{AccountID: f.accountID, Transcript: transcript("ff-1"), Methodology: "sandler"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 1, f.repo.Records())
}

func TestProcessTranscript_EmptyTranscript(t *testing.T) {
	f := newFixture(t, fixed(usecasetest.SandlerResponse))
	tr := transcript("ff-1")
	tr.Text = ""

	_, err := f.orch.ProcessTranscript(context.Background(), Input{AccountID: f.accountID, Transcript: tr})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	assert.Zero(t, f.gen.Calls())
}

func TestProcessTranscript_Timeout(t *testing.T) {
	f := newFixture(t, fixed(usecasetest.SandlerResponse))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orch.ProcessTranscript(ctx, Input{AccountID: f.accountID, Transcript: transcript("ff-1")})
	assert.ErrorIs(t, err, entities.ErrUpstream)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.repo.Records())
}
