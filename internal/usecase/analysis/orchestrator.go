// Package analysis turns one transcript into a persisted, scored
// ConversationAnalysis plus its dedup record.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/domain/repositories"
	aiuc "github.com/johnquangdev/sales-coach/internal/usecase/ai"
	"github.com/johnquangdev/sales-coach/internal/usecase/prompt"
)

// MaxTokens is the generation budget for a single call analysis
const MaxTokens = 4000

// Archiver stores the transcript and raw model output outside the database
type Archiver interface {
	ArchiveAnalysis(ctx context.Context, analysis *entities.ConversationAnalysis) error
}

// Publisher emits domain events
type Publisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// Input is everything needed to analyze one transcript for one account
type Input struct {
	AccountID       uuid.UUID
	Transcript      *entities.Transcript
	CallType        entities.CallType
	Methodology     string
	ReferenceScript *entities.ReferenceScript
}

// Orchestrator runs prompt, generate, parse and persist for one transcript
type Orchestrator interface {
	ProcessTranscript(ctx context.Context, in Input) (*entities.ConversationAnalysis, error)
}

// Options are the optional collaborators of the orchestrator
type Options struct {
	Archiver  Archiver
	Publisher Publisher
	Timeout   time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

type orchestrator struct {
	builder   *prompt.Builder
	parser    *aiuc.Parser
	generator aiuc.Generator
	repo      repositories.AnalysisRepository
	archiver  Archiver
	publisher Publisher
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrchestrator wires the analysis pipeline
func NewOrchestrator(
	builder *prompt.Builder,
	generator aiuc.Generator,
	repo repositories.AnalysisRepository,
	opts Options,
) Orchestrator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &orchestrator{
		builder:   builder,
		parser:    aiuc.NewParser(),
		generator: generator,
		repo:      repo,
		archiver:  opts.Archiver,
		publisher: opts.Publisher,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
		now:       now,
	}
}

func (o *orchestrator) ProcessTranscript(ctx context.Context, in Input) (*entities.ConversationAnalysis, error) {
	if in.Transcript == nil {
		return nil, fmt.Errorf("%w: transcript is required", entities.ErrInvalidInput)
	}
	text := in.Transcript.FullText()
	if text == "" {
		return nil, fmt.Errorf("%w: transcript has no text", entities.ErrInvalidInput)
	}

	def := o.builder.Methodology(in.Methodology)
	promptText := o.builder.BuildAnalysisPrompt(text, in.CallType, def.Key, in.ReferenceScript)

	raw, err := o.generate(ctx, promptText)
	if err != nil {
		return nil, err
	}

	result, err := o.parser.ParseAnalysis(raw, def)
	if err != nil {
		if o.logger != nil {
			o.logger.Warn("⚠️ Model response rejected",
				zap.String("external_id", in.Transcript.ExternalID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	now := o.now().UTC()
	analysis := &entities.ConversationAnalysis{
		ID:                uuid.New(),
		AccountID:         in.AccountID,
		ExternalID:        in.Transcript.ExternalID,
		Source:            in.Transcript.Source,
		Methodology:       def.Key,
		ConversationTitle: in.Transcript.Title,
		ConversationType:  in.CallType,
		ConversationDate:  conversationDate(in.Transcript.Date, now),
		DurationMinutes:   in.Transcript.DurationMinutes(),
		Language:          aiuc.DetectLanguage(text),
		OverallScore:      result.OverallScore,
		Scores:            result.Scores,
		TalkPercentage:    result.TalkPercentage,
		QuestionCount:     result.QuestionCount,
		AnalysisFlags:     result.Flags,
		WhatWentWell:      result.WhatWentWell,
		AreasToImprove:    result.AreasToImprove,
		Omissions:         result.Omissions,
		Recommendations:   result.Recommendations,
		Transcript:        text,
		RawResponse:       datatypes.JSON(result.Raw),
		CreatedAt:         now,
	}
	if analysis.Source == "" {
		analysis.Source = entities.SourceFireflies
	}
	record := entities.NewSyncRecord(in.AccountID, in.Transcript, analysis.ID, now)
	record.Source = analysis.Source

	if err := o.repo.SaveWithSyncRecord(ctx, analysis, record); err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Info("✅ Analysis saved",
			zap.String("analysis_id", analysis.ID.String()),
			zap.String("account_id", in.AccountID.String()),
			zap.String("external_id", analysis.ExternalID),
			zap.String("methodology", analysis.Methodology),
			zap.Float64("overall_score", analysis.OverallScore),
		)
	}

	o.afterCommit(ctx, analysis)
	return analysis, nil
}

func (o *orchestrator) generate(ctx context.Context, promptText string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	raw, err := o.generator.Generate(ctx, promptText, MaxTokens)
	if err != nil {
		return "", aiuc.UpstreamError(err)
	}
	return raw, nil
}

// afterCommit runs the side effects that must never undo a saved analysis
func (o *orchestrator) afterCommit(ctx context.Context, analysis *entities.ConversationAnalysis) {
	if o.archiver != nil {
		if err := o.archiver.ArchiveAnalysis(ctx, analysis); err != nil && o.logger != nil {
			o.logger.Warn("Failed to archive analysis",
				zap.String("analysis_id", analysis.ID.String()),
				zap.Error(err),
			)
		}
	}

	if o.publisher != nil {
		event := entities.AnalysisCreatedEvent{
			AnalysisID:   analysis.ID,
			AccountID:    analysis.AccountID,
			ExternalID:   analysis.ExternalID,
			Source:       analysis.Source,
			Methodology:  analysis.Methodology,
			OverallScore: analysis.OverallScore,
			CreatedAt:    analysis.CreatedAt,
		}
		if err := o.publisher.Publish(ctx, entities.EventAnalysisCreated, event); err != nil && o.logger != nil {
			o.logger.Warn("Failed to publish analysis event",
				zap.String("analysis_id", analysis.ID.String()),
				zap.Error(err),
			)
		}
	}
}

func conversationDate(d, fallback time.Time) time.Time {
	if d.IsZero() {
		return fallback
	}
	return d
}
