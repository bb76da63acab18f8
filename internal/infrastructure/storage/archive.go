package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// ObjectWriter is the subset of MinIOClient the archive needs
type ObjectWriter interface {
	UploadText(ctx context.Context, objectName, content, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// AnalysisArchive keeps a copy of each analyzed transcript and the raw
// model reply under analyses/<account>/<analysis>/
type AnalysisArchive struct {
	objects ObjectWriter
}

func NewAnalysisArchive(objects ObjectWriter) *AnalysisArchive {
	return &AnalysisArchive{objects: objects}
}

// TranscriptKey is the object name of an analysis' transcript copy
func TranscriptKey(accountID, analysisID uuid.UUID) string {
	return path.Join("analyses", accountID.String(), analysisID.String(), "transcript.txt")
}

// ResponseKey is the object name of an analysis' raw model reply
func ResponseKey(accountID, analysisID uuid.UUID) string {
	return path.Join("analyses", accountID.String(), analysisID.String(), "response.json")
}

func (a *AnalysisArchive) ArchiveAnalysis(ctx context.Context, analysis *entities.ConversationAnalysis) error {
	if analysis.Transcript != "" {
		if err := a.objects.UploadText(ctx, TranscriptKey(analysis.AccountID, analysis.ID), analysis.Transcript, "text/plain; charset=utf-8"); err != nil {
			return fmt.Errorf("archive transcript: %w", err)
		}
	}
	if len(analysis.RawResponse) > 0 {
		if err := a.objects.UploadText(ctx, ResponseKey(analysis.AccountID, analysis.ID), string(analysis.RawResponse), "application/json"); err != nil {
			return fmt.Errorf("archive response: %w", err)
		}
	}
	return nil
}

// TranscriptURL returns a presigned link to the archived transcript
func (a *AnalysisArchive) TranscriptURL(ctx context.Context, analysis *entities.ConversationAnalysis, expiry time.Duration) (string, error) {
	return a.objects.GetFileURL(ctx, TranscriptKey(analysis.AccountID, analysis.ID), expiry)
}
