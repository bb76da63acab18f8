package coaching

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

const (
	// MaxTokens is the generation budget for one coaching message
	MaxTokens = 2000

	windowDays          = 30
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Publisher emits domain events
type Publisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// Service defines coaching operations
type Service interface {
	GenerateCoaching(ctx context.Context, teamMemberID, managerID uuid.UUID) (*entities.CoachingSummary, error)
	ListHistory(ctx context.Context, managerID, teamMemberID uuid.UUID, limit int) ([]*entities.CoachingSummary, error)
}

type coachingService struct {
	accounts  repositories.AccountRepository
	activity  repositories.ActivityRepository
	history   repositories.CoachingRepository
	generator aiuc.Generator
	parser    *aiuc.Parser
	publisher Publisher
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs the coaching service. publisher may be nil.
func NewService(
	accounts repositories.AccountRepository,
	activity repositories.ActivityRepository,
	history repositories.CoachingRepository,
	generator aiuc.Generator,
	publisher Publisher,
	timeout time.Duration,
	logger *zap.Logger,
) Service {
	return &coachingService{
		accounts:  accounts,
		activity:  activity,
		history:   history,
		generator: generator,
		parser:    aiuc.NewParser(),
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// resolvePair loads both members and checks they belong to the same account
func (s *coachingService) resolvePair(ctx context.Context, teamMemberID, managerID uuid.UUID) (member, manager *entities.AccountMember, err error) {
	if member, err = s.accounts.GetMember(ctx, teamMemberID); err != nil {
		return nil, nil, fmt.Errorf("failed to load team member: %w", err)
	}
	if member == nil {
		return nil, nil, fmt.Errorf("%w: team member %s", entities.ErrNotFound, teamMemberID)
	}
	if manager, err = s.accounts.GetMember(ctx, managerID); err != nil {
		return nil, nil, fmt.Errorf("failed to load manager: %w", err)
	}
	if manager == nil || manager.AccountID != member.AccountID {
		return nil, nil, fmt.Errorf("%w: manager is not on the team member's account", entities.ErrForbidden)
	}
	return member, manager, nil
}

func (s *coachingService) GenerateCoaching(ctx context.Context, teamMemberID, managerID uuid.UUID) (*entities.CoachingSummary, error) {
	member, _, err := s.resolvePair(ctx, teamMemberID, managerID)
	if err != nil {
		return nil, err
	}

	since := s.now().UTC().AddDate(0, 0, -windowDays)
	memberAvg, err := s.activity.MemberAverages(ctx, teamMemberID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load member activity: %w", err)
	}
	if memberAvg.Days == 0 {
		return nil, fmt.Errorf("%w: activity data for the last %d days", entities.ErrNotFound, windowDays)
	}
	teamAvg, err := s.activity.CohortAverages(ctx, member.AccountID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load team activity: %w", err)
	}
	goals, err := s.activity.ActiveGoals(ctx, teamMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	promptText := prompt.BuildCoachingPrompt(member.FirstName(), memberAvg, teamAvg, goals)

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	raw, err := s.generator.Generate(genCtx, promptText, MaxTokens)
	if err != nil {
		return nil, aiuc.UpstreamError(err)
	}
	result, err := s.parser.ParseCoaching(raw)
	if err != nil {
		return nil, err
	}

	summary := &entities.CoachingSummary{
		ID:                 uuid.New(),
		AccountID:          member.AccountID,
		ManagerID:          managerID,
		TeamMemberID:       teamMemberID,
		PerformanceSummary: result.PerformanceSummary,
		Strengths:          result.Strengths,
		AreasOfImprovement: result.AreasOfImprovement,
		Omissions:          result.Omissions,
		Recommendations:    result.Recommendations,
		SuggestedGoals:     result.SuggestedGoals,
		FullMessage:        result.FullMessage,
		MemberAverages:     memberAvg,
		TeamAverages:       teamAvg,
		RawResponse:        datatypes.JSON(result.Raw),
		CreatedAt:          s.now().UTC(),
	}
	if err := s.history.Append(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save coaching summary: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🧭 Coaching summary created",
			zap.String("summary_id", summary.ID.String()),
			zap.String("team_member_id", teamMemberID.String()),
			zap.String("manager_id", managerID.String()),
		)
	}

	if s.publisher != nil {
		event := entities.CoachingCreatedEvent{
			SummaryID:    summary.ID,
			AccountID:    summary.AccountID,
			ManagerID:    managerID,
			TeamMemberID: teamMemberID,
			CreatedAt:    summary.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, entities.EventCoachingCreated, event); err != nil && s.logger != nil {
			s.logger.Warn("Failed to publish coaching event", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *coachingService) ListHistory(ctx context.Context, managerID, teamMemberID uuid.UUID, limit int) ([]*entities.CoachingSummary, error) {
	if _, _, err := s.resolvePair(ctx, teamMemberID, managerID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	return s.history.ListHistory(ctx, managerID, teamMemberID, limit)
}
