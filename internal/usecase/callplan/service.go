package callplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	aiuc "github.com/johnquangdev/sales-coach/internal/usecase/ai"
	"github.com/johnquangdev/sales-coach/internal/usecase/prompt"
)

// MaxTokens is the generation budget for one call plan
const MaxTokens = 4000

// Request describes the upcoming call
type Request struct {
	Description string
	Methodology string
	ICP         *entities.IdealCustomerProfile
	Scripts     *entities.ReferenceScript
}

// Service plans calls. Plans are returned, never stored.
type Service interface {
	PlanCall(ctx context.Context, req Request) (*entities.CallPlan, error)
}

type callPlanService struct {
	builder   *prompt.Builder
	generator aiuc.Generator
	parser    *aiuc.Parser
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService constructs the call planner
func NewService(builder *prompt.Builder, generator aiuc.Generator, timeout time.Duration, logger *zap.Logger) Service {
	return &callPlanService{
		builder:   builder,
		generator: generator,
		parser:    aiuc.NewParser(),
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *callPlanService) PlanCall(ctx context.Context, req Request) (*entities.CallPlan, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: call description is required", entities.ErrInvalidInput)
	}

	def := s.builder.Methodology(req.Methodology)
	promptText := s.builder.BuildCallPlanPrompt(req.Description, def.Key, req.ICP, req.Scripts)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	raw, err := s.generator.Generate(ctx, promptText, MaxTokens)
	if err != nil {
		return nil, aiuc.UpstreamError(err)
	}

	plan, err := s.parser.ParseCallPlan(raw)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Call plan response rejected", zap.String("methodology", def.Key), zap.Error(err))
		}
		return nil, err
	}
	plan.Methodology = def.Key
	return plan, nil
}
