package callplan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/domain/methodology"
	"github.com/johnquangdev/sales-coach/internal/usecase/prompt"
	"github.com/johnquangdev/sales-coach/internal/usecase/usecasetest"
)

const planReply = "```json\n" + `{"call_title": "Discovery Call with Acme", "call_objective": "Qualify the reporting pain",
 "agenda": ["Opening (30 sec)", "Discovery (8 min)", "Close (1 min)"],
 "opening_script": "Thanks for making time, Dana.",
 "questions_to_ask": ["Who signs off on tooling spend?"],
 "objection_prep": [{"objection": "We already use spreadsheets", "response": "What does that cost you each month?"}],
 "closing_strategy": "Book a 30 minute demo with the CFO"}` + "\n```"

func newService(gen *usecasetest.Generator) Service {
	return NewService(prompt.NewBuilder(methodology.MustNewRegistry("")), gen, time.Second, nil)
}

func TestPlanCall(t *testing.T) {
	gen := &usecasetest.Generator{Respond: func(string) (string, error) { return planReply, nil }}

	plan, err := newService(gen).PlanCall(context.Background(), Request{
		Description: "First call with Acme's ops lead about month-end reporting",
		ICP:         &entities.IdealCustomerProfile{Industry: "Logistics"},
	})
	require.NoError(t, err)

	assert.Equal(t, "meddic", plan.Methodology)
	assert.Equal(t, "Qualify the reporting pain", plan.CallObjective)
	assert.Len(t, plan.Agenda, 3)
	assert.Equal(t, "What does that cost you each month?", plan.ObjectionPrep[0].Response)
	assert.NotNil(t, plan.UnknownsToUncover)

	require.Len(t, gen.Prompts, 1)
	assert.Equal(t, []int{MaxTokens}, gen.Budgets)
	assert.Contains(t, gen.Prompts[0], "Industry: Logistics")
	assert.Contains(t, gen.Prompts[0], "month-end reporting")
}

func TestPlanCall_Methodology(t *testing.T) {
	gen := &usecasetest.Generator{Respond: func(string) (string, error) { return planReply, nil }}
	svc := newService(gen)

	plan, err := svc.PlanCall(context.Background(), Request{Description: "x", Methodology: "SPIN"})
	require.NoError(t, err)
	assert.Equal(t, "spin", plan.Methodology)

	plan, err = svc.PlanCall(context.Background(), Request{Description: "x", Methodology: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, "meddic", plan.Methodology)
}

func TestPlanCall_Errors(t *testing.T) {
	gen := &usecasetest.Generator{Respond: func(string) (string, error) { return planReply, nil }}
	_, err := newService(gen).PlanCall(context.Background(), Request{Description: "   "})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	assert.Zero(t, gen.Calls())

	gen.Respond = func(string) (string, error) { return "", errors.New("503") }
	_, err = newService(gen).PlanCall(context.Background(), Request{Description: "x"})
	assert.ErrorIs(t, err, entities.ErrUpstream)

	gen.Respond = func(string) (string, error) { return `{"call_title": "only a title"}`, nil }
	_, err = newService(gen).PlanCall(context.Background(), Request{Description: "x"})
	assert.ErrorIs(t, err, entities.ErrSchemaViolation)
}
