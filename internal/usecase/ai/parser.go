package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/domain/methodology"
)

const (
	maxScore          = 10.0
	maxTalkPercentage = 100.0
)

// Parser turns free-text model output into validated records
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// AnalysisResult is a validated call analysis as returned by the model
type AnalysisResult struct {
	OverallScore    float64
	Scores          map[string]float64
	TalkPercentage  *float64
	QuestionCount   int
	Flags           entities.AnalysisFlags
	WhatWentWell    []string
	AreasToImprove  []string
	Omissions       []string
	Recommendations []string
	Raw             json.RawMessage
}

// CoachingResult is a validated coaching response
type CoachingResult struct {
	PerformanceSummary string
	Strengths          []string
	AreasOfImprovement []string
	Omissions          []string
	Recommendations    []string
	SuggestedGoals     []string
	FullMessage        string
	Raw                json.RawMessage
}

// ParseAnalysis extracts the first JSON object from raw and validates it
// against the methodology's dimension set.
func (p *Parser) ParseAnalysis(raw string, def methodology.Definition) (*AnalysisResult, error) {
	obj, body, err := locateObject(raw)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Scores: make(map[string]float64, len(def.Dimensions)),
		Raw:    body,
	}

	if result.OverallScore, err = requiredNumber(obj, "overall_score", maxScore); err != nil {
		return nil, err
	}
	for _, key := range def.DimensionKeys() {
		v, err := requiredNumber(obj, key, maxScore)
		if err != nil {
			return nil, err
		}
		result.Scores[key] = v
	}

	if result.TalkPercentage, err = optionalNumber(obj, "talk_percentage", maxTalkPercentage); err != nil {
		return nil, err
	}
	questions, err := optionalNumber(obj, "question_count", math.MaxInt32)
	if err != nil {
		return nil, err
	}
	if questions != nil {
		result.QuestionCount = int(math.Round(*questions))
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"pain_identified", &result.Flags.PainIdentified},
		{"budget_discussed", &result.Flags.BudgetDiscussed},
		{"decision_makers_identified", &result.Flags.DecisionMakersIdentified},
		{"upfront_contract_set", &result.Flags.UpfrontContractSet},
		{"negative_reverse_used", &result.Flags.NegativeReverseUsed},
	}
	for _, f := range flags {
		if *f.dst, err = optionalBool(obj, f.key); err != nil {
			return nil, err
		}
	}

	lists := []struct {
		key string
		dst *[]string
	}{
		{"what_went_well", &result.WhatWentWell},
		{"areas_to_improve", &result.AreasToImprove},
		{"omissions", &result.Omissions},
		{"recommendations", &result.Recommendations},
	}
	for _, l := range lists {
		if *l.dst, err = stringList(obj, l.key); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// ParseCallPlan extracts and validates a call plan response
func (p *Parser) ParseCallPlan(raw string) (*entities.CallPlan, error) {
	obj, _, err := locateObject(raw)
	if err != nil {
		return nil, err
	}

	plan := &entities.CallPlan{}
	if plan.CallObjective, err = requiredString(obj, "call_objective"); err != nil {
		return nil, err
	}
	if _, ok := obj["agenda"]; !ok {
		return nil, fmt.Errorf("%w: missing agenda", entities.ErrSchemaViolation)
	}
	if plan.Agenda, err = stringList(obj, "agenda"); err != nil {
		return nil, err
	}
	if plan.CallTitle, err = optionalString(obj, "call_title"); err != nil {
		return nil, err
	}
	if plan.OpeningScript, err = optionalString(obj, "opening_script"); err != nil {
		return nil, err
	}
	if plan.ClosingStrategy, err = optionalString(obj, "closing_strategy"); err != nil {
		return nil, err
	}
	if plan.QuestionsToAsk, err = stringList(obj, "questions_to_ask"); err != nil {
		return nil, err
	}
	if plan.UnknownsToUncover, err = stringList(obj, "unknowns_to_uncover"); err != nil {
		return nil, err
	}

	plan.ObjectionPrep = []entities.ObjectionPrep{}
	if rawPrep, ok := obj["objection_prep"]; ok && !isNull(rawPrep) {
		if err := json.Unmarshal(rawPrep, &plan.ObjectionPrep); err != nil {
			return nil, fmt.Errorf("%w: objection_prep: %v", entities.ErrSchemaViolation, err)
		}
		if plan.ObjectionPrep == nil {
			plan.ObjectionPrep = []entities.ObjectionPrep{}
		}
	}

	return plan, nil
}

// ParseCoaching extracts and validates a coaching response
func (p *Parser) ParseCoaching(raw string) (*CoachingResult, error) {
	obj, body, err := locateObject(raw)
	if err != nil {
		return nil, err
	}

	result := &CoachingResult{Raw: body}
	if result.PerformanceSummary, err = requiredString(obj, "performance_summary"); err != nil {
		return nil, err
	}
	if result.FullMessage, err = requiredString(obj, "full_message"); err != nil {
		return nil, err
	}

	lists := []struct {
		key string
		dst *[]string
	}{
		{"strengths", &result.Strengths},
		{"areas_of_improvement", &result.AreasOfImprovement},
		{"omissions", &result.Omissions},
		{"recommendations", &result.Recommendations},
		{"suggested_goals", &result.SuggestedGoals},
	}
	for _, l := range lists {
		if *l.dst, err = stringList(obj, l.key); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// locateObject finds the first top-level balanced {...} span in raw that
// decodes as a JSON object. Models wrap JSON in prose and markdown fences.
// Objects nested in a rejected or unterminated span are never candidates, so a
// reply cut off mid-object is malformed rather than a fragment of itself.
func locateObject(raw string) (map[string]json.RawMessage, json.RawMessage, error) {
	found := false
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		end := matchBrace(raw, start)
		if end < 0 {
			break
		}
		found = true
		candidate := raw[start : end+1]
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			return obj, json.RawMessage(candidate), nil
		}
		next := strings.IndexByte(raw[end+1:], '{')
		if next < 0 {
			break
		}
		start = end + 1 + next
	}
	if found {
		return nil, nil, fmt.Errorf("%w: no balanced object decodes as JSON", entities.ErrMalformedResponse)
	}
	return nil, nil, fmt.Errorf("%w: no complete JSON object found", entities.ErrMalformedResponse)
}

// matchBrace returns the index of the brace closing the one at start, or -1.
// Braces inside JSON strings are ignored.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func requiredNumber(obj map[string]json.RawMessage, key string, max float64) (float64, error) {
	v, err := optionalNumber(obj, key, max)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("%w: missing %s", entities.ErrSchemaViolation, key)
	}
	return *v, nil
}

func optionalNumber(obj map[string]json.RawMessage, key string, max float64) (*float64, error) {
	rawVal, ok := obj[key]
	if !ok || isNull(rawVal) {
		return nil, nil
	}
	var v float64
	if err := json.Unmarshal(rawVal, &v); err != nil {
		return nil, fmt.Errorf("%w: %s is not a number", entities.ErrSchemaViolation, key)
	}
	if v < 0 || v > max {
		return nil, fmt.Errorf("%w: %s=%g outside [0,%g]", entities.ErrSchemaViolation, key, v, max)
	}
	return &v, nil
}

func optionalBool(obj map[string]json.RawMessage, key string) (bool, error) {
	rawVal, ok := obj[key]
	if !ok || isNull(rawVal) {
		return false, nil
	}
	var v bool
	if err := json.Unmarshal(rawVal, &v); err != nil {
		return false, fmt.Errorf("%w: %s is not a boolean", entities.ErrSchemaViolation, key)
	}
	return v, nil
}

func requiredString(obj map[string]json.RawMessage, key string) (string, error) {
	v, err := optionalString(obj, key)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: missing %s", entities.ErrSchemaViolation, key)
	}
	return v, nil
}

func optionalString(obj map[string]json.RawMessage, key string) (string, error) {
	rawVal, ok := obj[key]
	if !ok || isNull(rawVal) {
		return "", nil
	}
	var v string
	if err := json.Unmarshal(rawVal, &v); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", entities.ErrSchemaViolation, key)
	}
	return v, nil
}

// stringList never returns nil: absent and null lists become empty
func stringList(obj map[string]json.RawMessage, key string) ([]string, error) {
	rawVal, ok := obj[key]
	if !ok || isNull(rawVal) {
		return []string{}, nil
	}
	var v []string
	if err := json.Unmarshal(rawVal, &v); err != nil {
		return nil, fmt.Errorf("%w: %s is not a list of strings", entities.ErrSchemaViolation, key)
	}
	if v == nil {
		v = []string{}
	}
	return v, nil
}
