// Package prompt builds the model prompts for call analysis, call planning
// and coaching. Every function here is pure: same input, same string.
package prompt

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/domain/methodology"
)

const notProvided = "Not provided"

// Builder composes prompts against the methodology registry
type Builder struct {
	registry *methodology.Registry
}

// NewBuilder creates a prompt builder
func NewBuilder(registry *methodology.Registry) *Builder {
	return &Builder{registry: registry}
}

// Methodology resolves a key through the registry, applying the default fallback
func (b *Builder) Methodology(key string) methodology.Definition {
	return b.registry.Lookup(key)
}

// BuildAnalysisPrompt asks the model to score one transcript against a
// methodology and answer with a single JSON object.
func (b *Builder) BuildAnalysisPrompt(transcript string, callType entities.CallType, methodologyKey string, script *entities.ReferenceScript) string {
	def := b.registry.Lookup(methodologyKey)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert %s trainer analyzing a sales conversation.\n\n", def.Name)
	sb.WriteString("IMPORTANT: Be FACTUAL and EVIDENCE-BASED. Cite a verbatim quote from the transcript for every scored claim.\n\n")
	fmt.Fprintf(&sb, "Conversation Type: %s\n\n", callType)

	if !script.IsEmpty() {
		sb.WriteString("REFERENCE SCRIPT:\n")
		fmt.Fprintf(&sb, "Opening: %q\n", orNotProvided(script.Opening))
		fmt.Fprintf(&sb, "Value Prop: %q\n", orNotProvided(script.ValueProp))
		fmt.Fprintf(&sb, "CTA: %q\n", orNotProvided(script.CTA))
		if script.BusinessDescription != "" {
			fmt.Fprintf(&sb, "Business: %s\n", script.BusinessDescription)
		}
		sb.WriteString("Also judge how closely the rep followed this script and quote what they actually said.\n\n")
	}

	sb.WriteString("TRANSCRIPT:\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "ANALYZE using %s:\n%s\n\n", def.Name, def.Guidance)
	for i, dim := range def.Dimensions {
		fmt.Fprintf(&sb, "%d. %s (Score 1-10)\n", i+1, dim.Label)
		fmt.Fprintf(&sb, "   - %s\n", dim.Focus)
		sb.WriteString("   - Quote evidence: [exact quote]\n\n")
	}
	fmt.Fprintf(&sb, "%d. NEGATIVE REVERSE SELLING (Yes/No)\n", len(def.Dimensions)+1)
	sb.WriteString("   - Did they remove pressure? Quote evidence if used.\n\n")

	sb.WriteString("Return ONLY a single JSON object with exactly these keys:\n")
	sb.WriteString(analysisSchema(def))
	sb.WriteString("\nAll scores are numbers from 0 to 10. talk_percentage is the rep's share of talk time from 0 to 100.\n")
	sb.WriteString("ONLY include observations you can PROVE from the transcript.\n")
	return sb.String()
}

func analysisSchema(def methodology.Definition) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	sb.WriteString("  \"overall_score\": 7.5,\n")
	for _, key := range def.DimensionKeys() {
		fmt.Fprintf(&sb, "  %q: 6.0,\n", key)
	}
	sb.WriteString(`  "talk_percentage": 45,
  "question_count": 12,
  "pain_identified": true,
  "budget_discussed": false,
  "decision_makers_identified": true,
  "upfront_contract_set": false,
  "negative_reverse_used": true,
  "what_went_well": ["item1", "item2"],
  "areas_to_improve": ["item1", "item2"],
  "omissions": ["item1"],
  "recommendations": ["item1", "item2"]
}
`)
	return sb.String()
}

// BuildCallPlanPrompt asks for a pre-call plan. icp and scripts are optional.
func (b *Builder) BuildCallPlanPrompt(description, methodologyKey string, icp *entities.IdealCustomerProfile, scripts *entities.ReferenceScript) string {
	def := b.registry.Lookup(methodologyKey)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert sales coach. Create a detailed, actionable call plan based on %s.\n\n", def.Name)
	sb.WriteString("Make the plan specific to this call. Vary phrasing and avoid templated language.\n\n")

	if icp != nil {
		sb.WriteString("ICP CONTEXT (Target Customer Profile):\n")
		fmt.Fprintf(&sb, "Industry: %s\n", orNotSpecified(icp.Industry))
		fmt.Fprintf(&sb, "Company Size: %s\n", orNotSpecified(icp.CompanySize))
		fmt.Fprintf(&sb, "Pain Points: %s\n", orNotSpecified(icp.PainPoints))
		fmt.Fprintf(&sb, "Budget Range: %s\n\n", orNotSpecified(icp.Budget))
	}

	if scripts != nil {
		sb.WriteString("REFERENCE SCRIPTS (User's Custom Scripts):\n")
		fmt.Fprintf(&sb, "Opening: %q\n", orNotProvided(scripts.Opening))
		fmt.Fprintf(&sb, "Value Prop: %q\n", orNotProvided(scripts.ValueProp))
		fmt.Fprintf(&sb, "CTA: %q\n", orNotProvided(scripts.CTA))
		fmt.Fprintf(&sb, "Business: %s\n\n", orNotProvided(scripts.BusinessDescription))
	}

	sb.WriteString("CALL SITUATION:\n")
	sb.WriteString(description)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "CREATE A CALL PLAN USING %s:\n\n%s\n\n", strings.ToUpper(def.Name), def.PlanningGuidance)

	sb.WriteString("Return ONLY a single JSON object in this exact format:\n")
	fmt.Fprintf(&sb, `{
  "call_title": "Discovery Call with [Company Name]",
  "call_objective": "One sentence describing what you want to achieve",
  "agenda": ["Opening (30 sec) - ...", "Discovery (8 min) - ...", "Close (1 min) - ..."],
  "opening_script": "Exact words to use when opening the call",
  "questions_to_ask": ["%[1]s-specific question 1", "%[1]s-specific question 2", "%[1]s-specific question 3"],
  "unknowns_to_uncover": ["Decision makers: Who else is involved?", "Budget: What's the investment range?", "Timeline: When do they need this solved?"],
  "objection_prep": [{"objection": "Most likely objection", "response": "Specific %[1]s-based response"}],
  "closing_strategy": "Exactly how to close the call and get commitment to next steps"
}
`, def.Name)
	sb.WriteString("\nReference their actual situation. Make it feel TAILORED, not generic.\n")
	return sb.String()
}

// BuildCoachingPrompt asks for a personalised coaching message comparing a
// member's averages to the cohort.
func BuildCoachingPrompt(name string, member, team entities.ActivityAverages, goals []*entities.Goal) string {
	var sb strings.Builder
	sb.WriteString("You are an expert sales coach providing personalized feedback to a team member.\n\n")
	fmt.Fprintf(&sb, "TEAM MEMBER: %s\n\n", name)

	sb.WriteString("THEIR 30-DAY AVERAGES:\n")
	writeAverages(&sb, member)
	sb.WriteString("\nTEAM AVERAGES (for comparison):\n")
	writeAverages(&sb, team)

	sb.WriteString("\nCURRENT GOALS:\n")
	if len(goals) == 0 {
		sb.WriteString("No active goals set\n")
	}
	for _, g := range goals {
		fmt.Fprintf(&sb, "- %s: %s\n", g.GoalType, formatNumber(g.TargetValue))
	}

	sb.WriteString(`
TASK: Generate personalized coaching feedback that:
1. Compares their performance vs team average
2. Identifies what they're doing well
3. Identifies areas for improvement
4. Identifies critical omissions (things they're NOT doing at all or severely under-performing)
5. Provides specific, actionable recommendations
6. Suggests 2-3 SMART goals to work on

Write like a real coach: specific, honest, encouraging, using their actual numbers.

Return ONLY a single JSON object in this format:
{
  "performance_summary": "2-3 sentence summary comparing to team average",
  "strengths": ["Specific strength 1", "Specific strength 2"],
  "areas_of_improvement": ["Specific area 1 with actual numbers", "Specific area 2"],
  "omissions": ["Critical thing they're not doing"],
  "recommendations": ["Specific action 1", "Specific action 2", "Specific action 3"],
  "suggested_goals": ["SMART goal 1", "SMART goal 2"],
`)
	fmt.Fprintf(&sb, "  \"full_message\": \"Complete coaching message to %s, written in first person as their manager, warm and encouraging, 3-4 paragraphs\"\n}\n", name)
	return sb.String()
}

func writeAverages(sb *strings.Builder, avg entities.ActivityAverages) {
	fmt.Fprintf(sb, "- Daily Calls: %d\n", avg.Calls)
	fmt.Fprintf(sb, "- Daily Emails: %d\n", avg.Emails)
	fmt.Fprintf(sb, "- Daily Meetings: %d\n", avg.Meetings)
	fmt.Fprintf(sb, "- Methodology Execution Score: %d/100\n", avg.Methodology)
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
