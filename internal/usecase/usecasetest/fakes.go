// Package usecasetest holds in-memory implementations of the repository
// interfaces for use-case tests.
package usecasetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// AnalysisRepo is an in-memory AnalysisRepository keyed like the unique index
type AnalysisRepo struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]*entities.ConversationAnalysis
	records  map[string]*entities.SyncRecord

	// SaveErr, when set, is returned by SaveWithSyncRecord before any write
	SaveErr error
	// ListCalls counts ListSyncedExternalIDs invocations
	ListCalls int
}

// NewAnalysisRepo creates an empty repository
func NewAnalysisRepo() *AnalysisRepo {
	return &AnalysisRepo{
		analyses: make(map[uuid.UUID]*entities.ConversationAnalysis),
		records:  make(map[string]*entities.SyncRecord),
	}
}

func recordKey(accountID uuid.UUID, externalID string) string {
	return accountID.String() + "|" + externalID
}

// Seed marks an external id as synced without an analysis
func (r *AnalysisRepo) Seed(accountID uuid.UUID, externalID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[recordKey(accountID, externalID)] = &entities.SyncRecord{
		ID: uuid.New(), AccountID: accountID, ExternalID: externalID, Source: entities.SourceFireflies,
	}
}

func (r *AnalysisRepo) ListSyncedExternalIDs(ctx context.Context, accountID uuid.UUID) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ListCalls++
	out := make(map[string]struct{})
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			out[rec.ExternalID] = struct{}{}
		}
	}
	return out, nil
}

func (r *AnalysisRepo) IsSynced(ctx context.Context, accountID uuid.UUID, externalID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[recordKey(accountID, externalID)]
	return ok, nil
}

func (r *AnalysisRepo) SaveWithSyncRecord(ctx context.Context, analysis *entities.ConversationAnalysis, record *entities.SyncRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	key := recordKey(record.AccountID, record.ExternalID)
	if _, ok := r.records[key]; ok {
		return fmt.Errorf("%w: %s", entities.ErrAlreadySynced, record.ExternalID)
	}
	r.analyses[analysis.ID] = analysis
	r.records[key] = record
	return nil
}

func (r *AnalysisRepo) GetByID(ctx context.Context, accountID, id uuid.UUID) (*entities.ConversationAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.analyses[id]
	if !ok || a.AccountID != accountID {
		return nil, nil
	}
	return a, nil
}

func (r *AnalysisRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*entities.ConversationAnalysis, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entities.ConversationAnalysis
	for _, a := range r.analyses {
		if a.AccountID == accountID {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []*entities.ConversationAnalysis{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// Records returns the number of stored sync records
func (r *AnalysisRepo) Records() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Analyses returns the number of stored analyses
func (r *AnalysisRepo) Analyses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.analyses)
}

// AccountRepo is an in-memory AccountRepository
type AccountRepo struct {
	mu        sync.Mutex
	Members   map[uuid.UUID]*entities.AccountMember
	Settings  map[uuid.UUID]*entities.FirefliesSettings
	LastSyncs map[uuid.UUID]time.Time
}

// NewAccountRepo creates an empty repository
func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		Members:   make(map[uuid.UUID]*entities.AccountMember),
		Settings:  make(map[uuid.UUID]*entities.FirefliesSettings),
		LastSyncs: make(map[uuid.UUID]time.Time),
	}
}

// AddMember registers a member and returns it
func (r *AccountRepo) AddMember(accountID uuid.UUID, email, name string, role entities.MemberRole) *entities.AccountMember {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := &entities.AccountMember{AccountID: accountID, UserID: uuid.New(), Email: email, DisplayName: name, Role: role}
	r.Members[m.UserID] = m
	return m
}

// Configure stores Fireflies settings for an account
func (r *AccountRepo) Configure(s *entities.FirefliesSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Settings[s.AccountID] = s
}

func (r *AccountRepo) GetMember(ctx context.Context, userID uuid.UUID) (*entities.AccountMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Members[userID], nil
}

func (r *AccountRepo) FindAccountByEmails(ctx context.Context, emails []string) (*uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range emails {
		for _, m := range r.Members {
			if strings.EqualFold(m.Email, e) {
				id := m.AccountID
				return &id, nil
			}
		}
	}
	return nil, nil
}

func (r *AccountRepo) GetFirefliesSettings(ctx context.Context, accountID uuid.UUID) (*entities.FirefliesSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Settings[accountID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *AccountRepo) ListConfiguredAccounts(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for id, s := range r.Settings {
		if s.Configured() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (r *AccountRepo) TouchLastSync(ctx context.Context, accountID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastSyncs[accountID] = at
	return nil
}

// ActivityRepo is an in-memory ActivityRepository over raw daily rows
type ActivityRepo struct {
	mu    sync.Mutex
	Rows  []entities.DailyActivity
	Goals []*entities.Goal
}

func (r *ActivityRepo) average(match func(entities.DailyActivity) bool, since time.Time) entities.ActivityAverages {
	var days, calls, emails, meetings int
	var methodology float64
	for _, row := range r.Rows {
		if !match(row) || time.Time(row.Date).Before(since) {
			continue
		}
		days++
		calls += row.CallsMade
		emails += row.EmailsSent
		meetings += row.MeetingsBooked
		methodology += row.MethodologyScore
	}
	if days == 0 {
		return entities.ActivityAverages{}
	}
	round := func(sum float64) int { return int(sum/float64(days) + 0.5) }
	return entities.ActivityAverages{
		Days:        days,
		Calls:       round(float64(calls)),
		Emails:      round(float64(emails)),
		Meetings:    round(float64(meetings)),
		Methodology: round(methodology),
	}
}

func (r *ActivityRepo) MemberAverages(ctx context.Context, userID uuid.UUID, since time.Time) (entities.ActivityAverages, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.average(func(a entities.DailyActivity) bool { return a.UserID == userID }, since), nil
}

func (r *ActivityRepo) CohortAverages(ctx context.Context, accountID uuid.UUID, since time.Time) (entities.ActivityAverages, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.average(func(a entities.DailyActivity) bool { return a.AccountID == accountID }, since), nil
}

func (r *ActivityRepo) ActiveGoals(ctx context.Context, userID uuid.UUID) ([]*entities.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Goal
	for _, g := range r.Goals {
		if g.UserID == userID && g.Status == entities.GoalStatusActive {
			out = append(out, g)
		}
	}
	return out, nil
}

// CoachingRepo is an append-only in-memory CoachingRepository
type CoachingRepo struct {
	mu   sync.Mutex
	Rows []*entities.CoachingSummary
}

func (r *CoachingRepo) Append(ctx context.Context, s *entities.CoachingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows = append(r.Rows, s)
	return nil
}

func (r *CoachingRepo) ListHistory(ctx context.Context, managerID, teamMemberID uuid.UUID, limit int) ([]*entities.CoachingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.CoachingSummary
	for i := len(r.Rows) - 1; i >= 0; i-- {
		s := r.Rows[i]
		if s.ManagerID == managerID && s.TeamMemberID == teamMemberID {
			out = append(out, s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Publisher records published events
type Publisher struct {
	mu     sync.Mutex
	Events []string
	Err    error
}

func (p *Publisher) Publish(ctx context.Context, event string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return p.Err
}

// Generator returns scripted responses and records prompts
type Generator struct {
	mu      sync.Mutex
	Respond func(prompt string) (string, error)
	Prompts []string
	Budgets []int
}

func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	g.mu.Lock()
	g.Prompts = append(g.Prompts, prompt)
	g.Budgets = append(g.Budgets, maxTokens)
	respond := g.Respond
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return respond(prompt)
}

// Calls returns the number of Generate invocations
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}

// SandlerResponse is a valid analysis reply for the sandler methodology
const SandlerResponse = `Here is my analysis:
{"overall_score": 7.5, "upfront_contract_score": 6, "bonding_rapport_score": 9,
 "pain_funnel_score": 8, "budget_discussion_score": 5, "decision_process_score": 7,
 "talk_ratio_score": 6, "talk_percentage": 42, "question_count": 11,
 "pain_identified": true, "budget_discussed": true,
 "what_went_well": ["Strong rapport"], "areas_to_improve": ["Set an agenda"],
 "omissions": [], "recommendations": ["Confirm next steps"]}`

// MeddicResponse is a valid analysis reply for the meddic methodology
const MeddicResponse = `{"overall_score": 6, "metrics_score": 5, "economic_buyer_score": 4,
 "decision_criteria_score": 6, "decision_process_score": 7, "identify_pain_score": 8,
 "champion_score": 5}`
