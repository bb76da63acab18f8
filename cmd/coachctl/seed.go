package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"

	"github.com/johnquangdev/sales-coach/internal/adapter/repository"
	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	pkgjwt "github.com/johnquangdev/sales-coach/pkg/jwt"
)

var (
	seedAccountName string
	seedAPIKey      string
	seedMethodology string
	seedDays        int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo account with members and bearer tokens",
	Long: `Create (or refresh) a demo account with one manager and three reps,
a trailing window of daily activity, one active goal per rep and optional
Fireflies settings. Prints an access token for every member.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedAccountName, "account", "Demo Sales Team", "Account name")
	seedCmd.Flags().StringVar(&seedAPIKey, "fireflies-key", "", "Fireflies API key to store for the account")
	seedCmd.Flags().StringVar(&seedMethodology, "methodology", "sandler", "Methodology used for synced calls")
	seedCmd.Flags().IntVar(&seedDays, "days", 30, "Days of activity to generate")
}

type seedMember struct {
	email string
	name  string
	role  entities.MemberRole
	// base daily activity; each day adds a small offset
	calls, emails, meetings int
	score                   float64
}

var seedMembers = []seedMember{
	{email: "maya.manager@test.local", name: "Maya", role: entities.MemberRoleManager},
	{email: "ravi.rep@test.local", name: "Ravi", role: entities.MemberRoleRep, calls: 8, emails: 20, meetings: 1, score: 55},
	{email: "june.rep@test.local", name: "June", role: entities.MemberRoleRep, calls: 14, emails: 35, meetings: 3, score: 72},
	{email: "omar.rep@test.local", name: "Omar", role: entities.MemberRoleRep, calls: 11, emails: 28, meetings: 2, score: 64},
}

// seedID derives stable ids so repeated seeds update rather than duplicate
func seedID(parts ...string) uuid.UUID {
	name := "salescoach-seed"
	for _, p := range parts {
		name += "/" + p
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
}

func runSeed(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	accounts := repository.NewAccountRepository(e.db)
	activity := repository.NewActivityRepository(e.db)
	jwtManager := pkgjwt.NewManager(e.cfg.JWT.AccessSecret, e.cfg.JWT.AccessExpiry, e.cfg.JWT.Issuer)

	account := &entities.Account{ID: seedID(seedAccountName), Name: seedAccountName}
	members := make([]*entities.AccountMember, 0, len(seedMembers))
	for _, m := range seedMembers {
		members = append(members, &entities.AccountMember{
			AccountID:   account.ID,
			UserID:      seedID(seedAccountName, m.email),
			Email:       m.email,
			DisplayName: m.name,
			Role:        m.role,
		})
	}
	if err := accounts.UpsertAccount(ctx, account, members); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}

	if seedAPIKey != "" {
		if err := accounts.SaveFirefliesSettings(ctx, &entities.FirefliesSettings{
			AccountID:   account.ID,
			APIKey:      seedAPIKey,
			Methodology: seedMethodology,
		}); err != nil {
			return fmt.Errorf("save fireflies settings: %w", err)
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	var rows []*entities.DailyActivity
	for i, m := range seedMembers {
		if m.role != entities.MemberRoleRep {
			continue
		}
		userID := members[i].UserID
		for d := 0; d < seedDays; d++ {
			day := today.AddDate(0, 0, -d)
			rows = append(rows, &entities.DailyActivity{
				ID:               seedID(seedAccountName, m.email, day.Format("2006-01-02")),
				AccountID:        account.ID,
				UserID:           userID,
				Date:             datatypes.Date(day),
				CallsMade:        m.calls + d%3,
				EmailsSent:       m.emails + d%5,
				MeetingsBooked:   m.meetings + d%2,
				MethodologyScore: m.score + float64(d%4),
			})
		}
		if err := activity.CreateGoal(ctx, &entities.Goal{
			ID:          seedID(seedAccountName, m.email, "goal"),
			UserID:      userID,
			GoalType:    "meetings_booked_weekly",
			TargetValue: float64(m.meetings*5 + 5),
			Status:      "active",
		}); err != nil {
			return fmt.Errorf("create goal for %s: %w", m.email, err)
		}
	}
	if err := activity.RecordActivity(ctx, rows); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🏢 Account: %s (%s)\n", account.Name, account.ID)
	for _, m := range members {
		token, err := jwtManager.GenerateAccessToken(m.UserID, m.Email)
		if err != nil {
			return fmt.Errorf("token for %s: %w", m.Email, err)
		}
		fmt.Fprintf(out, "═══════════════════════════════════════════════════════════════\n")
		fmt.Fprintf(out, "%s (%s)\n", m.DisplayName, m.Role)
		fmt.Fprintf(out, "User ID:  %s\n", m.UserID)
		fmt.Fprintf(out, "Email:    %s\n", m.Email)
		fmt.Fprintf(out, "Token:    %s\n", token)
	}
	fmt.Fprintf(out, "\n💡 Tokens expire after %v. Send them as: Authorization: Bearer <token>\n", e.cfg.JWT.AccessExpiry)
	return nil
}
