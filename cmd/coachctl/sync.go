package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/sales-coach/internal/adapter/repository"
	"github.com/johnquangdev/sales-coach/internal/domain/methodology"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/external/fireflies"
	"github.com/johnquangdev/sales-coach/internal/usecase/analysis"
	"github.com/johnquangdev/sales-coach/internal/usecase/ingest"
	"github.com/johnquangdev/sales-coach/internal/usecase/prompt"
	"github.com/johnquangdev/sales-coach/internal/usecase/scheduler"
	pkgai "github.com/johnquangdev/sales-coach/pkg/ai"
)

var (
	syncAccount  string
	outputFormat string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull and analyze Fireflies transcripts now",
	Long: `Run the Fireflies pull sync once. With --account only that account is
synced and its summary printed; otherwise every account with a stored API
key is synced the same way the scheduler does it.`,
	RunE: runSync,
}

var testConnectionCmd = &cobra.Command{
	Use:   "test-connection <account-id>",
	Short: "Check an account's Fireflies API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runTestConnection,
}

func init() {
	syncCmd.Flags().StringVar(&syncAccount, "account", "", "Sync a single account (UUID)")
	syncCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or yaml")
	testConnectionCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or yaml")
}

func runSync(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := newIngestService(ctx, e, true)
	if err != nil {
		return err
	}

	if syncAccount != "" {
		accountID, err := uuid.Parse(syncAccount)
		if err != nil {
			return fmt.Errorf("--account: %w", err)
		}
		summary, err := svc.SyncAccount(ctx, accountID)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), summary)
	}

	accounts := repository.NewAccountRepository(e.db)
	report, err := scheduler.NewScheduler(accounts, svc, 0, e.cfg.Sync.Concurrency, timeout, e.logger).RunOnce(ctx)
	if err != nil {
		return err
	}
	if err := printResult(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d accounts failed", report.Failed, report.Accounts)
	}
	return nil
}

func runTestConnection(cmd *cobra.Command, args []string) error {
	accountID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("account id: %w", err)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := newIngestService(ctx, e, false)
	if err != nil {
		return err
	}
	info, err := svc.TestConnection(ctx, accountID)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), info)
}

// newIngestService wires the ingestion pipeline. Without a model only
// connection checks are usable.
func newIngestService(ctx context.Context, e *env, withModel bool) (ingest.Service, error) {
	accounts := repository.NewAccountRepository(e.db)
	analyses := repository.NewAnalysisRepository(e.db)

	var orchestrator analysis.Orchestrator
	if withModel {
		generator, err := pkgai.NewGenerator(ctx, e.cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("init generator: %w", err)
		}
		registry, err := methodology.NewRegistry("")
		if err != nil {
			return nil, fmt.Errorf("load methodology catalog: %w", err)
		}
		orchestrator = analysis.NewOrchestrator(prompt.NewBuilder(registry), generator, analyses, analysis.Options{
			Timeout: e.cfg.LLM.Timeout,
			Logger:  e.logger,
		})
	}

	return ingest.NewService(
		accounts,
		analyses,
		fireflies.NewClient(e.cfg.Fireflies.BaseURL, e.cfg.Fireflies.Timeout),
		orchestrator,
		ingest.Options{
			LookbackDays:       e.cfg.Fireflies.LookbackDays,
			FetchLimit:         e.cfg.Fireflies.FetchLimit,
			DefaultMethodology: e.cfg.Webhook.DefaultMethodology,
			Logger:             e.logger,
		},
	), nil
}

func printResult(w io.Writer, v interface{}) error {
	switch outputFormat {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}
