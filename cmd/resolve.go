// -- cmd/resolve.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/voltride/crew-cli/api/schemas"
	"github.com/voltride/crew-cli/internal/analysis"
	"github.com/voltride/crew-cli/internal/config"
	"github.com/voltride/crew-cli/internal/crew"
	"github.com/voltride/crew-cli/internal/llmclient"
	"github.com/voltride/crew-cli/internal/notify"
	"github.com/voltride/crew-cli/internal/observability"
	"github.com/voltride/crew-cli/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	resolveFile        string
	resolveID          string
	resolveDir         string
	resolveConcurrency int
	resolveDryRun      bool
	resolveTimeout     time.Duration
	resolveShowTrace   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run one or more complaints through the resolution workflow",
	Long: `Resolve drives complaints through triage, the routed specialist, and
conditional management escalation, then prints the resolution summary.

Complaints come from a JSON file (--file), from the complaint store by id
(--id), or from every *.json file in a directory (--dir). With --dry-run the
canned advisor and a log-only notifier are used, so no external service is
contacted.`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVarP(&resolveFile, "file", "f", "", "JSON file containing one complaint")
	resolveCmd.Flags().StringVar(&resolveID, "id", "", "resolve the complaint with this id from the store")
	resolveCmd.Flags().StringVarP(&resolveDir, "dir", "d", "", "resolve every *.json complaint in this directory")
	resolveCmd.Flags().IntVar(&resolveConcurrency, "concurrency", 0, "max concurrent complaint runs (default from config)")
	resolveCmd.Flags().BoolVar(&resolveDryRun, "dry-run", false, "use the canned advisor and log-only notifier")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 0, "overall deadline for the run (default from config)")
	resolveCmd.Flags().BoolVar(&resolveShowTrace, "show-trace", false, "print the workflow trace after each summary")
}

func runResolve(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()

	ctx := cmd.Context()
	timeout := resolveTimeout
	if timeout == 0 {
		timeout = cfg.Workflow.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	selected := 0
	for _, set := range []bool{resolveFile != "", resolveID != "", resolveDir != ""} {
		if set {
			selected++
		}
	}
	if selected != 1 {
		return fmt.Errorf("exactly one of --file, --id, or --dir is required")
	}

	// -- Collaborators --
	mem := store.NewMemory()
	usingMemory := true
	var complaintStore schemas.ComplaintStore = mem
	if !resolveDryRun && cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to complaint store: %w", err)
		}
		defer pool.Close()
		pg, err := store.New(ctx, pool, logger)
		if err != nil {
			return err
		}
		complaintStore = pg
		usingMemory = false
	}

	var notifier schemas.Notifier = notify.NewLogNotifier(logger)
	if !resolveDryRun && len(cfg.Notifier.Kafka.Brokers) > 0 {
		n, err := notify.New(cfg.Notifier, logger)
		if err != nil {
			return err
		}
		defer n.Close()
		notifier = n
	}

	advisoryCfg := cfg.Advisory
	if resolveDryRun {
		advisoryCfg.Provider = config.ProviderStatic
	}
	advisor, err := llmclient.NewAdvisor(advisoryCfg, logger)
	if err != nil {
		return err
	}

	orch, err := crew.New(complaintStore, analysis.New(logger), advisor, notifier, logger)
	if err != nil {
		return err
	}

	// -- Load complaints --
	complaints, err := loadComplaints(ctx, complaintStore)
	if err != nil {
		return err
	}
	if usingMemory {
		for _, c := range complaints {
			mem.Put(c)
		}
	}

	// -- Run. Each complaint is an independent pipeline instance; only the
	// collaborators are shared, and they are safe for concurrent use. --
	concurrency := resolveConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Workflow.BatchConcurrency
	}
	results := make([]*schemas.Resolution, len(complaints))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, c := range complaints {
		i, c := i, c
		g.Go(func() error {
			results[i] = orch.ProcessComplaint(gctx, c)
			return nil
		})
	}
	// ProcessComplaint never fails, so the only error here is a cancelled
	// context surfacing through gctx.
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, res.ResolutionText)
		if resolveShowTrace {
			fmt.Fprintln(out, "\nTrace:")
			for _, step := range res.Trace {
				fmt.Fprintf(out, "  %-20s %-10s %6dms  %s\n", step.StageName, step.Status, step.DurationMs, step.Action)
			}
		}
	}
	logger.Info("Resolution run finished", zap.Int("complaints", len(complaints)))
	return nil
}

// loadComplaints materializes the complaint set selected by the flags.
func loadComplaints(ctx context.Context, s schemas.ComplaintStore) ([]*schemas.Complaint, error) {
	switch {
	case resolveID != "":
		c, err := s.Get(ctx, resolveID)
		if err != nil {
			return nil, fmt.Errorf("failed to load complaint %s: %w", resolveID, err)
		}
		return []*schemas.Complaint{c}, nil

	case resolveFile != "":
		c, err := readComplaintFile(resolveFile)
		if err != nil {
			return nil, err
		}
		return []*schemas.Complaint{c}, nil

	default:
		entries, err := os.ReadDir(resolveDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read complaint directory: %w", err)
		}
		var complaints []*schemas.Complaint
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
				continue
			}
			c, err := readComplaintFile(filepath.Join(resolveDir, e.Name()))
			if err != nil {
				return nil, err
			}
			complaints = append(complaints, c)
		}
		if len(complaints) == 0 {
			return nil, fmt.Errorf("no *.json complaints found in %s", resolveDir)
		}
		sort.Slice(complaints, func(i, j int) bool { return complaints[i].ID < complaints[j].ID })
		return complaints, nil
	}
}

func readComplaintFile(path string) (*schemas.Complaint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read complaint file: %w", err)
	}
	var c schemas.Complaint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse complaint file %s: %w", path, err)
	}
	if c.Status == "" {
		c.Status = schemas.StatusOpen
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid complaint in %s: %w", path, err)
	}
	return &c, nil
}
