package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/orchestration"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/infrastructure/config"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/infrastructure/reports"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/infrastructure/repositories/jsoninstance"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/infrastructure/store"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/interfaces/cli/output"
)

var (
	planOut     string
	planDay     string
	planRunID   string
	planArchive string
)

var planCmd = &cobra.Command{
	Use:   "plan <instance-dir> [instance-dir...]",
	Short: "Plan one or more delivery days from JSON instances",
	Long: `Plan reads each instance directory (items.json, customers.json,
orders.json, trucks.json, depots.json), runs the two-phase planner, and
writes the CSV reports next to a printed KPI summary. Multiple instance
directories are planned concurrently as independent days.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planOut, "out", "o", "reports", "output directory for CSV reports")
	planCmd.Flags().StringVar(&planDay, "day", "", "planning day as YYYY-MM-DD (defaults to today)")
	planCmd.Flags().StringVar(&planRunID, "run-id", "", "run id tag (generated when omitted)")
	planCmd.Flags().StringVar(&planArchive, "archive", "", "SQLite file to archive the run into (optional)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	opts, err := cfg.PlannerOptions()
	if err != nil {
		return err
	}
	opts.RunID = planRunID

	day := time.Now()
	if planDay != "" {
		day, err = time.Parse("2006-01-02", planDay)
		if err != nil {
			return fmt.Errorf("parse --day %q: %w", planDay, err)
		}
	}

	reqs := make([]orchestration.Request, 0, len(args))
	for _, dir := range args {
		inst, err := jsoninstance.LoadDir(dir, cfg.PerTruckCoolerM3)
		if err != nil {
			return err
		}
		reqs = append(reqs, orchestration.Request{
			Items:     inst.Items,
			Customers: inst.Customers,
			Orders:    inst.Orders,
			Depot:     inst.Depot,
			Day:       day,
		})
	}

	planner := orchestration.NewDayPlanner(logger)
	results, err := planner.PlanBatch(cmd.Context(), reqs, opts)
	if err != nil {
		return err
	}

	var archive *store.Store
	if planArchive != "" {
		archive, err = store.Open(planArchive)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	for i, result := range results {
		dir := planOut
		if len(results) > 1 {
			dir = filepath.Join(planOut, filepath.Base(args[i]))
		}
		written, err := reports.WriteAll(dir, result.Tracker, result.Summary)
		if err != nil {
			return err
		}
		logger.Info("reports written",
			zap.String("run_id", result.RunID),
			zap.String("dir", dir),
			zap.Int("files", len(written)),
		)

		if archive != nil {
			if err := archive.SaveRun(result.RunID, result.Day, result.Summary, result.Tracker.AssignmentRows()); err != nil {
				return err
			}
		}

		output.PrintDaySummary(os.Stdout, args[i], result)
	}
	return nil
}
