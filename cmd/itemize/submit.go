package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/engine"
	"github.com/Veraticus/hotel-itemizer/internal/service"
	"github.com/Veraticus/hotel-itemizer/internal/storage"
)

var errAlreadySubmitted = errors.New("run was already submitted")

func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <run-id>",
		Short: "Submit the entries of a saved, finalized run",
		Long: `Hand the entries of a finalized run to the configured driver
(driver.kind: log or amqp). Every entry is attempted; the per-entry result
is stored with the run.`,
		Args: cobra.ExactArgs(1),
		RunE: runSubmit,
	}

	cmd.Flags().Bool("force", false, "submit again even if the run was already submitted")
	return cmd
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store)

	run, out, err := loadOutcome(ctx, store, args[0])
	if err != nil {
		return err
	}
	if run.SubmittedAt != nil && !force {
		return common.NewUserError(
			fmt.Sprintf("run %s was submitted on %s; use --force to submit again", run.ID, run.SubmittedAt.Format("2006-01-02 15:04")),
			errAlreadySubmitted)
	}

	eng, err := newEngine(cmd, nil)
	if err != nil {
		return err
	}

	sub, closeDriver, err := newSubmitter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeDriver()

	return submitOutcome(cmd, store, eng, out, sub)
}

// submitOutcome submits a finalized outcome and records the report when
// the outcome belongs to a saved run.
func submitOutcome(cmd *cobra.Command, store *storage.SQLiteStorage, eng *engine.Engine, out *engine.Outcome, sub service.EntrySubmitter) error {
	ctx := cmd.Context()

	report, err := eng.Submit(ctx, out, sub)
	if errors.Is(err, engine.ErrNotFinalized) {
		return err
	}

	if store != nil && out.RunID != "" && len(report.Results) > 0 {
		if recordErr := store.RecordSubmission(ctx, out.RunID, report); recordErr != nil {
			common.LogError(recordErr, "failed to record submission", common.Fields{"run_id": out.RunID})
		}
	}
	if err != nil {
		return fmt.Errorf("submission interrupted: %w", err)
	}

	printSubmission(cmd, report.Submitted, report.Failed, report.Driver)
	if !report.AllSucceeded() {
		return fmt.Errorf("%d of %d entries failed", report.Failed, len(report.Results))
	}
	return nil
}
