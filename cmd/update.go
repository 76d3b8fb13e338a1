package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"content-manager/core/content"
	"content-manager/feature/update"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var updateRequest update.Request

// updateCmd reconciles the database with the repository.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the database from the repository changes",
	Long: `Update the documents changed between two revisions, in one transaction.

Without --since, the changes are read from the last synchronized revision
(or from the beginning of the history on the first run).

Examples:
  # Changes since the last update
  content-manager update

  # Preview only
  content-manager update --dry-run

  # Rebuild from the whole history
  content-manager update --all`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateRequest.Since, "since", "", "Revision already in the database")
	updateCmd.Flags().StringVar(&updateRequest.Until, "until", "HEAD", "Revision to update to")
	updateCmd.Flags().BoolVar(&updateRequest.All, "all", false, "Update from the empty tree")
	updateCmd.Flags().BoolVar(&updateRequest.DryRun, "dry-run", false, "Show the plan without running it")

	RootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	resp, err := env.service.Update(ctx, updateRequest)
	printUpdate(cmd.OutOrStdout(), resp)
	if err != nil {
		return err
	}

	if resp.Committed {
		env.logger.Info("Update committed",
			zap.String("since", resp.Since),
			zap.String("until", resp.Until),
			zap.Int("items", resp.Summary.Added+resp.Summary.Modified+resp.Summary.Renamed+resp.Summary.Deleted))
	}
	return nil
}

// printUpdate shows the plan, then the report when the run went that far.
func printUpdate(w io.Writer, resp *update.Response) {
	if resp == nil || resp.Runner() == nil {
		return
	}
	runner := resp.Runner()

	if preview, err := runner.Preview(); err == nil {
		fmt.Fprint(w, preview)
	}
	if runner.Result() == nil {
		return
	}
	if report, err := runner.Report(); err == nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, report)
	}
}

// isItemFailure reports whether err carries per-path errors already printed.
func isItemFailure(err error) bool {
	return errors.Is(err, content.ErrPlanFailed) || errors.Is(err, content.ErrRunFailed)
}
