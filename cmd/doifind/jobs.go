package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/doifind/internal/job"
)

var jobsDBPath string

func init() {
	jobsCmd.Flags().StringVar(&jobsDBPath, "db", "", "SQLite job database path (required)")
	jobsCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(jobsCmd)
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List processing jobs from a job database",
	Long: `List the jobs recorded in a SQLite job database written by
process --db.

Example:
  doifind jobs --db jobs.db`,
	Args: cobra.NoArgs,
	RunE: runJobs,
}

func runJobs(cmd *cobra.Command, args []string) error {
	store, err := job.OpenSQLite(jobsDBPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer store.Close()

	jobs, err := store.List()
	if err != nil {
		exitWithError(ExitError, "listing jobs: %v", err)
	}

	if humanOutput {
		for _, j := range jobs {
			fmt.Printf("%s  %-10s  %3d%%  %s  (%d citations, %d DOIs)\n",
				j.CreatedAt.Format("2006-01-02 15:04"), j.Status, j.Progress,
				j.Filename, j.Stats.Total, j.Stats.DOIsFound)
		}
		return nil
	}
	return outputJSON(jobs)
}
