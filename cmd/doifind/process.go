package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/doifind/internal/config"
	"github.com/matsen/doifind/internal/document"
	"github.com/matsen/doifind/internal/job"
	"github.com/matsen/doifind/internal/resolve"
	"github.com/matsen/doifind/internal/source"
	"github.com/matsen/doifind/internal/style"
)

var (
	processStyle   string
	processDBPath  string
	processDelay   time.Duration
	processTimeout time.Duration
)

func init() {
	processCmd.Flags().StringVar(&processStyle, "style", "APA", "Citation style (APA or AMA)")
	processCmd.Flags().StringVar(&processDBPath, "db", "", "SQLite job database path (default: in-memory)")
	processCmd.Flags().DurationVar(&processDelay, "delay", 0, "Politeness delay between external calls (default 500ms)")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 0, "Per-citation lookup timeout (default 45s)")
	rootCmd.AddCommand(processCmd)
}

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Extract citations from a document and resolve them to DOIs",
	Long: `Process a document end to end: locate the references section,
segment it into citations, then resolve each citation to a DOI via
PubMed and CrossRef.

Supported inputs: .txt, .md, .pdf, .docx, .doc, .rtf, .odt.

Example:
  doifind process paper.docx --style AMA > citations.json`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

// processResult is the JSON output of the process command.
type processResult struct {
	Job *job.Job `json:"job"`
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	doc, err := document.FromFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	store, cleanup, err := openStore(processDBPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer cleanup()

	j := job.New(filepath.Base(args[0]), style.Style(processStyle))
	if err := store.Create(j); err != nil {
		exitWithError(ExitError, "creating job: %v", err)
	}

	logger := newLogger()
	runner := job.NewRunner(store, buildResolver(cfg, logger), runnerOptions(cfg, logger)...)

	if err := runner.Run(context.Background(), j, doc.Text()); err != nil {
		exitWithError(ExitError, "processing %s: %v", args[0], err)
	}

	if humanOutput {
		printJobSummary(j)
		return nil
	}
	return outputJSON(processResult{Job: j})
}

// buildResolver wires the ordered source list from configuration:
// PubMed first, CrossRef as the fallback.
func buildResolver(cfg *config.Config, logger *zap.Logger) *resolve.Resolver {
	var pubmedOpts []source.PubMedOption
	if cfg.PubMedAPIKey != "" {
		pubmedOpts = append(pubmedOpts, source.WithPubMedAPIKey(cfg.PubMedAPIKey))
	}

	var crossrefOpts []source.CrossRefOption
	if cfg.CrossRefMailto != "" {
		crossrefOpts = append(crossrefOpts, source.WithMailto(cfg.CrossRefMailto))
	}

	sources := []source.Source{
		source.NewPubMed(pubmedOpts...),
		source.NewCrossRef(crossrefOpts...),
	}

	opts := []resolve.Option{resolve.WithLogger(logger)}
	if delay := pickDuration(processDelay, cfg.RequestDelay()); delay > 0 {
		opts = append(opts, resolve.WithDelay(delay))
	}
	if timeout := pickDuration(processTimeout, cfg.CitationTimeout()); timeout > 0 {
		opts = append(opts, resolve.WithTimeout(timeout))
	}
	return resolve.New(sources, opts...)
}

// pickDuration returns the flag value when set, then the config value.
func pickDuration(flag, fromConfig time.Duration) time.Duration {
	if flag > 0 {
		return flag
	}
	return fromConfig
}

// runnerOptions derives Runner options from configuration.
func runnerOptions(cfg *config.Config, logger *zap.Logger) []job.RunnerOption {
	opts := []job.RunnerOption{job.WithLogger(logger)}
	if cfg.JobTimeout() > 0 {
		opts = append(opts, job.WithJobTimeout(cfg.JobTimeout()))
	}
	return opts
}

// openStore opens the sqlite store at path, or an in-memory store when
// path is empty.
func openStore(path string) (job.Store, func(), error) {
	if path == "" {
		return job.NewMemoryStore(), func() {}, nil
	}
	store, err := job.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func printJobSummary(j *job.Job) {
	fmt.Printf("Job %s: %s\n", j.ID, j.Status)
	fmt.Printf("  citations: %d  has_doi: %d  found: %d  not_found: %d\n",
		j.Stats.Total, j.Stats.HasDOI, j.Stats.Found, j.Stats.NotFound)
	for _, c := range j.Citations {
		marker := " "
		if c.DOI != "" {
			marker = "*"
		}
		fmt.Printf("%s %3d. [%s] %.70s\n", marker, c.ID, c.Status, c.Original)
		if c.DOI != "" {
			fmt.Printf("       doi:%s (confidence %.1f)\n", c.DOI, c.Confidence)
		}
	}
}
