package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"librieval/internal/batch"
	"librieval/internal/config"
	"librieval/internal/deps"
	"librieval/internal/language"
	"librieval/internal/ledger"
	"librieval/internal/logging"
	"librieval/internal/results"
)

type runOverrides struct {
	input    string
	output   string
	ledger   string
	language string
	backend  string
	workers  int
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOverrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transcribe and score every audio file under the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg, err := applyRunOverrides(*base, opts)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			if err := deps.Verify(cfg); err != nil {
				return err
			}
			transcriber, err := newTranscriber(cfg)
			if err != nil {
				return fmt.Errorf("init backend: %w", err)
			}

			runnerOpts := []batch.Option{batch.WithLogger(logger)}
			if cfg.Runner.RecordHistory {
				store, err := results.Open(cfg)
				if err != nil {
					return fmt.Errorf("open results store: %w", err)
				}
				defer store.Close()
				runnerOpts = append(runnerOpts, batch.WithHistory(store))
			}

			runner, err := batch.New(cfg, transcriber, runnerOpts...)
			if err != nil {
				return err
			}
			summary, runErr := runner.Run(cmd.Context(), cfg.Paths.InputDir)
			printRunSummary(cmd.OutOrStdout(), summary)
			return runErr
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "LibriSpeech directory to walk")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Directory for hypothesis transcripts")
	cmd.Flags().StringVar(&opts.ledger, "ledger", "", "CSV ledger path (default <output>/metric.csv)")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Spoken language passed to the backend")
	cmd.Flags().StringVarP(&opts.backend, "backend", "b", "", "Transcription backend (whisperx, assemblyai, static)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Files transcribed in parallel")
	return cmd
}

// applyRunOverrides layers command-line flags over the loaded configuration
// and re-validates the result.
func applyRunOverrides(cfg config.Config, opts runOverrides) (*config.Config, error) {
	if v := strings.TrimSpace(opts.input); v != "" {
		cfg.Paths.InputDir = v
	}
	if v := strings.TrimSpace(opts.output); v != "" {
		if strings.TrimSpace(opts.ledger) == "" && cfg.Paths.LedgerPath == config.DefaultLedgerPath(cfg.Paths.OutputDir) {
			cfg.Paths.LedgerPath = ""
		}
		cfg.Paths.OutputDir = v
	}
	if v := strings.TrimSpace(opts.ledger); v != "" {
		cfg.Paths.LedgerPath = v
	}
	if v := strings.TrimSpace(opts.language); v != "" {
		code := language.ToISO2(v)
		if code == "" {
			return nil, fmt.Errorf("--language: unrecognized language %q", v)
		}
		cfg.Transcription.Language = code
	}
	if v := strings.TrimSpace(opts.backend); v != "" {
		cfg.Transcription.Backend = v
	}
	if opts.workers > 0 {
		cfg.Runner.Workers = opts.workers
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func printRunSummary(out io.Writer, s batch.Summary) {
	fmt.Fprintf(out, "Run %s\n", s.RunID)
	fmt.Fprintf(out, "Processed: %d  Skipped: %d  Failed: %d  Missing reference: %d\n",
		s.Processed, s.Skipped, s.Failed, s.MissingReference)
	fmt.Fprintf(out, "Mean WER: %s  Mean PER: %s\n", ledger.FormatFloat(s.MeanWER), ledger.FormatFloat(s.MeanPER))
	fmt.Fprintf(out, "Ledger: %s\n", s.LedgerPath)
	fmt.Fprintf(out, "Duration: %s\n", s.Duration.Round(time.Millisecond))
}
