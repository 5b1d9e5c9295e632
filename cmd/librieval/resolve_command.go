package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"librieval/internal/groundtruth"
)

func newResolveCommand() *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:         "resolve AUDIO",
		Short:       "Print the reference transcript for an audio file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := groundtruth.NewResolver().Resolve(args[0])
			if err != nil {
				return err
			}
			if !outcome.Found {
				return outcome.Err()
			}
			out := cmd.OutOrStdout()
			if showPath {
				fmt.Fprintf(out, "%s\t", outcome.TranscriptPath)
			}
			fmt.Fprintln(out, outcome.Text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPath, "show-path", false, "Prefix the output with the transcript file path")
	return cmd
}
