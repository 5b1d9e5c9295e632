package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"librieval/internal/ledger"
	"librieval/internal/scoring"
)

func newScoreCommand() *cobra.Command {
	var normalize bool
	var emptyReference string

	cmd := &cobra.Command{
		Use:         "score REFERENCE HYPOTHESIS",
		Short:       "Print WER and PER for a reference/hypothesis pair",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := scoring.ParseEmptyReferencePolicy(emptyReference)
			if err != nil {
				return err
			}
			opts := []scoring.Option{scoring.WithEmptyReferencePolicy(policy)}
			if normalize {
				opts = append(opts, scoring.WithNormalization())
			}
			result := scoring.NewScorer(opts...).Score(args[0], args[1])

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "WER: %s\n", ledger.FormatFloat(result.WER))
			fmt.Fprintf(out, "PER: %s\n", ledger.FormatFloat(result.PER))
			fmt.Fprintf(out, "Reference words: %d  Hypothesis words: %d  Edits: %d\n",
				result.RefWords, result.HypWords, result.Distance)
			return nil
		},
	}

	cmd.Flags().BoolVar(&normalize, "normalize", false, "Case-fold and strip punctuation before scoring")
	cmd.Flags().StringVar(&emptyReference, "empty-reference", string(scoring.EmptyReferenceOne), "WER for an empty reference: one, zero, or insertions")
	return cmd
}
