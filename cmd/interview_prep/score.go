package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/scoring"
	"github.com/jonathan/interview-prep/internal/store"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [transcript]",
	Short: "Score a spoken answer against a reference answer",
	Long: `Score a transcript against a reference answer and comma-separated keywords.
The reference can be given directly with --answer/--keywords or taken from a stored
question with --question. The transcript is read from the argument, from --in, or from
stdin when neither is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

var (
	scoreAnswer     string
	scoreKeywords   string
	scoreQuestionID string
	scoreInput      string
	scorePretty     bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreAnswer, "answer", "a", "", "Reference answer")
	scoreCmd.Flags().StringVarP(&scoreKeywords, "keywords", "k", "", "Comma-separated keywords")
	scoreCmd.Flags().StringVarP(&scoreQuestionID, "question", "q", "", "Use the answer and keywords of a stored question")
	scoreCmd.Flags().StringVarP(&scoreInput, "in", "i", "", "Path to a transcript text file")
	scoreCmd.Flags().BoolVarP(&scorePretty, "pretty", "p", false, "Print a readable breakdown instead of JSON")
	scoreCmd.MarkFlagsMutuallyExclusive("question", "answer")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	transcript, err := readTranscript(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(transcript) == "" {
		return fmt.Errorf("transcript is empty")
	}

	answer, keywords := scoreAnswer, scoreKeywords
	if scoreQuestionID != "" {
		err := withStore(cmd, func(_ context.Context, st *store.Store) error {
			q, ok := st.Snapshot().Find(bank.ByID(scoreQuestionID))
			if !ok {
				return fmt.Errorf("question not found: %s", scoreQuestionID)
			}
			answer = q.Answer
			if !cmd.Flags().Changed("keywords") {
				keywords = q.Keywords
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	res := scoring.Score(transcript, answer, keywords)
	if scorePretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintScore(res)
		return nil
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func readTranscript(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case scoreInput != "":
		raw, err := os.ReadFile(scoreInput)
		if err != nil {
			return "", fmt.Errorf("failed to read transcript file %s: %w", scoreInput, err)
		}
		return string(raw), nil
	default:
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read transcript from stdin: %w", err)
		}
		return string(raw), nil
	}
}
