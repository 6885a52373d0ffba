package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/store"
	"github.com/spf13/cobra"
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Manage the questions of the current company",
}

var (
	questionCategory string
	questionText     string
	questionAnswer   string
	questionKeywords string
	questionFollowup bool
	questionAfter    string
	questionAsJSON   bool
)

var questionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions in bank order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(_ context.Context, st *store.Store) error {
			var questions []bank.FlatQuestion
			for _, q := range st.Snapshot().Questions() {
				if questionCategory == "" || q.Category == questionCategory {
					questions = append(questions, q)
				}
			}
			if questionAsJSON {
				return printJSON(cmd.OutOrStdout(), questions)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, q := range questions {
				text := q.Question.Question
				if q.IsFollowup {
					text = "  └ " + text
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", q.ID, q.Category, text, keywordSummary(q.Keywords))
			}
			return tw.Flush()
		})
	},
}

var questionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question to a category, creating the category if needed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(ctx context.Context, st *store.Store) error {
			in := bank.QuestionInput{
				Category:   questionCategory,
				Question:   questionText,
				Answer:     questionAnswer,
				Keywords:   questionKeywords,
				IsFollowup: questionFollowup,
			}
			var after *bank.Ref
			if questionAfter != "" {
				ref := bank.ByID(questionAfter)
				after = &ref
			}

			var id string
			_, err := st.Apply(ctx, func(s bank.Snapshot) (bank.Snapshot, error) {
				out, q, err := s.AddQuestion(in, after)
				id = q.ID
				return out, err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added question %s\n", id)
			return nil
		})
	},
}

var questionEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a question; fields without a flag are left unchanged",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		return applyBank(cmd, "Updated question "+args[0], func(s bank.Snapshot) (bank.Snapshot, error) {
			q, ok := s.Find(bank.ByID(args[0]))
			if !ok {
				return s, fmt.Errorf("question not found: %s", args[0])
			}
			in := bank.QuestionInput{
				Category:   q.Category,
				Question:   q.Question.Question,
				Answer:     q.Answer,
				Keywords:   q.Keywords,
				IsFollowup: q.IsFollowup,
			}
			if flags.Changed("category") {
				in.Category = questionCategory
			}
			if flags.Changed("question") {
				in.Question = questionText
			}
			if flags.Changed("answer") {
				in.Answer = questionAnswer
			}
			if flags.Changed("keywords") {
				in.Keywords = questionKeywords
			}
			if flags.Changed("followup") {
				in.IsFollowup = questionFollowup
			}
			return s.UpdateQuestion(bank.ByID(args[0]), in)
		})
	},
}

// questionEdit wraps an edit that only needs the question to exist.
func questionEdit(done, id string, fn func(bank.Snapshot, bank.Ref) bank.Snapshot) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		return applyBank(cmd, done, func(s bank.Snapshot) (bank.Snapshot, error) {
			ref := bank.ByID(id)
			if _, ok := s.Find(ref); !ok {
				return s, fmt.Errorf("question not found: %s", id)
			}
			return fn(s, ref), nil
		})
	}
}

var questionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return questionEdit("Deleted question "+args[0], args[0], bank.Snapshot.DeleteQuestion)(cmd)
	},
}

var questionToggleFollowupCmd = &cobra.Command{
	Use:   "toggle-followup <id>",
	Short: "Flip whether a question is a follow-up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return questionEdit("Toggled follow-up on "+args[0], args[0], bank.Snapshot.ToggleFollowup)(cmd)
	},
}

var questionKeywordsCmd = &cobra.Command{
	Use:   "keywords <id> <keywords>",
	Short: "Replace the comma-separated keywords of a question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		keywords := bank.JoinKeywords(bank.KeywordList(args[1]))
		return questionEdit("Updated keywords of "+args[0], args[0], func(s bank.Snapshot, ref bank.Ref) bank.Snapshot {
			return s.UpdateKeywords(ref, keywords)
		})(cmd)
	},
}

var questionMoveCmd = &cobra.Command{
	Use:   "move <id> <target-id>",
	Short: "Move a question before another question, or after it with --followup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, fmt.Sprintf("Moved %s next to %s", args[0], args[1]), func(s bank.Snapshot) (bank.Snapshot, error) {
			for _, id := range args {
				if _, ok := s.Find(bank.ByID(id)); !ok {
					return s, fmt.Errorf("question not found: %s", id)
				}
			}
			return s.MoveQuestion(bank.ByID(args[0]), bank.ByID(args[1]), questionFollowup), nil
		})
	},
}

func init() {
	questionListCmd.Flags().StringVar(&questionCategory, "category", "", "Only list questions in this category")
	questionListCmd.Flags().BoolVar(&questionAsJSON, "json", false, "Print questions as JSON")

	for _, c := range []*cobra.Command{questionAddCmd, questionEditCmd} {
		c.Flags().StringVar(&questionCategory, "category", "", "Category name")
		c.Flags().StringVar(&questionText, "question", "", "Question text")
		c.Flags().StringVar(&questionAnswer, "answer", "", "Reference answer")
		c.Flags().StringVar(&questionKeywords, "keywords", "", "Comma-separated keywords")
		c.Flags().BoolVar(&questionFollowup, "followup", false, "Mark as a follow-up question")
	}
	questionAddCmd.Flags().StringVar(&questionAfter, "after", "", "Insert after this question id in the same category")
	mustMarkRequired(questionAddCmd, "category", "question", "answer")

	questionMoveCmd.Flags().BoolVar(&questionFollowup, "followup", false, "Place after the target as its follow-up")

	questionCmd.AddCommand(questionListCmd, questionAddCmd, questionEditCmd, questionDeleteCmd,
		questionToggleFollowupCmd, questionKeywordsCmd, questionMoveCmd)
	rootCmd.AddCommand(questionCmd)
}

// keywordSummary shortens a keyword string to its first three keywords.
func keywordSummary(keywords string) string {
	list := bank.KeywordList(keywords)
	if len(list) <= 3 {
		return strings.Join(list, ", ")
	}
	return strings.Join(list[:3], ", ") + fmt.Sprintf(" (+%d)", len(list)-3)
}
