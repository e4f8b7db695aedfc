package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/draft"
	"github.com/abhisek/exambank/internal/llm"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft new questions with an LLM",
	Long: "draft asks the configured LLM provider for new questions on a topic, validates\n" +
		"them, and appends them to the bank with status review_needed.\n\n" +
		"The provider is chosen with EXAMBANK_LLM_PROVIDER (anthropic, openai, gemini,\n" +
		"openrouter, mock) or discovered from the API keys in the environment or <dir>/.env.",
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().String("topic", "", "Topic of the new questions (required)")
	draftCmd.Flags().String("type", "", "Question type: true_false, multiple_choice, numerical (required)")
	draftCmd.Flags().IntP("count", "n", 5, "Number of questions to draft")
	draftCmd.Flags().String("guidance", "", "Extra instructions for the model")
	draftCmd.Flags().Bool("dry-run", false, "Print the drafts without saving them")
	_ = draftCmd.MarkFlagRequired("topic")
	_ = draftCmd.MarkFlagRequired("type")
}

func runDraft(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	typeName, _ := cmd.Flags().GetString("type")
	count, _ := cmd.Flags().GetInt("count")
	guidance, _ := cmd.Flags().GetString("guidance")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("--topic must not be empty")
	}
	typ, err := bank.ParseType(typeName)
	if err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", count)
	}

	ctx := cmd.Context()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := llm.New(ctx, llm.ConfigFromEnv(), db.Events(), logger)
	if err != nil {
		return err
	}

	bs, closeBank, err := openBank()
	if err != nil {
		return err
	}
	defer closeBank()
	b, err := bs.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Drafting %d %s questions on %q with %s...\n", count, typ.DisplayName(), topic, provider.ModelID())
	res, err := draft.New(provider, draft.DefaultConfig(), logger).Draft(ctx, b, draft.Input{
		Topic:    topic,
		Type:     typ,
		Count:    count,
		Guidance: guidance,
	})
	if err != nil {
		return err
	}

	for _, q := range res.Questions {
		fmt.Printf("\n+ %s\n  %s\n", q.Title, q.Wording)
		if q.Choices != "" {
			fmt.Printf("  choices: %s\n", q.Choices)
		}
		fmt.Printf("  solution: %s\n", q.Solution)
	}
	for _, r := range res.Rejected {
		fmt.Printf("\n- %s: %s\n", r.Title, r.Reason)
	}
	fmt.Printf("\n%d drafted, %d rejected.\n", len(res.Questions), len(res.Rejected))

	if dryRun || len(res.Questions) == 0 {
		return nil
	}
	b.Add(res.Questions...)
	if err := bs.Save(ctx, b); err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	fmt.Printf("Added %d questions with status %s.\n", len(res.Questions), bank.StatusReviewNeeded)
	return nil
}
