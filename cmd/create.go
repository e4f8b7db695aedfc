package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/exambank/internal/app"
	"github.com/abhisek/exambank/internal/config"
	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/export"
	"github.com/abhisek/exambank/internal/manager"
	"github.com/abhisek/exambank/internal/review"
	"github.com/abhisek/exambank/internal/storage"
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Assemble, review, and export a new exam",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().Bool("plain", false, "Review on the console instead of the full-screen UI")
	createCmd.Flags().BoolP("yes", "y", false, "Approve without review")
	createCmd.Flags().Uint64("seed", 0, "Seed for shuffling and random replacement (0 = random)")
	createCmd.Flags().Bool("accepted-only", false, "Only pick questions with status accepted")
	createCmd.Flags().String("policy", "", "Replacement policy: random or least-used")
	createCmd.Flags().StringSlice("format", nil, "Export formats (markdown, pdf, csv, json, text)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if err := exam.ValidateName(name); err != nil {
		return err
	}

	points, err := config.LoadPoints(settings.PointsPath())
	if err != nil {
		return err
	}
	reqs, err := config.LoadRequirements(settings.RequirementsPath())
	if err != nil {
		return err
	}

	tui := useTUI(cmd)
	if tui {
		if err := quietConsole(cmd); err != nil {
			return err
		}
	}

	opts, err := selectionOptions(cmd)
	if err != nil {
		return err
	}
	opts.Points = points
	opts.Requirements = reqs

	bs, closeBank, err := openBank()
	if err != nil {
		return err
	}
	defer closeBank()
	opts.Store = bs

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	opts.History = db.Exams()

	sink, err := storage.New(settings.Storage, settings.OutputPath())
	if err != nil {
		return err
	}
	opts.Sink = sink
	opts.Logger = logger

	ctx := cmd.Context()
	m, err := manager.New(ctx, opts)
	if err != nil {
		return err
	}

	e, err := m.CreateExam(name)
	if err != nil {
		var pool *exam.InsufficientPoolError
		if errors.As(err, &pool) {
			return fmt.Errorf("cannot create %q: %w", name, err)
		}
		return err
	}

	decision, err := reviewExam(cmd, e, m, tui)
	if err != nil {
		return err
	}
	if decision != review.DecisionApproved {
		m.Reject(e)
		fmt.Println("Exam rejected. The question bank was not changed.")
		return nil
	}

	res, err := m.Confirm(ctx, e)
	if err != nil {
		return err
	}

	fmt.Printf("Exam %q approved: %d questions, %s points.\n",
		e.Name, e.Len(), export.FormatPoints(e.TotalPoints()))
	for _, loc := range res.Exports {
		fmt.Printf("  wrote %s\n", loc)
	}
	if res.ID != "" {
		fmt.Printf("  history id %s\n", res.ID)
	}
	return nil
}

// selectionOptions merges command flags over the selection settings.
func selectionOptions(cmd *cobra.Command) (manager.Options, error) {
	sel := settings.Selection

	policyName := sel.Replace
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		policyName = p
	}
	policy, err := exam.ParsePolicy(policyName)
	if err != nil {
		return manager.Options{}, err
	}

	formatNames := settings.Formats
	if f, _ := cmd.Flags().GetStringSlice("format"); len(f) > 0 {
		formatNames = f
	}
	formats, err := export.ParseFormats(formatNames)
	if err != nil {
		return manager.Options{}, err
	}

	opts := manager.Options{
		Shuffle:      sel.Shuffle,
		AcceptedOnly: sel.AcceptedOnly,
		Policy:       policy,
		Formats:      formats,
	}
	if cmd.Flags().Changed("accepted-only") {
		opts.AcceptedOnly, _ = cmd.Flags().GetBool("accepted-only")
	}

	seed := sel.Seed
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}
	if seed != 0 {
		opts.Rand = exam.NewSource(seed)
	}
	return opts, nil
}

// useTUI reports whether review runs in the full-screen UI: both ends
// must be a terminal and neither --plain nor --yes is set.
func useTUI(cmd *cobra.Command) bool {
	plain, _ := cmd.Flags().GetBool("plain")
	yes, _ := cmd.Flags().GetBool("yes")
	if plain || yes {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// reviewExam lets the author inspect and adjust e. Non-interactive
// sessions fall back to the console prompt.
func reviewExam(cmd *cobra.Command, e *exam.Exam, r review.Replacer, tui bool) (review.Decision, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return review.DecisionApproved, nil
	}
	if tui {
		return app.Run(e, r)
	}
	return review.Prompt(os.Stdin, os.Stdout, e, r)
}
