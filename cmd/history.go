package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/exambank/internal/export"
	"github.com/abhisek/exambank/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List approved exams",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openDB()
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.Exams().List(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No approved exams yet.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-24s  %9s  %7s\n", "ID", "Approved", "Name", "Questions", "Points")
		fmt.Println(strings.Repeat("─", 103))
		for _, r := range recs {
			fmt.Printf("%-36s  %-19s  %-24s  %9d  %7s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.Name, 24),
				r.TotalQuestions,
				export.FormatPoints(r.TotalPoints),
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the blueprint of an approved exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDB()
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.Exams().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no exam with id %s", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("Approved %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		if err := export.PrintBlueprint(os.Stdout, rec.Blueprint); err != nil {
			return err
		}
		if len(rec.Exports) > 0 {
			fmt.Println("Exports:")
			for _, loc := range rec.Exports {
				fmt.Printf("  %s\n", loc)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of exams to show")
	historyCmd.AddCommand(historyShowCmd)
}
