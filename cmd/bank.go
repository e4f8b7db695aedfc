package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/bankio"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect the question bank and move it between backends",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions in the bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		typeName, _ := cmd.Flags().GetString("type")
		statusName, _ := cmd.Flags().GetString("status")

		var typ bank.Type
		if typeName != "" {
			t, err := bank.ParseType(typeName)
			if err != nil {
				return err
			}
			typ = t
		}
		var status bank.Status
		if statusName != "" {
			s, err := bank.ParseStatus(statusName)
			if err != nil {
				return err
			}
			status = s
		}

		b, err := loadBank(cmd)
		if err != nil {
			return err
		}

		var rows []*bank.Question
		for _, q := range b.Questions() {
			if topic != "" && !strings.EqualFold(q.Topic, topic) {
				continue
			}
			if typ != "" && q.Type != typ {
				continue
			}
			if status != "" && q.Status != status {
				continue
			}
			rows = append(rows, q)
		}
		if len(rows) == 0 {
			fmt.Println("No questions found.")
			return nil
		}

		fmt.Printf("%-18s  %-16s  %-32s  %-15s  %5s  %-6s\n",
			"Topic", "Type", "Title", "Status", "Uses", "Last")
		fmt.Println(strings.Repeat("─", 102))
		for _, q := range rows {
			last := q.LastUsed.String()
			if last == "" {
				last = "-"
			}
			fmt.Printf("%-18s  %-16s  %-32s  %-15s  %5d  %-6s\n",
				truncate(q.Topic, 18),
				q.Type,
				truncate(q.Title, 32),
				q.Status,
				q.Counter,
				last,
			)
		}
		fmt.Printf("\n%d of %d questions\n", len(rows), b.Len())
		return nil
	},
}

var bankStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage per topic and type",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBank(cmd)
		if err != nil {
			return err
		}
		stats := b.Stats()
		if len(stats) == 0 {
			fmt.Println("The bank is empty.")
			return nil
		}

		fmt.Printf("%-18s  %-16s  %5s  %8s  %5s  %6s  %-6s\n",
			"Topic", "Type", "Count", "Accepted", "Uses", "Unused", "Last")
		fmt.Println(strings.Repeat("─", 78))
		var total, accepted, uses, unused int
		for _, g := range stats {
			last := g.LastUsed.String()
			if last == "" {
				last = "-"
			}
			fmt.Printf("%-18s  %-16s  %5d  %8d  %5d  %6d  %-6s\n",
				truncate(g.Topic, 18), g.Type, g.Count, g.Accepted, g.TotalUses, g.NeverUsed, last)
			total += g.Count
			accepted += g.Accepted
			uses += g.TotalUses
			unused += g.NeverUsed
		}
		fmt.Println(strings.Repeat("─", 78))
		fmt.Printf("%-18s  %-16s  %5d  %8d  %5d  %6d\n", "Total", "", total, accepted, uses, unused)
		return nil
	},
}

var bankImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Copy a CSV bank into the database, replacing its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := bankio.NewFileStore(args[0]).Load(ctx)
		if err != nil {
			return err
		}

		s, err := openDB()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Questions().Save(ctx, b); err != nil {
			return fmt.Errorf("import bank: %w", err)
		}
		fmt.Printf("Imported %d questions from %s.\n", b.Len(), args[0])
		return nil
	},
}

var bankExportCmd = &cobra.Command{
	Use:   "export <csv>",
	Short: "Write the database bank to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openDB()
		if err != nil {
			return err
		}
		defer s.Close()

		b, err := s.Questions().Load(ctx)
		if err != nil {
			return fmt.Errorf("load bank: %w", err)
		}
		if err := bankio.NewFileStore(args[0]).Save(ctx, b); err != nil {
			return err
		}
		fmt.Printf("Exported %d questions to %s.\n", b.Len(), args[0])
		return nil
	},
}

func init() {
	bankListCmd.Flags().String("topic", "", "Only questions of this topic")
	bankListCmd.Flags().String("type", "", "Only questions of this type")
	bankListCmd.Flags().String("status", "", "Only questions with this status")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankStatsCmd)
	bankCmd.AddCommand(bankImportCmd)
	bankCmd.AddCommand(bankExportCmd)
}

// loadBank reads the configured bank.
func loadBank(cmd *cobra.Command) (*bank.Bank, error) {
	bs, closeBank, err := openBank()
	if err != nil {
		return nil, err
	}
	defer closeBank()
	return bs.Load(cmd.Context())
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
