package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/exambank/internal/export"
	"github.com/abhisek/exambank/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export <exam.json>",
	Short: "Re-export a saved JSON exam in other formats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open exam: %w", err)
		}
		defer f.Close()

		e, err := export.LoadJSON(f)
		if err != nil {
			return fmt.Errorf("load exam %s: %w", args[0], err)
		}

		names, _ := cmd.Flags().GetStringSlice("format")
		if len(names) == 0 {
			names = settings.Formats
		}
		formats, err := export.ParseFormats(names)
		if err != nil {
			return err
		}

		sink, err := storage.New(settings.Storage, settings.OutputPath())
		if err != nil {
			return err
		}
		locs, err := export.Export(cmd.Context(), sink, e, formats)
		if err != nil {
			return err
		}
		for _, loc := range locs {
			fmt.Printf("wrote %s\n", loc)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringSlice("format", nil, "Export formats (markdown, pdf, csv, json, text)")
}
