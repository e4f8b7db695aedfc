package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/bankio"
	"github.com/abhisek/exambank/internal/config"
	"github.com/abhisek/exambank/internal/llm"
	"github.com/abhisek/exambank/internal/logging"
	"github.com/abhisek/exambank/internal/store"
)

// settings and logger are resolved once per invocation in
// PersistentPreRunE.
var (
	settings *config.Settings
	logger   = zap.NewNop()
	logOpts  logging.Options
)

var rootCmd = &cobra.Command{
	Use:   "exambank",
	Short: "Assemble exams from a question bank",
	Long: "exambank picks questions from a bank to meet per-topic quotas, lets you review\n" +
		"and replace them, and exports the approved exam while tracking question usage.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		cfgFile, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		s, err := config.LoadSettings(dir, cfgFile)
		if err != nil {
			return err
		}
		if db, _ := cmd.Flags().GetString("db"); db != "" {
			s.DB = db
		}
		settings = s

		if err := llm.LoadDotEnv(filepath.Join(s.Dir, ".env")); err != nil {
			return err
		}

		var console io.Writer
		if verbose {
			console = os.Stderr
		}
		logFile := s.Resolve(s.Log.File)
		if logFile == "" {
			if logFile, err = logging.DefaultPath(); err != nil {
				return err
			}
		}
		logOpts = logging.Options{Level: s.Log.Level, File: logFile, Console: console}
		return initLogger(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Database folder holding the bank, points and requirements")
	rootCmd.PersistentFlags().String("config", "", "Settings file (default <dir>/exambank.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// URL for history and logs (overrides EXAMBANK_DB)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Also write logs to stderr")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initLogger(cmd *cobra.Command) error {
	l, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	_ = logger.Sync()
	logger = l.With(zap.String("command", cmd.CommandPath()))
	return nil
}

// quietConsole drops the stderr log copy while a full-screen UI owns the
// terminal.
func quietConsole(cmd *cobra.Command) error {
	if logOpts.Console == nil {
		return nil
	}
	logOpts.Console = nil
	return initLogger(cmd)
}

// resolveDBPath returns the database location: --db or the db setting
// (EXAMBANK_DB) first, then the default XDG path.
func resolveDBPath() (string, error) {
	if p := settings.DB; p != "" {
		if store.DetectDriver(p) == store.DriverSQLite {
			return p, store.EnsureDir(p)
		}
		return p, nil
	}
	return store.DefaultDBPath()
}

// openDB opens the history and log database.
func openDB() (*store.Store, error) {
	dsn, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// isDatabase reports whether the bank setting names a database rather
// than a CSV file.
func isDatabase(p string) bool {
	return strings.Contains(p, "://") || strings.HasSuffix(p, ".db")
}

// openBank returns the configured bank backend and a function releasing
// it.
func openBank() (bank.Store, func(), error) {
	p := settings.BankPath()
	if !isDatabase(p) {
		return bankio.NewFileStore(p), func() {}, nil
	}
	s, err := store.Open(p)
	if err != nil {
		return nil, nil, fmt.Errorf("open bank database: %w", err)
	}
	return s.Questions(), func() { _ = s.Close() }, nil
}
