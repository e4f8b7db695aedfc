package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/exambank/internal/selfupdate"
	"github.com/abhisek/exambank/internal/store"
)

var updateCmd = &cobra.Command{
	Use:   "update [version]",
	Short: "Update exambank to the latest or a given release",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		checker := selfupdate.NewChecker(
			selfupdate.WithTimeout(2*time.Minute),
			selfupdate.WithLogger(logger),
		)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		if checkOnly {
			res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if !res.UpdateAvailable {
				fmt.Printf("exambank %s is up to date (latest %s).\n", version, res.LatestVersion)
				return nil
			}
			fmt.Printf("exambank %s is available: %s\n", res.LatestVersion, res.ReleaseURL)
			return nil
		}

		in := &selfupdate.UpdateInput{CurrentVersion: version}
		if len(args) == 1 {
			in.TargetVersion = args[0]
		}
		if stored, err := storedSchemaVersion(ctx); err != nil {
			logger.Warn("skipping schema check", zap.Error(err))
		} else {
			in.CheckSchema = func(release string) error {
				return store.CheckCompatible(stored, release)
			}
		}

		err := checker.Update(ctx, in, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})
		if err == nil {
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already running the latest version.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrIncompatibleSchema) {
			return fmt.Errorf("%w\n\nMigrate or back up the database at the --db location before installing this release", err)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo exambank update", err)
		}
		return err
	},
}

// storedSchemaVersion reads the schema version of the database the
// current settings point at.
func storedSchemaVersion(ctx context.Context) (string, error) {
	s, err := openDB()
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.SchemaVersion(ctx)
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
}
