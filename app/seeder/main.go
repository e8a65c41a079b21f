package main

import (
	"fmt"
	"os"

	"myCourseCompass/pkg/config"
	"myCourseCompass/pkg/logger"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var Cmd = &cobra.Command{
	Use:   "seeder",
	Short: "Database tooling for the Course Compass API",
	PersistentPreRunE: func(cmd *cobra.Command, argv []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(cfg.App.Environment)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	Cmd.AddCommand(migrateCmd, seedCmd)

	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
