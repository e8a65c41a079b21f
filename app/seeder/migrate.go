package main

import (
	"fmt"

	"myCourseCompass/domain"
	"myCourseCompass/pkg/database"
	"myCourseCompass/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, argv []string) error {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		models := []any{
			&domain.User{},
			&domain.Institution{},
			&domain.Course{},
			&domain.CourseRequirement{},
			&domain.GradeRecord{},
			&domain.Result{},
			&domain.Transaction{},
		}
		if err := db.AutoMigrate(models...); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		logger.Info("Migration finished", "tables", len(models))
		return nil
	},
}
