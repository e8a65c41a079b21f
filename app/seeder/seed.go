package main

import (
	"context"
	"fmt"
	"time"

	"myCourseCompass/domain"
	"myCourseCompass/internal/repository/catalog"
	psqlRepo "myCourseCompass/internal/repository/postgres"
	redisRepo "myCourseCompass/internal/repository/redis"
	"myCourseCompass/pkg/database"
	redisdb "myCourseCompass/pkg/database/redis"
	"myCourseCompass/pkg/logger"

	"github.com/spf13/cobra"
)

var seedArgs struct {
	institutions string
	courses      string
	requirements string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load institutions, courses and requirements from CSV files",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedArgs.institutions, "institutions", "", "institutions CSV file")
	seedCmd.Flags().StringVar(&seedArgs.courses, "courses", "", "courses CSV file")
	seedCmd.Flags().StringVar(&seedArgs.requirements, "requirements", "", "course requirements CSV file")
}

type seedData struct {
	institutions []domain.Institution
	courses      []domain.Course
	requirements []domain.CourseRequirement
}

func loadSeedData() (seedData, error) {
	var (
		data seedData
		err  error
	)

	if seedArgs.institutions != "" {
		if data.institutions, err = catalog.LoadInstitutionsFile(seedArgs.institutions); err != nil {
			return data, err
		}
	}
	if seedArgs.courses != "" {
		if data.courses, err = catalog.LoadCoursesFile(seedArgs.courses); err != nil {
			return data, err
		}
	}
	if seedArgs.requirements != "" {
		if data.requirements, err = catalog.LoadRequirementsFile(seedArgs.requirements); err != nil {
			return data, err
		}
	}

	return data, nil
}

// checkReferences catches rows that point at ids missing from the files being
// loaded. Ids absent from both may still exist in the database, so only rows
// whose parent file was given are checked.
func checkReferences(data seedData) error {
	if len(data.institutions) > 0 {
		known := make(map[uint64]bool, len(data.institutions))
		for _, inst := range data.institutions {
			known[inst.ID] = true
		}
		for _, c := range data.courses {
			if !known[c.InstitutionID] {
				return fmt.Errorf("course %d refers to unknown institution %d", c.ID, c.InstitutionID)
			}
		}
	}

	if len(data.courses) > 0 {
		known := make(map[uint64]bool, len(data.courses))
		for _, c := range data.courses {
			known[c.ID] = true
		}
		for _, r := range data.requirements {
			if !known[r.CourseID] {
				return fmt.Errorf("requirement %s refers to unknown course %d", r.SubjectCode, r.CourseID)
			}
		}
	}

	return nil
}

func runSeed(cmd *cobra.Command, argv []string) error {
	if seedArgs.institutions == "" && seedArgs.courses == "" && seedArgs.requirements == "" {
		return fmt.Errorf("nothing to seed: pass --institutions, --courses or --requirements")
	}

	data, err := loadSeedData()
	if err != nil {
		return err
	}
	if err := checkReferences(data); err != nil {
		return err
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	institutionRepo := psqlRepo.NewInstitutionRepository(db)
	courseRepo := psqlRepo.NewCourseRepository(db)

	if err := institutionRepo.UpsertInstitutions(ctx, data.institutions); err != nil {
		return err
	}
	if err := courseRepo.UpsertCourses(ctx, data.courses); err != nil {
		return err
	}
	if err := courseRepo.ReplaceRequirements(ctx, data.requirements); err != nil {
		return err
	}

	logger.Info("Seed finished",
		"institutions", len(data.institutions),
		"courses", len(data.courses),
		"requirements", len(data.requirements),
	)

	// cached requirement lists are stale now
	client, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Skipping catalog cache invalidation", err)
		return nil
	}
	defer redisdb.CloseRedisClient(client)

	if err := redisRepo.NewCatalogCache(client, courseRepo, cfg.Calculation.CatalogCacheTTL).Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate catalog cache", err)
	}

	return nil
}
