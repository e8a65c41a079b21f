package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"myCourseCompass/business/placement"
	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
	"myCourseCompass/pkg/validation"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	CalculationHandler struct {
		validate           *validation.Validator
		calculationService CalculationService
		timeout            time.Duration
	}

	CalculationService interface {
		CheckEligibility(ctx context.Context, userID uint, grades placement.GradeSet, programType string) (domain.EligibilityReport, error)
		ClusterPoints(ctx context.Context, grades placement.GradeSet, subjects []string, cluster string) (domain.ClusterReport, error)
		Compare(ctx context.Context, grades placement.GradeSet, courseIDs []uint64) ([]domain.CourseComparison, error)
		Recommend(ctx context.Context, grades placement.GradeSet, programType string, limit int) ([]domain.Recommendation, error)
		History(ctx context.Context, userID uint, limit int) ([]domain.Result, error)
	}

	EligibilityInput struct {
		Grades      placement.GradeSet `json:"grades" validate:"required"`
		ProgramType string             `json:"program_type" validate:"required,program_type"`
	}

	ClusterPointsInput struct {
		Grades          placement.GradeSet `json:"grades" validate:"required"`
		ClusterSubjects []string           `json:"cluster_subjects" validate:"required_without=Cluster,max=12"`
		Cluster         string             `json:"cluster"`
	}

	CompareInput struct {
		Grades    placement.GradeSet `json:"grades" validate:"required"`
		CourseIDs []uint64           `json:"course_ids" validate:"required,min=1,max=20,dive,gt=0"`
	}

	RecommendationInput struct {
		Grades      placement.GradeSet `json:"grades" validate:"required"`
		ProgramType string             `json:"program_type" validate:"omitempty,program_type"`
		Limit       int                `json:"limit" validate:"omitempty,min=1,max=50"`
	}
)

func NewCalculationHandler(calculationService CalculationService, validate *validation.Validator) *CalculationHandler {
	return &CalculationHandler{
		validate:           validate,
		calculationService: calculationService,
		timeout:            15 * time.Second,
	}
}

func (h *CalculationHandler) bind(c echo.Context, request interface{}) (bool, error) {
	if err := c.Bind(request); err != nil {
		logger.Error("Invalid request body", err)
		return false, badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(request); err != nil {
		return false, validationFailed(c, h.validate, err)
	}

	return true, nil
}

func (h *CalculationHandler) Eligibility(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	var request EligibilityInput
	if ok, err := h.bind(c, &request); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.calculationService.CheckEligibility(ctx, userID, request.Grades, request.ProgramType)
	if err != nil {
		logger.Error("Failed to check eligibility", err)
		return respondError(c, err, "Failed to check eligibility")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}

func (h *CalculationHandler) ClusterPoints(c echo.Context) error {
	var request ClusterPointsInput
	if ok, err := h.bind(c, &request); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.calculationService.ClusterPoints(ctx, request.Grades, request.ClusterSubjects, request.Cluster)
	if err != nil {
		logger.Error("Failed to calculate cluster points", err)
		return respondError(c, err, "Failed to calculate cluster points")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}

func (h *CalculationHandler) Compare(c echo.Context) error {
	var request CompareInput
	if ok, err := h.bind(c, &request); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	comparisons, err := h.calculationService.Compare(ctx, request.Grades, request.CourseIDs)
	if err != nil {
		logger.Error("Failed to compare courses", err)
		return respondError(c, err, "Failed to compare courses")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(comparisons))
}

func (h *CalculationHandler) Recommendations(c echo.Context) error {
	var request RecommendationInput
	if ok, err := h.bind(c, &request); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.calculationService.Recommend(ctx, request.Grades, request.ProgramType, request.Limit)
	if err != nil {
		logger.Error("Failed to get recommendations", err)
		return respondError(c, err, "Failed to get recommendations")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

func (h *CalculationHandler) History(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results, err := h.calculationService.History(ctx, userID, limit)
	if err != nil {
		logger.Error("Failed to get calculation history", err)
		return respondError(c, err, "Failed to get calculation history")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(results))
}
