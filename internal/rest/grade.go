package rest

import (
	"context"
	"net/http"
	"time"

	"myCourseCompass/business/placement"
	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
	"myCourseCompass/pkg/validation"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	GradeHandler struct {
		validate     *validation.Validator
		gradeService GradeService
		timeout      time.Duration
	}

	GradeService interface {
		ValidateGrades(grades placement.GradeSet) domain.GradeValidation
		SaveGrades(ctx context.Context, userID uint, grades placement.GradeSet) (domain.GradeRecord, error)
		GetUserGrades(ctx context.Context, userID uint) ([]domain.GradeRecord, error)
		GetLatestGrades(ctx context.Context, userID uint) (domain.GradeRecord, error)
		UpdateGrades(ctx context.Context, userID uint, id uint64, grades placement.GradeSet) (domain.GradeRecord, error)
		DeleteGrades(ctx context.Context, userID uint, id uint64) error
	}

	GradesInput struct {
		Grades placement.GradeSet `json:"grades" validate:"required"`
	}
)

func NewGradeHandler(gradeService GradeService, validate *validation.Validator) *GradeHandler {
	return &GradeHandler{
		validate:     validate,
		gradeService: gradeService,
		timeout:      10 * time.Second,
	}
}

// bindGrades reads the grades body. When ok is false the error response has
// already been written.
func bindGrades(c echo.Context, v *validation.Validator) (grades placement.GradeSet, ok bool, err error) {
	var request GradesInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return nil, false, badRequest(c, "grades must be an object of subject code to grade")
	}

	if err := v.Struct(&request); err != nil {
		return nil, false, validationFailed(c, v, err)
	}

	return request.Grades, true, nil
}

func (h *GradeHandler) ValidateGrades(c echo.Context) error {
	grades, ok, err := bindGrades(c, h.validate)
	if !ok {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.gradeService.ValidateGrades(grades)))
}

func (h *GradeHandler) SaveGrades(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	grades, ok, err := bindGrades(c, h.validate)
	if !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	record, err := h.gradeService.SaveGrades(ctx, userID, grades)
	if err != nil {
		logger.Error("Failed to save grades", err)
		return respondError(c, err, "Failed to save grades")
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(record))
}

func (h *GradeHandler) GetUserGrades(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	records, err := h.gradeService.GetUserGrades(ctx, userID)
	if err != nil {
		logger.Error("Failed to get grades", err)
		return respondError(c, err, "Failed to get grades")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(records))
}

func (h *GradeHandler) GetLatestGrades(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	record, err := h.gradeService.GetLatestGrades(ctx, userID)
	if err != nil {
		return respondError(c, err, "Failed to get grades")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(record))
}

func (h *GradeHandler) UpdateGrades(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid grade record ID")
	}

	grades, ok, err := bindGrades(c, h.validate)
	if !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	record, err := h.gradeService.UpdateGrades(ctx, userID, id, grades)
	if err != nil {
		logger.Error("Failed to update grades", err)
		return respondError(c, err, "Failed to update grades")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(record))
}

func (h *GradeHandler) DeleteGrades(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid grade record ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.gradeService.DeleteGrades(ctx, userID, id); err != nil {
		logger.Error("Failed to delete grades", err)
		return respondError(c, err, "Failed to delete grades")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Grades deleted successfully"))
}
