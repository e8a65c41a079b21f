package rest

import (
	"context"
	"net/http"
	"time"

	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	InstitutionHandler struct {
		institutionService InstitutionService
		timeout            time.Duration
	}

	InstitutionService interface {
		GetInstitutionTypes() []string
		GetInstitutions(ctx context.Context, filter domain.InstitutionFilter) ([]domain.Institution, domain.Pagination, error)
		GetInstitutionByID(ctx context.Context, id uint64) (domain.Institution, error)
		GetInstitutionsByType(ctx context.Context, institutionType string) ([]domain.Institution, error)
		GetInstitutionCourses(ctx context.Context, id uint64, programType string) ([]domain.Course, error)
		GetInstitutionStats(ctx context.Context, id uint64) (domain.InstitutionStats, error)
	}
)

func NewInstitutionHandler(institutionService InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{
		institutionService: institutionService,
		timeout:            10 * time.Second,
	}
}

func (h *InstitutionHandler) GetInstitutionTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.institutionService.GetInstitutionTypes()))
}

func (h *InstitutionHandler) GetInstitutions(c echo.Context) error {
	var filter domain.InstitutionFilter
	err := echo.QueryParamsBinder(c).
		String("type", &filter.Type).
		String("category", &filter.Category).
		String("county", &filter.County).
		String("search", &filter.Search).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError()
	if err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	institutions, pagination, err := h.institutionService.GetInstitutions(ctx, filter)
	if err != nil {
		logger.Error("Failed to get institutions", err)
		return respondError(c, err, "Failed to get institutions")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(page{Items: institutions, Pagination: pagination}))
}

func (h *InstitutionHandler) GetInstitutionByID(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid institution ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	institution, err := h.institutionService.GetInstitutionByID(ctx, id)
	if err != nil {
		return respondError(c, err, "Failed to get institution")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(institution))
}

func (h *InstitutionHandler) GetInstitutionsByType(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	institutions, err := h.institutionService.GetInstitutionsByType(ctx, c.Param("type"))
	if err != nil {
		return respondError(c, err, "Failed to get institutions")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(institutions))
}

func (h *InstitutionHandler) GetInstitutionCourses(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid institution ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	courses, err := h.institutionService.GetInstitutionCourses(ctx, id, c.QueryParam("program_type"))
	if err != nil {
		return respondError(c, err, "Failed to get institution courses")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(courses))
}

func (h *InstitutionHandler) GetInstitutionStats(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid institution ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.institutionService.GetInstitutionStats(ctx, id)
	if err != nil {
		return respondError(c, err, "Failed to get institution stats")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}
