package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	CourseHandler struct {
		courseService CourseService
		timeout       time.Duration
	}

	CourseService interface {
		GetCourses(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, domain.Pagination, error)
		GetCourseByID(ctx context.Context, id uint64) (domain.Course, error)
		GetCoursesByProgramType(ctx context.Context, programType string) ([]domain.Course, error)
		SearchCourses(ctx context.Context, query string, limit int) ([]domain.Course, error)
	}

	page struct {
		Items      interface{}       `json:"items"`
		Pagination domain.Pagination `json:"pagination"`
	}
)

func NewCourseHandler(courseService CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		timeout:       10 * time.Second,
	}
}

func optionalFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *CourseHandler) GetCourses(c echo.Context) error {
	var filter domain.CourseFilter
	err := echo.QueryParamsBinder(c).
		String("program_type", &filter.ProgramType).
		Uint64("institution_id", &filter.InstitutionID).
		String("institution", &filter.Institution).
		String("search", &filter.Search).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError()
	if err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	if filter.MinCutoff, err = optionalFloat(c, "min_cutoff"); err != nil {
		return badRequest(c, "min_cutoff must be a number")
	}
	if filter.MaxCutoff, err = optionalFloat(c, "max_cutoff"); err != nil {
		return badRequest(c, "max_cutoff must be a number")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	courses, pagination, err := h.courseService.GetCourses(ctx, filter)
	if err != nil {
		logger.Error("Failed to get courses", err)
		return respondError(c, err, "Failed to get courses")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(page{Items: courses, Pagination: pagination}))
}

func (h *CourseHandler) GetCourseByID(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid course ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	course, err := h.courseService.GetCourseByID(ctx, id)
	if err != nil {
		return respondError(c, err, "Failed to get course")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(course))
}

func (h *CourseHandler) GetCoursesByProgramType(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	courses, err := h.courseService.GetCoursesByProgramType(ctx, c.Param("programType"))
	if err != nil {
		logger.Error("Failed to get courses by program type", err)
		return respondError(c, err, "Failed to get courses")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(courses))
}

func (h *CourseHandler) SearchCourses(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	courses, err := h.courseService.SearchCourses(ctx, c.QueryParam("q"), limit)
	if err != nil {
		return respondError(c, err, "Failed to search courses")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(courses))
}
