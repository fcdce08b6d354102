package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/models/dto"
	"github.com/opencourse/discovery/internal/app/repositories"
	"github.com/opencourse/discovery/internal/app/services"
	"github.com/opencourse/discovery/internal/middleware"
	"github.com/opencourse/discovery/internal/pkg/helpers"
)

// CourseRunController handles course run and seat operations
type CourseRunController struct {
	courseService *services.CourseService
	seatService   *services.SeatService
}

// NewCourseRunController creates a new CourseRunController
func NewCourseRunController(courseService *services.CourseService, seatService *services.SeatService) *CourseRunController {
	return &CourseRunController{
		courseService: courseService,
		seatService:   seatService,
	}
}

// CreateCourseRun schedules a new course run
// @Summary Create a course run
// @Description Schedules a new run of an existing course
// @Tags course-runs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRunRequest true "Course run information"
// @Success 201 {object} dto.APIResponse{data=models.CourseRun} "Course run created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course run already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /course-runs [post]
func (c *CourseRunController) CreateCourseRun(ctx *gin.Context) {
	var req dto.CreateCourseRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	run := &models.CourseRun{
		CourseID: req.CourseID,
		Key:      req.Key,
		Status:   models.CourseRunStatus(req.Status),
		Start:    req.Start,
		End:      req.End,
	}

	if err := c.courseService.CreateCourseRun(ctx, run); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(run))
}

// GetCourseRunByID retrieves a course run by ID
// @Summary Get course run by ID
// @Description Retrieves a specific course run by its ID
// @Tags course-runs
// @Produce json
// @Param id path int true "Course run ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseRun} "Course run retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course run ID"
// @Failure 404 {object} dto.ErrorResponse "Course run not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /course-runs/{id} [get]
func (c *CourseRunController) GetCourseRunByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	run, err := c.courseService.GetCourseRunByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(run))
}

// ListCourseRuns retrieves a page of course runs
// @Summary List course runs
// @Description Retrieves a paginated list of course runs, optionally filtered
// @Tags course-runs
// @Produce json
// @Param courseId query int false "Filter by course ID"
// @Param status query string false "Filter by status" Enums(published, unpublished)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Course runs retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /course-runs [get]
func (c *CourseRunController) ListCourseRuns(ctx *gin.Context) {
	filter := repositories.CourseRunFilter{
		Status: models.CourseRunStatus(ctx.Query("status")),
	}
	if courseIDStr := ctx.Query("courseId"); courseIDStr != "" {
		courseID, err := strconv.ParseInt(courseIDStr, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid courseId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.CourseID = courseID
	}

	page, size := helpers.ParsePaginationParams(ctx)

	runs, pagination, err := c.courseService.ListCourseRuns(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      runs,
		Pagination: pagination,
	}))
}

// UpdateCourseRun updates an existing course run
// @Summary Update a course run
// @Description Updates mutable fields of an existing course run
// @Tags course-runs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course run ID"
// @Param request body dto.UpdateCourseRunRequest true "Updated course run information"
// @Success 200 {object} dto.APIResponse{data=models.CourseRun} "Course run updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course run not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /course-runs/{id} [put]
func (c *CourseRunController) UpdateCourseRun(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	run, err := c.courseService.GetCourseRunByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	run.Status = models.CourseRunStatus(req.Status)
	run.Start = req.Start
	run.End = req.End

	if err := c.courseService.UpdateCourseRun(ctx, run); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(run))
}

// DeleteCourseRun deletes a course run
// @Summary Delete a course run
// @Description Deletes a course run and its seats
// @Tags course-runs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course run ID"
// @Success 204 "Course run deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course run ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course run not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /course-runs/{id} [delete]
func (c *CourseRunController) DeleteCourseRun(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourseRun(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CreateSeat adds a seat to a course run
// @Summary Create a seat
// @Description Adds an enrollment seat to a course run. Creating a masters seat may trigger a commerce push to the partner LMS.
// @Tags seats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course run ID"
// @Param request body dto.CreateSeatRequest true "Seat information"
// @Success 201 {object} dto.APIResponse{data=models.Seat} "Seat created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course run not found"
// @Failure 409 {object} dto.ErrorResponse "Seat already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /course-runs/{id}/seats [post]
func (c *CourseRunController) CreateSeat(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateSeatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	seat := &models.Seat{
		CourseRunID:     id,
		Type:            models.SeatType(req.Type),
		Price:           req.Price,
		CurrencyCode:    req.Currency,
		SKU:             req.SKU,
		UpgradeDeadline: req.UpgradeDeadline,
	}

	if err := c.seatService.CreateSeat(ctx, seat); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(seat))
}

// ListSeats retrieves the seats of a course run
// @Summary List seats
// @Description Retrieves every seat of a course run
// @Tags seats
// @Produce json
// @Param id path int true "Course run ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Seat} "Seats retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course run ID"
// @Failure 404 {object} dto.ErrorResponse "Course run not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /course-runs/{id}/seats [get]
func (c *CourseRunController) ListSeats(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	seats, err := c.seatService.ListSeatsByCourseRun(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(seats))
}

// DeleteSeat deletes a seat
// @Summary Delete a seat
// @Description Deletes a seat by its ID
// @Tags seats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Seat ID"
// @Success 204 "Seat deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid seat ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Seat not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /seats/{id} [delete]
func (c *CourseRunController) DeleteSeat(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.seatService.DeleteSeat(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
