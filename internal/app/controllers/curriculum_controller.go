package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/models/dto"
	"github.com/opencourse/discovery/internal/app/services"
	"github.com/opencourse/discovery/internal/middleware"
)

// CurriculumController handles curriculum and membership operations
type CurriculumController struct {
	curriculumService *services.CurriculumService
}

// NewCurriculumController creates a new CurriculumController
func NewCurriculumController(curriculumService *services.CurriculumService) *CurriculumController {
	return &CurriculumController{curriculumService: curriculumService}
}

// CreateCurriculum creates a new curriculum
// @Summary Create a curriculum
// @Description Creates a curriculum under a program
// @Tags curricula
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCurriculumRequest true "Curriculum information"
// @Success 201 {object} dto.APIResponse{data=models.Curriculum} "Curriculum created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /curricula [post]
func (c *CurriculumController) CreateCurriculum(ctx *gin.Context) {
	var req dto.CreateCurriculumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	curriculum := &models.Curriculum{
		ProgramID: req.ProgramID,
		Name:      req.Name,
		IsActive:  req.IsActive,
	}

	if err := c.curriculumService.CreateCurriculum(ctx, curriculum); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(curriculum))
}

// GetCurriculumByID retrieves a curriculum by ID
// @Summary Get curriculum by ID
// @Description Retrieves a specific curriculum by its ID
// @Tags curricula
// @Produce json
// @Param id path int true "Curriculum ID"
// @Success 200 {object} dto.APIResponse{data=models.Curriculum} "Curriculum retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid curriculum ID"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /curricula/{id} [get]
func (c *CurriculumController) GetCurriculumByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	curriculum, err := c.curriculumService.GetCurriculumByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(curriculum))
}

// ListCurricula retrieves the curricula of a program
// @Summary List curricula
// @Description Retrieves every curriculum of a program
// @Tags curricula
// @Produce json
// @Param programId query int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Curriculum} "Curricula retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid program ID"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /curricula [get]
func (c *CurriculumController) ListCurricula(ctx *gin.Context) {
	programID, err := strconv.ParseInt(ctx.Query("programId"), 10, 64)
	if err != nil || programID <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid program ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	curricula, err := c.curriculumService.ListCurriculaByProgram(ctx, programID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(curricula))
}

// UpdateCurriculum updates an existing curriculum
// @Summary Update a curriculum
// @Description Updates mutable fields of an existing curriculum
// @Tags curricula
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Curriculum ID"
// @Param request body dto.UpdateCurriculumRequest true "Updated curriculum information"
// @Success 200 {object} dto.APIResponse{data=models.Curriculum} "Curriculum updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /curricula/{id} [put]
func (c *CurriculumController) UpdateCurriculum(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCurriculumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	curriculum, err := c.curriculumService.GetCurriculumByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	curriculum.Name = req.Name
	curriculum.IsActive = req.IsActive

	if err := c.curriculumService.UpdateCurriculum(ctx, curriculum); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(curriculum))
}

// DeleteCurriculum deletes a curriculum
// @Summary Delete a curriculum
// @Description Deletes a curriculum and its course memberships
// @Tags curricula
// @Produce json
// @Security BearerAuth
// @Param id path int true "Curriculum ID"
// @Success 204 "Curriculum deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid curriculum ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /curricula/{id} [delete]
func (c *CurriculumController) DeleteCurriculum(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.curriculumService.DeleteCurriculum(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AddCourse ties a course into a curriculum
// @Summary Add a course to a curriculum
// @Description Creates a curriculum course membership. For masters programs this may provision masters seats on every run of the course.
// @Tags curricula
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Curriculum ID"
// @Param request body dto.AddCurriculumCourseRequest true "Course to add"
// @Success 201 {object} dto.APIResponse{data=models.CurriculumCourseMembership} "Course added successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Curriculum or course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already in curriculum"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /curricula/{id}/courses [post]
func (c *CurriculumController) AddCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddCurriculumCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	membership, err := c.curriculumService.AddCourse(ctx, id, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(membership))
}

// ListCourses retrieves the courses of a curriculum
// @Summary List curriculum courses
// @Description Retrieves every course tied into a curriculum
// @Tags curricula
// @Produce json
// @Param id path int true "Curriculum ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid curriculum ID"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /curricula/{id}/courses [get]
func (c *CurriculumController) ListCourses(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	courses, err := c.curriculumService.ListCourses(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// RemoveCourse removes a course from a curriculum
// @Summary Remove a course from a curriculum
// @Description Deletes the curriculum course membership
// @Tags curricula
// @Produce json
// @Security BearerAuth
// @Param id path int true "Curriculum ID"
// @Param courseId path int true "Course ID"
// @Success 204 "Course removed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Membership not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /curricula/{id}/courses/{courseId} [delete]
func (c *CurriculumController) RemoveCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	if err := c.curriculumService.RemoveCourse(ctx, id, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
