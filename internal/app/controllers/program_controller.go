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

// ProgramController handles program and program type operations
type ProgramController struct {
	programService *services.ProgramService
}

// NewProgramController creates a new ProgramController
func NewProgramController(programService *services.ProgramService) *ProgramController {
	return &ProgramController{programService: programService}
}

// CreateProgramType registers a program type
// @Summary Create a program type
// @Description Registers a new program type such as masters or micromasters
// @Tags program-types
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProgramTypeRequest true "Program type information"
// @Success 201 {object} dto.APIResponse{data=models.ProgramType} "Program type created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Program type already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /program-types [post]
func (c *ProgramController) CreateProgramType(ctx *gin.Context) {
	var req dto.CreateProgramTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	programType := &models.ProgramType{
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := c.programService.CreateProgramType(ctx, programType); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(programType))
}

// GetAllProgramTypes retrieves all program types
// @Summary List program types
// @Description Retrieves all registered program types
// @Tags program-types
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.ProgramType} "Program types retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /program-types [get]
func (c *ProgramController) GetAllProgramTypes(ctx *gin.Context) {
	types, err := c.programService.GetAllProgramTypes(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(types))
}

// CreateProgram creates a new program
// @Summary Create a program
// @Description Creates a program of a given type under a partner
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProgramRequest true "Program information"
// @Success 201 {object} dto.APIResponse{data=models.Program} "Program created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Program type or partner not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs [post]
func (c *ProgramController) CreateProgram(ctx *gin.Context) {
	var req dto.CreateProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	program := &models.Program{
		Title:         req.Title,
		ProgramTypeID: req.ProgramTypeID,
		PartnerID:     req.PartnerID,
		Status:        models.ProgramStatus(req.Status),
	}

	if err := c.programService.CreateProgram(ctx, program); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(program))
}

// GetProgramByID retrieves a program by ID
// @Summary Get program by ID
// @Description Retrieves a specific program with its type
// @Tags programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=models.Program} "Program retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid program ID"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id} [get]
func (c *ProgramController) GetProgramByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	program, err := c.programService.GetProgramByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(program))
}

// ListPrograms retrieves a page of programs
// @Summary List programs
// @Description Retrieves a paginated list of programs, optionally filtered
// @Tags programs
// @Produce json
// @Param partnerId query int false "Filter by partner ID"
// @Param programTypeId query int false "Filter by program type ID"
// @Param status query string false "Filter by status" Enums(active, retired)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Programs retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs [get]
func (c *ProgramController) ListPrograms(ctx *gin.Context) {
	filter := repositories.ProgramFilter{
		Status: models.ProgramStatus(ctx.Query("status")),
	}
	if partnerIDStr := ctx.Query("partnerId"); partnerIDStr != "" {
		partnerID, err := strconv.ParseInt(partnerIDStr, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid partnerId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.PartnerID = partnerID
	}
	if typeIDStr := ctx.Query("programTypeId"); typeIDStr != "" {
		typeID, err := strconv.ParseInt(typeIDStr, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid programTypeId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.ProgramTypeID = typeID
	}

	page, size := helpers.ParsePaginationParams(ctx)

	programs, pagination, err := c.programService.ListPrograms(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      programs,
		Pagination: pagination,
	}))
}

// UpdateProgram updates an existing program
// @Summary Update a program
// @Description Updates mutable fields of an existing program
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param request body dto.UpdateProgramRequest true "Updated program information"
// @Success 200 {object} dto.APIResponse{data=models.Program} "Program updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id} [put]
func (c *ProgramController) UpdateProgram(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	program, err := c.programService.GetProgramByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	program.Title = req.Title
	program.Status = models.ProgramStatus(req.Status)

	if err := c.programService.UpdateProgram(ctx, program); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(program))
}

// DeleteProgram deletes a program
// @Summary Delete a program
// @Description Deletes a program and its curricula
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 204 "Program deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid program ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id} [delete]
func (c *ProgramController) DeleteProgram(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.programService.DeleteProgram(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
