package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/models/dto"
	"github.com/opencourse/discovery/internal/app/services"
	"github.com/opencourse/discovery/internal/middleware"
)

// SwitchController handles feature switch operations
type SwitchController struct {
	waffleService *services.WaffleService
}

// NewSwitchController creates a new SwitchController
func NewSwitchController(waffleService *services.WaffleService) *SwitchController {
	return &SwitchController{waffleService: waffleService}
}

// GetAllSwitches retrieves all switches
// @Summary List feature switches
// @Description Retrieves every feature switch and its state
// @Tags switches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Switch} "Switches retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /switches [get]
func (c *SwitchController) GetAllSwitches(ctx *gin.Context) {
	switches, err := c.waffleService.GetAllSwitches(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(switches))
}

// GetSwitch retrieves a switch by name
// @Summary Get a feature switch
// @Description Retrieves a feature switch by name
// @Tags switches
// @Produce json
// @Security BearerAuth
// @Param name path string true "Switch name"
// @Success 200 {object} dto.APIResponse{data=models.Switch} "Switch retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Switch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /switches/{name} [get]
func (c *SwitchController) GetSwitch(ctx *gin.Context) {
	name := ctx.Param("name")

	sw, err := c.waffleService.GetSwitch(ctx, name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sw))
}

// SetSwitch creates or toggles a switch
// @Summary Set a feature switch
// @Description Creates the named switch or updates its active state
// @Tags switches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Switch name"
// @Param request body dto.UpdateSwitchRequest true "Switch state"
// @Success 200 {object} dto.APIResponse{data=models.Switch} "Switch updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /switches/{name} [put]
func (c *SwitchController) SetSwitch(ctx *gin.Context) {
	name := ctx.Param("name")

	var req dto.UpdateSwitchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	sw := &models.Switch{
		Name:   name,
		Active: req.Active,
		Note:   req.Note,
	}

	if err := c.waffleService.SetSwitch(ctx, sw); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sw))
}
