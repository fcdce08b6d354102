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

// PartnerController handles partner-related operations
type PartnerController struct {
	partnerService *services.PartnerService
}

// NewPartnerController creates a new PartnerController
func NewPartnerController(partnerService *services.PartnerService) *PartnerController {
	return &PartnerController{partnerService: partnerService}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// CreatePartner handles partner registration
// @Summary Create a new partner
// @Description Registers a publishing partner with its LMS endpoints
// @Tags partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePartnerRequest true "Partner information"
// @Success 201 {object} dto.APIResponse{data=models.Partner} "Partner created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Partner already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /partners [post]
func (c *PartnerController) CreatePartner(ctx *gin.Context) {
	var req dto.CreatePartnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	partner := &models.Partner{
		Name:              req.Name,
		ShortCode:         req.ShortCode,
		LMSURL:            req.LMSURL,
		LMSCommerceAPIURL: req.LMSCommerceAPIURL,
	}

	if err := c.partnerService.CreatePartner(ctx, partner); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(partner))
}

// GetPartnerByID retrieves a partner by ID
// @Summary Get partner by ID
// @Description Retrieves a specific partner by its ID
// @Tags partners
// @Produce json
// @Param id path int true "Partner ID"
// @Success 200 {object} dto.APIResponse{data=models.Partner} "Partner retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid partner ID"
// @Failure 404 {object} dto.ErrorResponse "Partner not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /partners/{id} [get]
func (c *PartnerController) GetPartnerByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	partner, err := c.partnerService.GetPartnerByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(partner))
}

// GetAllPartners retrieves all partners
// @Summary Get all partners
// @Description Retrieves a list of all publishing partners
// @Tags partners
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Partner} "Partners retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /partners [get]
func (c *PartnerController) GetAllPartners(ctx *gin.Context) {
	partners, err := c.partnerService.GetAllPartners(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(partners))
}

// UpdatePartner updates an existing partner
// @Summary Update a partner
// @Description Updates mutable fields of an existing partner
// @Tags partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Param request body dto.UpdatePartnerRequest true "Updated partner information"
// @Success 200 {object} dto.APIResponse{data=models.Partner} "Partner updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Partner not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /partners/{id} [put]
func (c *PartnerController) UpdatePartner(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePartnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	partner, err := c.partnerService.GetPartnerByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	partner.Name = req.Name
	partner.LMSURL = req.LMSURL
	partner.LMSCommerceAPIURL = req.LMSCommerceAPIURL

	if err := c.partnerService.UpdatePartner(ctx, partner); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(partner))
}

// DeletePartner deletes a partner
// @Summary Delete a partner
// @Description Deletes a partner that has no courses
// @Tags partners
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Success 204 "Partner deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid partner ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Partner not found"
// @Failure 409 {object} dto.ErrorResponse "Partner has courses"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /partners/{id} [delete]
func (c *PartnerController) DeletePartner(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.partnerService.DeletePartner(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
