package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/repositories"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
)

// PartnerService handles partner-related operations
type PartnerService struct {
	partnerRepo *repositories.PartnerRepository
}

// NewPartnerService creates a new partner service instance
func NewPartnerService(partnerRepo *repositories.PartnerRepository) *PartnerService {
	return &PartnerService{partnerRepo: partnerRepo}
}

// validatePartner validates partner data before database operations
func (s *PartnerService) validatePartner(partner *models.Partner) error {
	if partner == nil {
		return fmt.Errorf("%w: partner is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(partner.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(partner.ShortCode) == "" {
		return fmt.Errorf("%w: short code cannot be empty", apperrors.ErrValidationFailed)
	}
	if partner.LMSCommerceAPIURL != "" && !strings.HasSuffix(partner.LMSCommerceAPIURL, "/") {
		return fmt.Errorf("%w: commerce API URL must end with a slash", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreatePartner creates a new partner
func (s *PartnerService) CreatePartner(ctx context.Context, partner *models.Partner) error {
	if err := s.validatePartner(partner); err != nil {
		return err
	}

	partner.ShortCode = strings.ToLower(strings.TrimSpace(partner.ShortCode))

	if _, err := s.partnerRepo.Create(ctx, partner); err != nil {
		return err
	}
	return nil
}

// GetPartnerByID retrieves a partner by ID
func (s *PartnerService) GetPartnerByID(ctx context.Context, id int64) (*models.Partner, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid partner ID", apperrors.ErrValidationFailed)
	}
	return s.partnerRepo.GetByID(ctx, id)
}

// GetAllPartners retrieves all partners
func (s *PartnerService) GetAllPartners(ctx context.Context) ([]*models.Partner, error) {
	return s.partnerRepo.GetAll(ctx)
}

// UpdatePartner updates an existing partner
func (s *PartnerService) UpdatePartner(ctx context.Context, partner *models.Partner) error {
	if err := s.validatePartner(partner); err != nil {
		return err
	}
	if partner.ID <= 0 {
		return fmt.Errorf("%w: invalid partner ID", apperrors.ErrValidationFailed)
	}
	return s.partnerRepo.Update(ctx, partner)
}

// DeletePartner deletes a partner by ID
func (s *PartnerService) DeletePartner(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid partner ID", apperrors.ErrValidationFailed)
	}
	return s.partnerRepo.Delete(ctx, id)
}
