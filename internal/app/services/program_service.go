package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/models/dto"
	"github.com/opencourse/discovery/internal/app/repositories"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
	"github.com/opencourse/discovery/internal/pkg/helpers"
)

// ProgramService handles program and program type operations
type ProgramService struct {
	programRepo     *repositories.ProgramRepository
	programTypeRepo *repositories.ProgramTypeRepository
	partnerRepo     *repositories.PartnerRepository
}

// NewProgramService creates a new program service instance
func NewProgramService(programRepo *repositories.ProgramRepository, programTypeRepo *repositories.ProgramTypeRepository, partnerRepo *repositories.PartnerRepository) *ProgramService {
	return &ProgramService{
		programRepo:     programRepo,
		programTypeRepo: programTypeRepo,
		partnerRepo:     partnerRepo,
	}
}

// CreateProgramType registers a new program type.
func (s *ProgramService) CreateProgramType(ctx context.Context, programType *models.ProgramType) error {
	if strings.TrimSpace(programType.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	programType.Slug = strings.ToLower(strings.TrimSpace(programType.Slug))
	if programType.Slug == "" {
		return fmt.Errorf("%w: slug cannot be empty", apperrors.ErrValidationFailed)
	}

	if _, err := s.programTypeRepo.Create(ctx, programType); err != nil {
		return err
	}
	return nil
}

// GetAllProgramTypes retrieves all program types
func (s *ProgramService) GetAllProgramTypes(ctx context.Context) ([]*models.ProgramType, error) {
	return s.programTypeRepo.GetAll(ctx)
}

// CreateProgram creates a new program
func (s *ProgramService) CreateProgram(ctx context.Context, program *models.Program) error {
	if strings.TrimSpace(program.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}

	if _, err := s.programTypeRepo.GetByID(ctx, program.ProgramTypeID); err != nil {
		return err
	}
	if _, err := s.partnerRepo.GetByID(ctx, program.PartnerID); err != nil {
		return err
	}

	if _, err := s.programRepo.Create(ctx, program); err != nil {
		return err
	}
	return nil
}

// GetProgramByID retrieves a program by ID with its type preloaded.
func (s *ProgramService) GetProgramByID(ctx context.Context, id int64) (*models.Program, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid program ID", apperrors.ErrValidationFailed)
	}
	return s.programRepo.GetByID(ctx, id)
}

// ListPrograms retrieves a page of programs with pagination info.
func (s *ProgramService) ListPrograms(ctx context.Context, filter repositories.ProgramFilter, page, size int) ([]*models.Program, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	programs, err := s.programRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	total, err := s.programRepo.Count(ctx, filter)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return programs, helpers.NewPaginationInfo(total, page, limit), nil
}

// UpdateProgram updates an existing program
func (s *ProgramService) UpdateProgram(ctx context.Context, program *models.Program) error {
	if program.ID <= 0 {
		return fmt.Errorf("%w: invalid program ID", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(program.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	return s.programRepo.Update(ctx, program)
}

// DeleteProgram deletes a program by ID
func (s *ProgramService) DeleteProgram(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid program ID", apperrors.ErrValidationFailed)
	}
	return s.programRepo.Delete(ctx, id)
}
