package services

import (
	"context"
	"fmt"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/repositories"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
)

// CurriculumService handles curriculum and course membership operations
type CurriculumService struct {
	curriculumRepo *repositories.CurriculumRepository
	programRepo    *repositories.ProgramRepository
	courseRepo     *repositories.CourseRepository
}

// NewCurriculumService creates a new curriculum service instance
func NewCurriculumService(curriculumRepo *repositories.CurriculumRepository, programRepo *repositories.ProgramRepository, courseRepo *repositories.CourseRepository) *CurriculumService {
	return &CurriculumService{
		curriculumRepo: curriculumRepo,
		programRepo:    programRepo,
		courseRepo:     courseRepo,
	}
}

// CreateCurriculum creates a new curriculum under a program.
func (s *CurriculumService) CreateCurriculum(ctx context.Context, curriculum *models.Curriculum) error {
	if curriculum.ProgramID <= 0 {
		return fmt.Errorf("%w: invalid program ID", apperrors.ErrValidationFailed)
	}

	if _, err := s.programRepo.GetByID(ctx, curriculum.ProgramID); err != nil {
		return err
	}

	if _, err := s.curriculumRepo.Create(ctx, curriculum); err != nil {
		return err
	}
	return nil
}

// GetCurriculumByID retrieves a curriculum by ID
func (s *CurriculumService) GetCurriculumByID(ctx context.Context, id int64) (*models.Curriculum, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid curriculum ID", apperrors.ErrValidationFailed)
	}
	return s.curriculumRepo.GetByID(ctx, id)
}

// ListCurriculaByProgram retrieves every curriculum of a program.
func (s *CurriculumService) ListCurriculaByProgram(ctx context.Context, programID int64) ([]*models.Curriculum, error) {
	if programID <= 0 {
		return nil, fmt.Errorf("%w: invalid program ID", apperrors.ErrValidationFailed)
	}

	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		return nil, err
	}

	return s.curriculumRepo.ListByProgram(ctx, programID)
}

// UpdateCurriculum updates an existing curriculum
func (s *CurriculumService) UpdateCurriculum(ctx context.Context, curriculum *models.Curriculum) error {
	if curriculum.ID <= 0 {
		return fmt.Errorf("%w: invalid curriculum ID", apperrors.ErrValidationFailed)
	}
	return s.curriculumRepo.Update(ctx, curriculum)
}

// DeleteCurriculum deletes a curriculum by ID
func (s *CurriculumService) DeleteCurriculum(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid curriculum ID", apperrors.ErrValidationFailed)
	}
	return s.curriculumRepo.Delete(ctx, id)
}

// AddCourse ties a course into a curriculum. Downstream, the membership
// event may provision masters seats on the course's runs.
func (s *CurriculumService) AddCourse(ctx context.Context, curriculumID, courseID int64) (*models.CurriculumCourseMembership, error) {
	if curriculumID <= 0 {
		return nil, fmt.Errorf("%w: invalid curriculum ID", apperrors.ErrValidationFailed)
	}
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	if _, err := s.curriculumRepo.GetByID(ctx, curriculumID); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	return s.curriculumRepo.AddCourse(ctx, curriculumID, courseID)
}

// RemoveCourse removes a course from a curriculum.
func (s *CurriculumService) RemoveCourse(ctx context.Context, curriculumID, courseID int64) error {
	if curriculumID <= 0 {
		return fmt.Errorf("%w: invalid curriculum ID", apperrors.ErrValidationFailed)
	}
	if courseID <= 0 {
		return fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}
	return s.curriculumRepo.RemoveCourse(ctx, curriculumID, courseID)
}

// ListCourses retrieves the courses of a curriculum.
func (s *CurriculumService) ListCourses(ctx context.Context, curriculumID int64) ([]*models.Course, error) {
	if curriculumID <= 0 {
		return nil, fmt.Errorf("%w: invalid curriculum ID", apperrors.ErrValidationFailed)
	}

	if _, err := s.curriculumRepo.GetByID(ctx, curriculumID); err != nil {
		return nil, err
	}

	return s.curriculumRepo.ListCourses(ctx, curriculumID)
}
