package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/models/dto"
	"github.com/opencourse/discovery/internal/app/repositories"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
	"github.com/opencourse/discovery/internal/pkg/helpers"
)

// CourseService handles course and course run operations
type CourseService struct {
	courseRepo    *repositories.CourseRepository
	courseRunRepo *repositories.CourseRunRepository
	partnerRepo   *repositories.PartnerRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo *repositories.CourseRepository, courseRunRepo *repositories.CourseRunRepository, partnerRepo *repositories.PartnerRepository) *CourseService {
	return &CourseService{
		courseRepo:    courseRepo,
		courseRunRepo: courseRunRepo,
		partnerRepo:   partnerRepo,
	}
}

// slugify derives a url slug from a title. Non-ASCII letters are
// transliterated rather than dropped.
func slugify(title string) string {
	return slug.Make(title)
}

// CreateCourse creates a new course under a partner. An empty url slug is
// derived from the title.
func (s *CourseService) CreateCourse(ctx context.Context, course *models.Course) error {
	if strings.TrimSpace(course.Key) == "" {
		return fmt.Errorf("%w: key cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(course.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}

	if _, err := s.partnerRepo.GetByID(ctx, course.PartnerID); err != nil {
		return err
	}

	if course.URLSlug == "" {
		course.URLSlug = slugify(course.Title)
	}

	if _, err := s.courseRepo.Create(ctx, course); err != nil {
		return err
	}
	return nil
}

// GetCourseByID retrieves a course by ID
func (s *CourseService) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses retrieves a page of courses with pagination info.
func (s *CourseService) ListCourses(ctx context.Context, filter repositories.CourseFilter, page, size int) ([]*models.Course, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	courses, err := s.courseRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	total, err := s.courseRepo.Count(ctx, filter)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return courses, helpers.NewPaginationInfo(total, page, limit), nil
}

// UpdateCourse updates an existing course
func (s *CourseService) UpdateCourse(ctx context.Context, course *models.Course) error {
	if course.ID <= 0 {
		return fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(course.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	if course.URLSlug == "" {
		course.URLSlug = slugify(course.Title)
	}
	return s.courseRepo.Update(ctx, course)
}

// DeleteCourse deletes a course by ID
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}
	return s.courseRepo.Delete(ctx, id)
}

// CreateCourseRun schedules a new run of a course.
func (s *CourseService) CreateCourseRun(ctx context.Context, run *models.CourseRun) error {
	if strings.TrimSpace(run.Key) == "" {
		return fmt.Errorf("%w: key cannot be empty", apperrors.ErrValidationFailed)
	}
	if run.Start != nil && run.End != nil && run.End.Before(*run.Start) {
		return fmt.Errorf("%w: end date must not precede start date", apperrors.ErrValidationFailed)
	}

	if _, err := s.courseRepo.GetByID(ctx, run.CourseID); err != nil {
		return err
	}

	if _, err := s.courseRunRepo.Create(ctx, run); err != nil {
		return err
	}
	return nil
}

// GetCourseRunByID retrieves a course run by ID
func (s *CourseService) GetCourseRunByID(ctx context.Context, id int64) (*models.CourseRun, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid course run ID", apperrors.ErrValidationFailed)
	}
	return s.courseRunRepo.GetByID(ctx, id)
}

// ListCourseRuns retrieves a page of course runs with pagination info.
func (s *CourseService) ListCourseRuns(ctx context.Context, filter repositories.CourseRunFilter, page, size int) ([]*models.CourseRun, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	runs, err := s.courseRunRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	total, err := s.courseRunRepo.Count(ctx, filter)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return runs, helpers.NewPaginationInfo(total, page, limit), nil
}

// UpdateCourseRun updates an existing course run
func (s *CourseService) UpdateCourseRun(ctx context.Context, run *models.CourseRun) error {
	if run.ID <= 0 {
		return fmt.Errorf("%w: invalid course run ID", apperrors.ErrValidationFailed)
	}
	if run.Start != nil && run.End != nil && run.End.Before(*run.Start) {
		return fmt.Errorf("%w: end date must not precede start date", apperrors.ErrValidationFailed)
	}
	return s.courseRunRepo.Update(ctx, run)
}

// DeleteCourseRun deletes a course run by ID
func (s *CourseService) DeleteCourseRun(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid course run ID", apperrors.ErrValidationFailed)
	}
	return s.courseRunRepo.Delete(ctx, id)
}
