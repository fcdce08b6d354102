package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/repositories"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
)

// SeatService handles seat operations on course runs
type SeatService struct {
	seatRepo      *repositories.SeatRepository
	courseRunRepo *repositories.CourseRunRepository
}

// NewSeatService creates a new seat service instance
func NewSeatService(seatRepo *repositories.SeatRepository, courseRunRepo *repositories.CourseRunRepository) *SeatService {
	return &SeatService{
		seatRepo:      seatRepo,
		courseRunRepo: courseRunRepo,
	}
}

func isValidSeatType(t models.SeatType) bool {
	for _, v := range models.ValidSeatTypes {
		if t == v {
			return true
		}
	}
	return false
}

// CreateSeat adds a seat to a course run.
func (s *SeatService) CreateSeat(ctx context.Context, seat *models.Seat) error {
	if !isValidSeatType(seat.Type) {
		return fmt.Errorf("%w: unknown seat type %q", apperrors.ErrValidationFailed, seat.Type)
	}
	if seat.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidationFailed)
	}
	if len(seat.CurrencyCode) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", apperrors.ErrValidationFailed)
	}
	seat.CurrencyCode = strings.ToUpper(seat.CurrencyCode)

	if _, err := s.courseRunRepo.GetByID(ctx, seat.CourseRunID); err != nil {
		return err
	}

	if _, err := s.seatRepo.Create(ctx, seat); err != nil {
		return err
	}
	return nil
}

// GetSeatByID retrieves a seat by ID
func (s *SeatService) GetSeatByID(ctx context.Context, id int64) (*models.Seat, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid seat ID", apperrors.ErrValidationFailed)
	}
	return s.seatRepo.GetByID(ctx, id)
}

// ListSeatsByCourseRun retrieves all seats of a course run.
func (s *SeatService) ListSeatsByCourseRun(ctx context.Context, courseRunID int64) ([]*models.Seat, error) {
	if courseRunID <= 0 {
		return nil, fmt.Errorf("%w: invalid course run ID", apperrors.ErrValidationFailed)
	}

	if _, err := s.courseRunRepo.GetByID(ctx, courseRunID); err != nil {
		return nil, err
	}

	return s.seatRepo.ListByCourseRun(ctx, courseRunID)
}

// DeleteSeat deletes a seat by ID
func (s *SeatService) DeleteSeat(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid seat ID", apperrors.ErrValidationFailed)
	}
	return s.seatRepo.Delete(ctx, id)
}
