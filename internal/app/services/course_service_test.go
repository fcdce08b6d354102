package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Circuits and Electronics", "circuits-and-electronics"},
		{"  Intro  to   CS  ", "intro-to-cs"},
		{"Café Culture", "cafe-culture"},
		{"Research & Design", "research-and-design"},
		{"already-a-slug", "already-a-slug"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.title), "title %q", tc.title)
	}
}

func TestCourseService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewCourseService(nil, nil, nil)

	t.Run("Should reject a course without a key", func(t *testing.T) {
		err := svc.CreateCourse(ctx, &models.Course{Title: "Circuits"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("Should reject a course without a title", func(t *testing.T) {
		err := svc.CreateCourse(ctx, &models.Course{Key: "MITx+6.002x"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("Should reject non-positive IDs", func(t *testing.T) {
		_, err := svc.GetCourseByID(ctx, 0)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		err = svc.DeleteCourse(ctx, -1)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("Should reject a run ending before it starts", func(t *testing.T) {
		start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(-24 * time.Hour)
		err := svc.CreateCourseRun(ctx, &models.CourseRun{
			Key:   "course-v1:MITx+6.002x+1T2026",
			Start: &start,
			End:   &end,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestSeatService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewSeatService(nil, nil)

	t.Run("Should reject unknown seat types", func(t *testing.T) {
		err := svc.CreateSeat(ctx, &models.Seat{Type: "premium", CurrencyCode: "USD"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("Should reject negative prices", func(t *testing.T) {
		err := svc.CreateSeat(ctx, &models.Seat{Type: models.SeatTypeVerified, Price: -1, CurrencyCode: "USD"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("Should reject malformed currency codes", func(t *testing.T) {
		err := svc.CreateSeat(ctx, &models.Seat{Type: models.SeatTypeVerified, CurrencyCode: "dollars"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}
