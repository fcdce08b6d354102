package signals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/pkg/commerce"
)

type fakeSwitches struct {
	active map[string]bool
}

func (f *fakeSwitches) IsActive(ctx context.Context, name string) bool {
	return f.active[name]
}

type MockCurriculumReader struct {
	mock.Mock
}

func (m *MockCurriculumReader) ProgramTypeSlug(ctx context.Context, curriculumID int64) (string, error) {
	args := m.Called(ctx, curriculumID)
	return args.String(0), args.Error(1)
}

type MockCourseRunReader struct {
	mock.Mock
}

func (m *MockCourseRunReader) ListByCourse(ctx context.Context, courseID int64) ([]*models.CourseRun, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CourseRun), args.Error(1)
}

func (m *MockCourseRunReader) CommerceContext(ctx context.Context, courseRunID int64) (*models.CommerceContext, error) {
	args := m.Called(ctx, courseRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommerceContext), args.Error(1)
}

type MockSeatWriter struct {
	mock.Mock
}

func (m *MockSeatWriter) EnsureMastersSeat(ctx context.Context, courseRunID int64) error {
	args := m.Called(ctx, courseRunID)
	return args.Error(0)
}

func (m *MockSeatWriter) ListByCourseRun(ctx context.Context, courseRunID int64) ([]*models.Seat, error) {
	args := m.Called(ctx, courseRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Seat), args.Error(1)
}

type MockCommerceAPI struct {
	mock.Mock
}

func (m *MockCommerceAPI) UpdateCourseModes(ctx context.Context, commerceAPIURL, courseRunKey string, modes []commerce.CourseMode) (bool, error) {
	args := m.Called(ctx, commerceAPIURL, courseRunKey, modes)
	return args.Bool(0), args.Error(1)
}

func mastersOn() *fakeSwitches {
	return &fakeSwitches{active: map[string]bool{models.SwitchMastersCourseMode: true}}
}

func membershipEvent(curriculumID, courseID int64) Event {
	return Event{
		Kind:    KindMembership,
		Action:  ActionSaved,
		Created: true,
		Instance: &models.CurriculumCourseMembership{
			ID:           1,
			CurriculumID: curriculumID,
			CourseID:     courseID,
		},
	}
}

func TestMastersSeatHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a masters seat on every run of the course", func(t *testing.T) {
		curriculums := &MockCurriculumReader{}
		courseRuns := &MockCourseRunReader{}
		seats := &MockSeatWriter{}
		h := NewMastersSeatHandler(mastersOn(), curriculums, courseRuns, seats)

		curriculums.On("ProgramTypeSlug", ctx, int64(7)).Return(models.ProgramTypeMasters, nil)
		courseRuns.On("ListByCourse", ctx, int64(3)).Return([]*models.CourseRun{
			{ID: 10, Key: "course-v1:MITx+6.002x+1T2026"},
			{ID: 11, Key: "course-v1:MITx+6.002x+2T2026"},
		}, nil)
		seats.On("EnsureMastersSeat", ctx, int64(10)).Return(nil)
		seats.On("EnsureMastersSeat", ctx, int64(11)).Return(nil)

		h.handle(ctx, membershipEvent(7, 3))

		seats.AssertExpectations(t)
	})

	t.Run("Should do nothing when the switch is off", func(t *testing.T) {
		curriculums := &MockCurriculumReader{}
		seats := &MockSeatWriter{}
		h := NewMastersSeatHandler(&fakeSwitches{}, curriculums, &MockCourseRunReader{}, seats)

		h.handle(ctx, membershipEvent(7, 3))

		curriculums.AssertNotCalled(t, "ProgramTypeSlug", mock.Anything, mock.Anything)
		seats.AssertNotCalled(t, "EnsureMastersSeat", mock.Anything, mock.Anything)
	})

	t.Run("Should do nothing for non-masters programs", func(t *testing.T) {
		curriculums := &MockCurriculumReader{}
		courseRuns := &MockCourseRunReader{}
		seats := &MockSeatWriter{}
		h := NewMastersSeatHandler(mastersOn(), curriculums, courseRuns, seats)

		curriculums.On("ProgramTypeSlug", ctx, int64(7)).Return("micromasters", nil)

		h.handle(ctx, membershipEvent(7, 3))

		courseRuns.AssertNotCalled(t, "ListByCourse", mock.Anything, mock.Anything)
		seats.AssertNotCalled(t, "EnsureMastersSeat", mock.Anything, mock.Anything)
	})

	t.Run("Should ignore membership updates that did not create a row", func(t *testing.T) {
		curriculums := &MockCurriculumReader{}
		h := NewMastersSeatHandler(mastersOn(), curriculums, &MockCourseRunReader{}, &MockSeatWriter{})

		e := membershipEvent(7, 3)
		e.Created = false
		h.handle(ctx, e)

		curriculums.AssertNotCalled(t, "ProgramTypeSlug", mock.Anything, mock.Anything)
	})

	t.Run("Should keep going when one run's seat creation fails", func(t *testing.T) {
		curriculums := &MockCurriculumReader{}
		courseRuns := &MockCourseRunReader{}
		seats := &MockSeatWriter{}
		h := NewMastersSeatHandler(mastersOn(), curriculums, courseRuns, seats)

		curriculums.On("ProgramTypeSlug", ctx, int64(7)).Return(models.ProgramTypeMasters, nil)
		courseRuns.On("ListByCourse", ctx, int64(3)).Return([]*models.CourseRun{
			{ID: 10, Key: "run-a"},
			{ID: 11, Key: "run-b"},
		}, nil)
		seats.On("EnsureMastersSeat", ctx, int64(10)).Return(errors.New("db down"))
		seats.On("EnsureMastersSeat", ctx, int64(11)).Return(nil)

		h.handle(ctx, membershipEvent(7, 3))

		seats.AssertExpectations(t)
	})
}

func mastersSeatEvent(courseRunID int64) Event {
	return Event{
		Kind:    KindSeat,
		Action:  ActionSaved,
		Created: true,
		Instance: &models.Seat{
			ID:           20,
			CourseRunID:  courseRunID,
			Type:         models.SeatTypeMasters,
			CurrencyCode: "USD",
		},
	}
}

func TestCommerceSyncHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Should push all of the run's modes to the commerce API", func(t *testing.T) {
		courseRuns := &MockCourseRunReader{}
		seats := &MockSeatWriter{}
		client := &MockCommerceAPI{}
		h := NewCommerceSyncHandler(mastersOn(), courseRuns, seats, client)

		courseRuns.On("CommerceContext", ctx, int64(5)).Return(&models.CommerceContext{
			CourseRunKey:      "course-v1:MITx+6.002x+1T2026",
			LMSCommerceAPIURL: "https://lms.example.com/api/commerce/v1/",
			InMastersProgram:  true,
		}, nil)
		runSeats := []*models.Seat{
			{CourseRunID: 5, Type: models.SeatTypeVerified, Price: 100, CurrencyCode: "USD"},
			{CourseRunID: 5, Type: models.SeatTypeMasters, CurrencyCode: "USD"},
		}
		seats.On("ListByCourseRun", ctx, int64(5)).Return(runSeats, nil)
		client.On("UpdateCourseModes", ctx,
			"https://lms.example.com/api/commerce/v1/",
			"course-v1:MITx+6.002x+1T2026",
			commerce.ModesForSeats(runSeats),
		).Return(true, nil)

		h.handle(ctx, mastersSeatEvent(5))

		client.AssertExpectations(t)
	})

	t.Run("Should ignore non-masters seats", func(t *testing.T) {
		courseRuns := &MockCourseRunReader{}
		client := &MockCommerceAPI{}
		h := NewCommerceSyncHandler(mastersOn(), courseRuns, &MockSeatWriter{}, client)

		e := mastersSeatEvent(5)
		e.Instance = &models.Seat{CourseRunID: 5, Type: models.SeatTypeVerified}
		h.handle(ctx, e)

		courseRuns.AssertNotCalled(t, "CommerceContext", mock.Anything, mock.Anything)
		client.AssertNotCalled(t, "UpdateCourseModes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should do nothing when the switch is off", func(t *testing.T) {
		courseRuns := &MockCourseRunReader{}
		h := NewCommerceSyncHandler(&fakeSwitches{}, courseRuns, &MockSeatWriter{}, &MockCommerceAPI{})

		h.handle(ctx, mastersSeatEvent(5))

		courseRuns.AssertNotCalled(t, "CommerceContext", mock.Anything, mock.Anything)
	})

	t.Run("Should not push for runs outside masters programs", func(t *testing.T) {
		courseRuns := &MockCourseRunReader{}
		client := &MockCommerceAPI{}
		h := NewCommerceSyncHandler(mastersOn(), courseRuns, &MockSeatWriter{}, client)

		courseRuns.On("CommerceContext", ctx, int64(5)).Return(&models.CommerceContext{
			CourseRunKey:      "run",
			LMSCommerceAPIURL: "https://lms.example.com/api/commerce/v1/",
			InMastersProgram:  false,
		}, nil)

		h.handle(ctx, mastersSeatEvent(5))

		client.AssertNotCalled(t, "UpdateCourseModes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should not push when the partner has no commerce API URL", func(t *testing.T) {
		courseRuns := &MockCourseRunReader{}
		client := &MockCommerceAPI{}
		h := NewCommerceSyncHandler(mastersOn(), courseRuns, &MockSeatWriter{}, client)

		courseRuns.On("CommerceContext", ctx, int64(5)).Return(&models.CommerceContext{
			CourseRunKey:     "run",
			InMastersProgram: true,
		}, nil)

		h.handle(ctx, mastersSeatEvent(5))

		client.AssertNotCalled(t, "UpdateCourseModes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should survive a failed push", func(t *testing.T) {
		courseRuns := &MockCourseRunReader{}
		seats := &MockSeatWriter{}
		client := &MockCommerceAPI{}
		h := NewCommerceSyncHandler(mastersOn(), courseRuns, seats, client)

		courseRuns.On("CommerceContext", ctx, int64(5)).Return(&models.CommerceContext{
			CourseRunKey:      "run",
			LMSCommerceAPIURL: "https://lms.example.com/api/commerce/v1/",
			InMastersProgram:  true,
		}, nil)
		seats.On("ListByCourseRun", ctx, int64(5)).Return([]*models.Seat{}, nil)
		client.On("UpdateCourseModes", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(false, errors.New("lms unreachable"))

		assert.NotPanics(t, func() {
			h.handle(ctx, mastersSeatEvent(5))
		})
	})
}

// A membership save should chain through to a commerce push when the seat
// writer reports the created seat back through the dispatcher.
func TestMastersSeatChain(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher()

	curriculums := &MockCurriculumReader{}
	courseRuns := &MockCourseRunReader{}
	seats := &MockSeatWriter{}
	client := &MockCommerceAPI{}

	NewMastersSeatHandler(mastersOn(), curriculums, courseRuns, seats).Register(d)
	NewCommerceSyncHandler(mastersOn(), courseRuns, seats, client).Register(d)

	curriculums.On("ProgramTypeSlug", ctx, int64(7)).Return(models.ProgramTypeMasters, nil)
	courseRuns.On("ListByCourse", ctx, int64(3)).Return([]*models.CourseRun{{ID: 10, Key: "run"}}, nil)
	seats.On("EnsureMastersSeat", ctx, int64(10)).Run(func(args mock.Arguments) {
		d.Send(ctx, mastersSeatEvent(10))
	}).Return(nil)
	courseRuns.On("CommerceContext", ctx, int64(10)).Return(&models.CommerceContext{
		CourseRunKey:      "run",
		LMSCommerceAPIURL: "https://lms.example.com/api/commerce/v1/",
		InMastersProgram:  true,
	}, nil)
	runSeats := []*models.Seat{{CourseRunID: 10, Type: models.SeatTypeMasters, CurrencyCode: "USD"}}
	seats.On("ListByCourseRun", ctx, int64(10)).Return(runSeats, nil)
	client.On("UpdateCourseModes", ctx, mock.Anything, "run", commerce.ModesForSeats(runSeats)).Return(true, nil)

	d.Send(ctx, membershipEvent(7, 3))

	client.AssertExpectations(t)
	seats.AssertExpectations(t)
}
