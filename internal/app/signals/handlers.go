package signals

import (
	"context"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/pkg/commerce"
	"github.com/opencourse/discovery/internal/pkg/logger"
)

// TimestampBumper invalidates the API cache.
type TimestampBumper interface {
	Bump(ctx context.Context) error
}

// SwitchChecker reports whether a feature switch is active. Unknown
// switches are inactive.
type SwitchChecker interface {
	IsActive(ctx context.Context, name string) bool
}

// CurriculumReader resolves the program type slug a curriculum belongs to.
type CurriculumReader interface {
	ProgramTypeSlug(ctx context.Context, curriculumID int64) (string, error)
}

// CourseRunReader lists a course's runs and resolves the commerce context
// of a single run.
type CourseRunReader interface {
	ListByCourse(ctx context.Context, courseID int64) ([]*models.CourseRun, error)
	CommerceContext(ctx context.Context, courseRunID int64) (*models.CommerceContext, error)
}

// SeatWriter creates masters seats and lists a run's seats.
type SeatWriter interface {
	EnsureMastersSeat(ctx context.Context, courseRunID int64) error
	ListByCourseRun(ctx context.Context, courseRunID int64) ([]*models.Seat, error)
}

// CommerceAPI pushes course modes to the partner LMS.
type CommerceAPI interface {
	UpdateCourseModes(ctx context.Context, commerceAPIURL, courseRunKey string, modes []commerce.CourseMode) (bool, error)
}

// RegisterCacheInvalidation bumps the API timestamp on every catalog model
// save or delete, so cached API pages built before the mutation stop being
// served.
func RegisterCacheInvalidation(d *Dispatcher, bumper TimestampBumper) {
	d.Connect(func(ctx context.Context, e Event) {
		if err := bumper.Bump(ctx); err != nil {
			logger.Warn().Err(err).Str("kind", string(e.Kind)).Msg("Failed to bump API cache timestamp")
		}
	}, CatalogKinds...)
}

// MastersSeatHandler creates a masters seat on every run of a course when
// the course joins a masters-program curriculum, provided the
// masters_course_mode_enabled switch is on.
type MastersSeatHandler struct {
	switches    SwitchChecker
	curriculums CurriculumReader
	courseRuns  CourseRunReader
	seats       SeatWriter
}

// NewMastersSeatHandler creates the handler.
func NewMastersSeatHandler(switches SwitchChecker, curriculums CurriculumReader, courseRuns CourseRunReader, seats SeatWriter) *MastersSeatHandler {
	return &MastersSeatHandler{
		switches:    switches,
		curriculums: curriculums,
		courseRuns:  courseRuns,
		seats:       seats,
	}
}

// Register connects the handler to membership saves.
func (h *MastersSeatHandler) Register(d *Dispatcher) {
	d.Connect(h.handle, KindMembership)
}

func (h *MastersSeatHandler) handle(ctx context.Context, e Event) {
	if e.Action != ActionSaved || !e.Created {
		return
	}
	membership, ok := e.Instance.(*models.CurriculumCourseMembership)
	if !ok {
		return
	}

	if !h.switches.IsActive(ctx, models.SwitchMastersCourseMode) {
		return
	}

	slug, err := h.curriculums.ProgramTypeSlug(ctx, membership.CurriculumID)
	if err != nil {
		logger.Error().Err(err).
			Int64("curriculumID", membership.CurriculumID).
			Msg("Failed to resolve program type for curriculum membership")
		return
	}
	if slug != models.ProgramTypeMasters {
		return
	}

	runs, err := h.courseRuns.ListByCourse(ctx, membership.CourseID)
	if err != nil {
		logger.Error().Err(err).
			Int64("courseID", membership.CourseID).
			Msg("Failed to list course runs for masters seat creation")
		return
	}

	for _, run := range runs {
		// Each created seat re-enters the dispatcher and triggers the
		// commerce push for its run.
		if err := h.seats.EnsureMastersSeat(ctx, run.ID); err != nil {
			logger.Error().Err(err).
				Str("courseRunKey", run.Key).
				Msg("Failed to create masters seat for course run")
		}
	}
}

// CommerceSyncHandler PUTs a course run's modes to the partner LMS commerce
// API whenever a masters seat is created on a run that belongs to a masters
// program.
type CommerceSyncHandler struct {
	switches   SwitchChecker
	courseRuns CourseRunReader
	seats      SeatWriter
	client     CommerceAPI
}

// NewCommerceSyncHandler creates the handler.
func NewCommerceSyncHandler(switches SwitchChecker, courseRuns CourseRunReader, seats SeatWriter, client CommerceAPI) *CommerceSyncHandler {
	return &CommerceSyncHandler{
		switches:   switches,
		courseRuns: courseRuns,
		seats:      seats,
		client:     client,
	}
}

// Register connects the handler to seat saves.
func (h *CommerceSyncHandler) Register(d *Dispatcher) {
	d.Connect(h.handle, KindSeat)
}

func (h *CommerceSyncHandler) handle(ctx context.Context, e Event) {
	if e.Action != ActionSaved || !e.Created {
		return
	}
	seat, ok := e.Instance.(*models.Seat)
	if !ok || seat.Type != models.SeatTypeMasters {
		return
	}

	if !h.switches.IsActive(ctx, models.SwitchMastersCourseMode) {
		return
	}

	cc, err := h.courseRuns.CommerceContext(ctx, seat.CourseRunID)
	if err != nil {
		logger.Error().Err(err).
			Int64("courseRunID", seat.CourseRunID).
			Msg("Failed to resolve commerce context for course run")
		return
	}
	if !cc.InMastersProgram || cc.LMSCommerceAPIURL == "" {
		return
	}

	seats, err := h.seats.ListByCourseRun(ctx, seat.CourseRunID)
	if err != nil {
		logger.Error().Err(err).
			Str("courseRunKey", cc.CourseRunKey).
			Msg("Failed to list seats for commerce push")
		return
	}

	ok, err = h.client.UpdateCourseModes(ctx, cc.LMSCommerceAPIURL, cc.CourseRunKey, commerce.ModesForSeats(seats))
	if err != nil || !ok {
		logger.Error().Err(err).
			Msgf("Failed to add masters course_mode to course_run [%s] in commerce api to LMS.", cc.CourseRunKey)
	}
}
