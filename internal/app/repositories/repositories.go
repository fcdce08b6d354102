package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencourse/discovery/internal/app/signals"
)

// Repositories bundles every repository over one connection pool. All
// repositories share the dispatcher so any write, whatever its entry point,
// emits a mutation event.
type Repositories struct {
	PartnerRepository     *PartnerRepository
	CourseRepository      *CourseRepository
	CourseRunRepository   *CourseRunRepository
	SeatRepository        *SeatRepository
	ProgramTypeRepository *ProgramTypeRepository
	ProgramRepository     *ProgramRepository
	CurriculumRepository  *CurriculumRepository
	SwitchRepository      *SwitchRepository
}

// NewRepositories creates all repositories.
func NewRepositories(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *Repositories {
	return &Repositories{
		PartnerRepository:     NewPartnerRepository(db, dispatcher),
		CourseRepository:      NewCourseRepository(db, dispatcher),
		CourseRunRepository:   NewCourseRunRepository(db, dispatcher),
		SeatRepository:        NewSeatRepository(db, dispatcher),
		ProgramTypeRepository: NewProgramTypeRepository(db, dispatcher),
		ProgramRepository:     NewProgramRepository(db, dispatcher),
		CurriculumRepository:  NewCurriculumRepository(db, dispatcher),
		SwitchRepository:      NewSwitchRepository(db, dispatcher),
	}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // 23505 is unique_violation
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation error.
func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503" // 23503 is foreign_key_violation
}
