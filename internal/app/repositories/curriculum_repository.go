package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/signals"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
	"github.com/opencourse/discovery/internal/pkg/logger"
)

// CurriculumRepository handles curriculum and membership database operations
type CurriculumRepository struct {
	db         *pgxpool.Pool
	dispatcher *signals.Dispatcher
	sb         squirrel.StatementBuilderType
}

// NewCurriculumRepository creates a new CurriculumRepository
func NewCurriculumRepository(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *CurriculumRepository {
	return &CurriculumRepository{
		db:         db,
		dispatcher: dispatcher,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var curriculumColumns = []string{"id", "uuid", "program_id", "name", "is_active", "created_at", "updated_at"}

func scanCurriculum(row pgx.Row) (*models.Curriculum, error) {
	c := &models.Curriculum{}
	err := row.Scan(&c.ID, &c.UUID, &c.ProgramID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create creates a new curriculum
func (r *CurriculumRepository) Create(ctx context.Context, curriculum *models.Curriculum) (int64, error) {
	if curriculum.UUID == uuid.Nil {
		curriculum.UUID = uuid.New()
	}

	sql, args, err := r.sb.Insert("curricula").
		Columns("uuid", "program_id", "name", "is_active").
		Values(curriculum.UUID, curriculum.ProgramID, curriculum.Name, curriculum.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create curriculum SQL")
		return 0, fmt.Errorf("failed to build create curriculum query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&curriculum.ID, &curriculum.CreatedAt, &curriculum.UpdatedAt)
	if err != nil {
		if isForeignKeyError(err) {
			return 0, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Msg("Error executing create curriculum query")
		return 0, fmt.Errorf("error creating curriculum: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCurriculum, Action: signals.ActionSaved, Created: true, Instance: curriculum})
	return curriculum.ID, nil
}

// GetByID retrieves a curriculum by ID
func (r *CurriculumRepository) GetByID(ctx context.Context, id int64) (*models.Curriculum, error) {
	sql, args, err := r.sb.Select(curriculumColumns...).
		From("curricula").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get curriculum by ID SQL")
		return nil, fmt.Errorf("failed to build get curriculum query: %w", err)
	}

	curriculum, err := scanCurriculum(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCurriculumNotFound
		}
		logger.Error().Err(err).Int64("curriculumID", id).Msg("Error scanning curriculum row")
		return nil, fmt.Errorf("error getting curriculum by ID: %w", err)
	}

	return curriculum, nil
}

// ListByProgram retrieves every curriculum of a program.
func (r *CurriculumRepository) ListByProgram(ctx context.Context, programID int64) ([]*models.Curriculum, error) {
	sql, args, err := r.sb.Select(curriculumColumns...).
		From("curricula").
		Where(squirrel.Eq{"program_id": programID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list curricula SQL")
		return nil, fmt.Errorf("failed to build list curricula query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("programID", programID).Msg("Error executing list curricula query")
		return nil, fmt.Errorf("error querying curricula: %w", err)
	}
	defer rows.Close()

	curricula := []*models.Curriculum{}
	for rows.Next() {
		curriculum, err := scanCurriculum(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning curriculum row")
			return nil, fmt.Errorf("error scanning curriculum row: %w", err)
		}
		curricula = append(curricula, curriculum)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating curriculum rows")
		return nil, fmt.Errorf("error iterating curriculum rows: %w", err)
	}

	return curricula, nil
}

// Update updates an existing curriculum
func (r *CurriculumRepository) Update(ctx context.Context, curriculum *models.Curriculum) error {
	sql, args, err := r.sb.Update("curricula").
		SetMap(map[string]interface{}{
			"name":       curriculum.Name,
			"is_active":  curriculum.IsActive,
			"updated_at": squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": curriculum.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update curriculum SQL")
		return fmt.Errorf("failed to build update curriculum query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("curriculumID", curriculum.ID).Msg("Error executing update curriculum query")
		return fmt.Errorf("error updating curriculum: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCurriculumNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCurriculum, Action: signals.ActionSaved, Instance: curriculum})
	return nil
}

// Delete deletes a curriculum by ID. Memberships cascade.
func (r *CurriculumRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("curricula").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete curriculum SQL")
		return fmt.Errorf("failed to build delete curriculum query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("curriculumID", id).Msg("Error executing delete curriculum query")
		return fmt.Errorf("error deleting curriculum: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCurriculumNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCurriculum, Action: signals.ActionDeleted, Instance: &models.Curriculum{ID: id}})
	return nil
}

// AddCourse ties a course into the curriculum. The membership-created event
// this emits is what drives the masters seat side effect.
func (r *CurriculumRepository) AddCourse(ctx context.Context, curriculumID, courseID int64) (*models.CurriculumCourseMembership, error) {
	sql, args, err := r.sb.Insert("curriculum_course_memberships").
		Columns("curriculum_id", "course_id").
		Values(curriculumID, courseID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add curriculum course SQL")
		return nil, fmt.Errorf("failed to build add curriculum course query: %w", err)
	}

	membership := &models.CurriculumCourseMembership{
		CurriculumID: curriculumID,
		CourseID:     courseID,
	}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&membership.ID, &membership.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, apperrors.ErrMembershipAlreadyExists
		}
		if isForeignKeyError(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Msg("Error executing add curriculum course query")
		return nil, fmt.Errorf("error adding course to curriculum: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindMembership, Action: signals.ActionSaved, Created: true, Instance: membership})
	return membership, nil
}

// RemoveCourse removes a course from the curriculum.
func (r *CurriculumRepository) RemoveCourse(ctx context.Context, curriculumID, courseID int64) error {
	sql, args, err := r.sb.Delete("curriculum_course_memberships").
		Where(squirrel.Eq{"curriculum_id": curriculumID, "course_id": courseID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove curriculum course SQL")
		return fmt.Errorf("failed to build remove curriculum course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("curriculumID", curriculumID).Int64("courseID", courseID).Msg("Error executing remove curriculum course query")
		return fmt.Errorf("error removing course from curriculum: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMembershipNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindMembership, Action: signals.ActionDeleted, Instance: &models.CurriculumCourseMembership{CurriculumID: curriculumID, CourseID: courseID}})
	return nil
}

// ListCourses retrieves the courses of a curriculum in membership order.
func (r *CurriculumRepository) ListCourses(ctx context.Context, curriculumID int64) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.uuid", "c.partner_id", "c.key", "c.title", "c.url_slug", "c.short_description", "c.draft", "c.created_at", "c.updated_at").
		From("curriculum_course_memberships m").
		Join("courses c ON c.id = m.course_id").
		Where(squirrel.Eq{"m.curriculum_id": curriculumID}).
		OrderBy("m.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list curriculum courses SQL")
		return nil, fmt.Errorf("failed to build list curriculum courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("curriculumID", curriculumID).Msg("Error executing list curriculum courses query")
		return nil, fmt.Errorf("error querying curriculum courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// ProgramTypeSlug resolves the program type slug of the curriculum's program.
func (r *CurriculumRepository) ProgramTypeSlug(ctx context.Context, curriculumID int64) (string, error) {
	sql, args, err := r.sb.Select("pt.slug").
		From("curricula cu").
		Join("programs p ON p.id = cu.program_id").
		Join("program_types pt ON pt.id = p.program_type_id").
		Where(squirrel.Eq{"cu.id": curriculumID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building program type slug SQL")
		return "", fmt.Errorf("failed to build program type slug query: %w", err)
	}

	var slug string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrCurriculumNotFound
		}
		logger.Error().Err(err).Int64("curriculumID", curriculumID).Msg("Error resolving program type slug")
		return "", fmt.Errorf("error resolving program type slug: %w", err)
	}

	return slug, nil
}
