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

// CourseRunFilter narrows course run listings.
type CourseRunFilter struct {
	CourseID int64
	Status   models.CourseRunStatus
}

// CourseRunRepository handles course run database operations
type CourseRunRepository struct {
	db         *pgxpool.Pool
	dispatcher *signals.Dispatcher
	sb         squirrel.StatementBuilderType
}

// NewCourseRunRepository creates a new CourseRunRepository
func NewCourseRunRepository(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *CourseRunRepository {
	return &CourseRunRepository{
		db:         db,
		dispatcher: dispatcher,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var courseRunColumns = []string{"id", "course_id", "uuid", "key", "status", "start_at", "end_at", "created_at", "updated_at"}

func scanCourseRun(row pgx.Row) (*models.CourseRun, error) {
	run := &models.CourseRun{}
	err := row.Scan(&run.ID, &run.CourseID, &run.UUID, &run.Key, &run.Status, &run.Start, &run.End, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Create creates a new course run
func (r *CourseRunRepository) Create(ctx context.Context, run *models.CourseRun) (int64, error) {
	if run.UUID == uuid.Nil {
		run.UUID = uuid.New()
	}
	if run.Status == "" {
		run.Status = models.CourseRunStatusUnpublished
	}

	sql, args, err := r.sb.Insert("course_runs").
		Columns("course_id", "uuid", "key", "status", "start_at", "end_at").
		Values(run.CourseID, run.UUID, run.Key, run.Status, run.Start, run.End).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course run SQL")
		return 0, fmt.Errorf("failed to build create course run query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.ErrCourseRunAlreadyExists
		}
		if isForeignKeyError(err) {
			return 0, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Msg("Error executing create course run query")
		return 0, fmt.Errorf("error creating course run: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCourseRun, Action: signals.ActionSaved, Created: true, Instance: run})
	return run.ID, nil
}

// GetByID retrieves a course run by ID
func (r *CourseRunRepository) GetByID(ctx context.Context, id int64) (*models.CourseRun, error) {
	sql, args, err := r.sb.Select(courseRunColumns...).
		From("course_runs").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course run by ID SQL")
		return nil, fmt.Errorf("failed to build get course run query: %w", err)
	}

	run, err := scanCourseRun(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseRunNotFound
		}
		logger.Error().Err(err).Int64("courseRunID", id).Msg("Error scanning course run row")
		return nil, fmt.Errorf("error getting course run by ID: %w", err)
	}

	return run, nil
}

func (r *CourseRunRepository) applyFilter(builder squirrel.SelectBuilder, filter CourseRunFilter) squirrel.SelectBuilder {
	if filter.CourseID > 0 {
		builder = builder.Where(squirrel.Eq{"course_id": filter.CourseID})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}
	return builder
}

// List retrieves a page of course runs matching the filter.
func (r *CourseRunRepository) List(ctx context.Context, filter CourseRunFilter, offset uint64, limit int) ([]*models.CourseRun, error) {
	builder := r.applyFilter(r.sb.Select(courseRunColumns...).From("course_runs"), filter).
		OrderBy("key ASC").
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list course runs SQL")
		return nil, fmt.Errorf("failed to build list course runs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list course runs query")
		return nil, fmt.Errorf("error querying course runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.CourseRun{}
	for rows.Next() {
		run, err := scanCourseRun(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course run row during list")
			return nil, fmt.Errorf("error scanning course run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course run rows")
		return nil, fmt.Errorf("error iterating course run rows: %w", err)
	}

	return runs, nil
}

// Count counts course runs matching the filter.
func (r *CourseRunRepository) Count(ctx context.Context, filter CourseRunFilter) (int64, error) {
	sql, args, err := r.applyFilter(r.sb.Select("COUNT(*)").From("course_runs"), filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count course runs SQL")
		return 0, fmt.Errorf("failed to build count course runs query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count course runs query")
		return 0, fmt.Errorf("error counting course runs: %w", err)
	}

	return count, nil
}

// ListByCourse retrieves every run of a course.
func (r *CourseRunRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.CourseRun, error) {
	sql, args, err := r.sb.Select(courseRunColumns...).
		From("course_runs").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list course runs by course SQL")
		return nil, fmt.Errorf("failed to build list course runs by course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list course runs by course query")
		return nil, fmt.Errorf("error querying course runs by course: %w", err)
	}
	defer rows.Close()

	runs := []*models.CourseRun{}
	for rows.Next() {
		run, err := scanCourseRun(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course run row")
			return nil, fmt.Errorf("error scanning course run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course run rows")
		return nil, fmt.Errorf("error iterating course run rows: %w", err)
	}

	return runs, nil
}

// commerceContextSQL resolves, in one read, everything the commerce push
// needs to know about a run: its key, its partner's commerce API URL and
// whether any curriculum places its course inside a masters program.
const commerceContextSQL = `
SELECT cr.key,
       cr.course_id,
       p.lms_commerce_api_url,
       EXISTS (
           SELECT 1
           FROM curriculum_course_memberships m
           JOIN curricula cu ON cu.id = m.curriculum_id
           JOIN programs pr ON pr.id = cu.program_id
           JOIN program_types pt ON pt.id = pr.program_type_id
           WHERE m.course_id = cr.course_id AND pt.slug = $2
       ) AS in_masters_program
FROM course_runs cr
JOIN courses c ON c.id = cr.course_id
JOIN partners p ON p.id = c.partner_id
WHERE cr.id = $1`

// CommerceContext resolves the commerce push context for a course run.
func (r *CourseRunRepository) CommerceContext(ctx context.Context, courseRunID int64) (*models.CommerceContext, error) {
	cc := &models.CommerceContext{}
	err := r.db.QueryRow(ctx, commerceContextSQL, courseRunID, models.ProgramTypeMasters).
		Scan(&cc.CourseRunKey, &cc.CourseID, &cc.LMSCommerceAPIURL, &cc.InMastersProgram)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseRunNotFound
		}
		logger.Error().Err(err).Int64("courseRunID", courseRunID).Msg("Error resolving commerce context")
		return nil, fmt.Errorf("error resolving commerce context: %w", err)
	}

	return cc, nil
}

// Update updates an existing course run
func (r *CourseRunRepository) Update(ctx context.Context, run *models.CourseRun) error {
	sql, args, err := r.sb.Update("course_runs").
		SetMap(map[string]interface{}{
			"status":     run.Status,
			"start_at":   run.Start,
			"end_at":     run.End,
			"updated_at": squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": run.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course run SQL")
		return fmt.Errorf("failed to build update course run query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseRunID", run.ID).Msg("Error executing update course run query")
		return fmt.Errorf("error updating course run: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseRunNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCourseRun, Action: signals.ActionSaved, Instance: run})
	return nil
}

// Delete deletes a course run by ID. Seats cascade.
func (r *CourseRunRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("course_runs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course run SQL")
		return fmt.Errorf("failed to build delete course run query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseRunID", id).Msg("Error executing delete course run query")
		return fmt.Errorf("error deleting course run: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseRunNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCourseRun, Action: signals.ActionDeleted, Instance: &models.CourseRun{ID: id}})
	return nil
}
