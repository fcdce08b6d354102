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
	"github.com/opencourse/discovery/internal/pkg/helpers"
	"github.com/opencourse/discovery/internal/pkg/logger"
)

// CourseFilter narrows course listings.
type CourseFilter struct {
	PartnerID int64
	Key       string
	Draft     *bool
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db         *pgxpool.Pool
	dispatcher *signals.Dispatcher
	sb         squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *CourseRepository {
	return &CourseRepository{
		db:         db,
		dispatcher: dispatcher,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var courseColumns = []string{"id", "uuid", "partner_id", "key", "title", "url_slug", "short_description", "draft", "created_at", "updated_at"}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.UUID, &c.PartnerID, &c.Key, &c.Title, &c.URLSlug, &c.ShortDescription, &c.Draft, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create creates a new course. The UUID is assigned here when unset.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	if course.UUID == uuid.Nil {
		course.UUID = uuid.New()
	}

	sql, args, err := r.sb.Insert("courses").
		Columns("uuid", "partner_id", "key", "title", "url_slug", "short_description", "draft").
		Values(course.UUID, course.PartnerID, course.Key, course.Title, course.URLSlug, helpers.GetNullString(course.ShortDescription), course.Draft).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.ErrCourseAlreadyExists
		}
		if isForeignKeyError(err) {
			return 0, apperrors.ErrPartnerNotFound
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCourse, Action: signals.ActionSaved, Created: true, Instance: course})
	return course.ID, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

func (r *CourseRepository) applyFilter(builder squirrel.SelectBuilder, filter CourseFilter) squirrel.SelectBuilder {
	if filter.PartnerID > 0 {
		builder = builder.Where(squirrel.Eq{"partner_id": filter.PartnerID})
	}
	if filter.Key != "" {
		builder = builder.Where(squirrel.Eq{"key": filter.Key})
	}
	if filter.Draft != nil {
		builder = builder.Where(squirrel.Eq{"draft": *filter.Draft})
	}
	return builder
}

// List retrieves a page of courses matching the filter.
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter, offset uint64, limit int) ([]*models.Course, error) {
	builder := r.applyFilter(r.sb.Select(courseColumns...).From("courses"), filter).
		OrderBy("key ASC").
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row during list")
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

// Count counts courses matching the filter.
func (r *CourseRepository) Count(ctx context.Context, filter CourseFilter) (int64, error) {
	sql, args, err := r.applyFilter(r.sb.Select("COUNT(*)").From("courses"), filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count courses SQL")
		return 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count courses query")
		return 0, fmt.Errorf("error counting courses: %w", err)
	}

	return count, nil
}

// Update updates an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"title":             course.Title,
			"url_slug":          course.URLSlug,
			"short_description": helpers.GetNullString(course.ShortDescription),
			"draft":             course.Draft,
			"updated_at":        squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return apperrors.ErrCourseAlreadyExists
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCourse, Action: signals.ActionSaved, Instance: course})
	return nil
}

// Delete deletes a course by ID. Runs, seats and memberships cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindCourse, Action: signals.ActionDeleted, Instance: &models.Course{ID: id}})
	return nil
}
