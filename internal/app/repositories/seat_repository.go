package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/signals"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
	"github.com/opencourse/discovery/internal/pkg/logger"
)

// SeatRepository handles seat database operations
type SeatRepository struct {
	db         *pgxpool.Pool
	dispatcher *signals.Dispatcher
	sb         squirrel.StatementBuilderType
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *SeatRepository {
	return &SeatRepository{
		db:         db,
		dispatcher: dispatcher,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var seatColumns = []string{"id", "course_run_id", "type", "price", "currency_code", "sku", "upgrade_deadline", "created_at", "updated_at"}

func scanSeat(row pgx.Row) (*models.Seat, error) {
	s := &models.Seat{}
	err := row.Scan(&s.ID, &s.CourseRunID, &s.Type, &s.Price, &s.CurrencyCode, &s.SKU, &s.UpgradeDeadline, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create creates a new seat
func (r *SeatRepository) Create(ctx context.Context, seat *models.Seat) (int64, error) {
	sql, args, err := r.sb.Insert("seats").
		Columns("course_run_id", "type", "price", "currency_code", "sku", "upgrade_deadline").
		Values(seat.CourseRunID, seat.Type, seat.Price, seat.CurrencyCode, seat.SKU, seat.UpgradeDeadline).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create seat SQL")
		return 0, fmt.Errorf("failed to build create seat query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&seat.ID, &seat.CreatedAt, &seat.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.ErrSeatAlreadyExists
		}
		if isForeignKeyError(err) {
			return 0, apperrors.ErrCourseRunNotFound
		}
		logger.Error().Err(err).Msg("Error executing create seat query")
		return 0, fmt.Errorf("error creating seat: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindSeat, Action: signals.ActionSaved, Created: true, Instance: seat})
	return seat.ID, nil
}

// EnsureMastersSeat creates a free USD masters seat on the course run if it
// does not already carry one. An existing seat is left untouched and emits
// no event.
func (r *SeatRepository) EnsureMastersSeat(ctx context.Context, courseRunID int64) error {
	sql, args, err := r.sb.Insert("seats").
		Columns("course_run_id", "type", "price", "currency_code").
		Values(courseRunID, models.SeatTypeMasters, 0, "USD").
		Suffix("ON CONFLICT (course_run_id, type) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building ensure masters seat SQL")
		return fmt.Errorf("failed to build ensure masters seat query: %w", err)
	}

	seat := &models.Seat{
		CourseRunID:  courseRunID,
		Type:         models.SeatTypeMasters,
		CurrencyCode: "USD",
	}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&seat.ID, &seat.CreatedAt, &seat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Seat already existed, nothing changed.
			return nil
		}
		if isForeignKeyError(err) {
			return apperrors.ErrCourseRunNotFound
		}
		logger.Error().Err(err).Int64("courseRunID", courseRunID).Msg("Error executing ensure masters seat query")
		return fmt.Errorf("error creating masters seat: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindSeat, Action: signals.ActionSaved, Created: true, Instance: seat})
	return nil
}

// GetByID retrieves a seat by ID
func (r *SeatRepository) GetByID(ctx context.Context, id int64) (*models.Seat, error) {
	sql, args, err := r.sb.Select(seatColumns...).
		From("seats").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get seat by ID SQL")
		return nil, fmt.Errorf("failed to build get seat query: %w", err)
	}

	seat, err := scanSeat(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSeatNotFound
		}
		logger.Error().Err(err).Int64("seatID", id).Msg("Error scanning seat row")
		return nil, fmt.Errorf("error getting seat by ID: %w", err)
	}

	return seat, nil
}

// ListByCourseRun retrieves all seats of a course run.
func (r *SeatRepository) ListByCourseRun(ctx context.Context, courseRunID int64) ([]*models.Seat, error) {
	sql, args, err := r.sb.Select(seatColumns...).
		From("seats").
		Where(squirrel.Eq{"course_run_id": courseRunID}).
		OrderBy("type ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list seats SQL")
		return nil, fmt.Errorf("failed to build list seats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseRunID", courseRunID).Msg("Error executing list seats query")
		return nil, fmt.Errorf("error querying seats: %w", err)
	}
	defer rows.Close()

	seats := []*models.Seat{}
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning seat row")
			return nil, fmt.Errorf("error scanning seat row: %w", err)
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating seat rows")
		return nil, fmt.Errorf("error iterating seat rows: %w", err)
	}

	return seats, nil
}

// Delete deletes a seat by ID
func (r *SeatRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("seats").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete seat SQL")
		return fmt.Errorf("failed to build delete seat query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("seatID", id).Msg("Error executing delete seat query")
		return fmt.Errorf("error deleting seat: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSeatNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindSeat, Action: signals.ActionDeleted, Instance: &models.Seat{ID: id}})
	return nil
}
