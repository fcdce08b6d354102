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

// SwitchRepository handles feature switch database operations
type SwitchRepository struct {
	db         *pgxpool.Pool
	dispatcher *signals.Dispatcher
	sb         squirrel.StatementBuilderType
}

// NewSwitchRepository creates a new SwitchRepository
func NewSwitchRepository(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *SwitchRepository {
	return &SwitchRepository{
		db:         db,
		dispatcher: dispatcher,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var switchColumns = []string{"name", "active", "note", "created_at", "updated_at"}

func scanSwitch(row pgx.Row) (*models.Switch, error) {
	s := &models.Switch{}
	err := row.Scan(&s.Name, &s.Active, &s.Note, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByName retrieves a switch by name
func (r *SwitchRepository) GetByName(ctx context.Context, name string) (*models.Switch, error) {
	sql, args, err := r.sb.Select(switchColumns...).
		From("switches").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get switch by name SQL")
		return nil, fmt.Errorf("failed to build get switch query: %w", err)
	}

	sw, err := scanSwitch(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSwitchNotFound
		}
		logger.Error().Err(err).Str("switch", name).Msg("Error scanning switch row")
		return nil, fmt.Errorf("error getting switch by name: %w", err)
	}

	return sw, nil
}

// GetAll retrieves all switches
func (r *SwitchRepository) GetAll(ctx context.Context) ([]*models.Switch, error) {
	sql, args, err := r.sb.Select(switchColumns...).
		From("switches").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all switches SQL")
		return nil, fmt.Errorf("failed to build get all switches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all switches query")
		return nil, fmt.Errorf("error querying switches: %w", err)
	}
	defer rows.Close()

	switches := []*models.Switch{}
	for rows.Next() {
		sw, err := scanSwitch(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning switch row during get all")
			return nil, fmt.Errorf("error scanning switch row: %w", err)
		}
		switches = append(switches, sw)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating switch rows")
		return nil, fmt.Errorf("error iterating switch rows: %w", err)
	}

	return switches, nil
}

// Upsert creates the switch or updates its active flag and note.
func (r *SwitchRepository) Upsert(ctx context.Context, sw *models.Switch) error {
	sql, args, err := r.sb.Insert("switches").
		Columns("name", "active", "note").
		Values(sw.Name, sw.Active, sw.Note).
		Suffix("ON CONFLICT (name) DO UPDATE SET active = EXCLUDED.active, note = EXCLUDED.note, updated_at = NOW() RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert switch SQL")
		return fmt.Errorf("failed to build upsert switch query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&sw.CreatedAt, &sw.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("switch", sw.Name).Msg("Error executing upsert switch query")
		return fmt.Errorf("error upserting switch: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindSwitch, Action: signals.ActionSaved, Instance: sw})
	return nil
}
