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

// ProgramTypeRepository handles program type database operations
type ProgramTypeRepository struct {
	db         *pgxpool.Pool
	dispatcher *signals.Dispatcher
	sb         squirrel.StatementBuilderType
}

// NewProgramTypeRepository creates a new ProgramTypeRepository
func NewProgramTypeRepository(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *ProgramTypeRepository {
	return &ProgramTypeRepository{
		db:         db,
		dispatcher: dispatcher,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var programTypeColumns = []string{"id", "name", "slug"}

func scanProgramType(row pgx.Row) (*models.ProgramType, error) {
	pt := &models.ProgramType{}
	err := row.Scan(&pt.ID, &pt.Name, &pt.Slug)
	if err != nil {
		return nil, err
	}
	return pt, nil
}

// Create creates a new program type
func (r *ProgramTypeRepository) Create(ctx context.Context, programType *models.ProgramType) (int64, error) {
	sql, args, err := r.sb.Insert("program_types").
		Columns("name", "slug").
		Values(programType.Name, programType.Slug).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create program type SQL")
		return 0, fmt.Errorf("failed to build create program type query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&programType.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.ErrProgramTypeAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create program type query")
		return 0, fmt.Errorf("error creating program type: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindProgramType, Action: signals.ActionSaved, Created: true, Instance: programType})
	return programType.ID, nil
}

// GetByID retrieves a program type by ID
func (r *ProgramTypeRepository) GetByID(ctx context.Context, id int64) (*models.ProgramType, error) {
	sql, args, err := r.sb.Select(programTypeColumns...).
		From("program_types").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get program type by ID SQL")
		return nil, fmt.Errorf("failed to build get program type query: %w", err)
	}

	pt, err := scanProgramType(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramTypeNotFound
		}
		logger.Error().Err(err).Int64("programTypeID", id).Msg("Error scanning program type row")
		return nil, fmt.Errorf("error getting program type by ID: %w", err)
	}

	return pt, nil
}

// GetBySlug retrieves a program type by its slug
func (r *ProgramTypeRepository) GetBySlug(ctx context.Context, slug string) (*models.ProgramType, error) {
	sql, args, err := r.sb.Select(programTypeColumns...).
		From("program_types").
		Where(squirrel.Eq{"slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get program type by slug SQL")
		return nil, fmt.Errorf("failed to build get program type query: %w", err)
	}

	pt, err := scanProgramType(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramTypeNotFound
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Error scanning program type row")
		return nil, fmt.Errorf("error getting program type by slug: %w", err)
	}

	return pt, nil
}

// GetAll retrieves all program types
func (r *ProgramTypeRepository) GetAll(ctx context.Context) ([]*models.ProgramType, error) {
	sql, args, err := r.sb.Select(programTypeColumns...).
		From("program_types").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all program types SQL")
		return nil, fmt.Errorf("failed to build get all program types query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all program types query")
		return nil, fmt.Errorf("error querying program types: %w", err)
	}
	defer rows.Close()

	types := []*models.ProgramType{}
	for rows.Next() {
		pt, err := scanProgramType(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning program type row during get all")
			return nil, fmt.Errorf("error scanning program type row: %w", err)
		}
		types = append(types, pt)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating program type rows")
		return nil, fmt.Errorf("error iterating program type rows: %w", err)
	}

	return types, nil
}
