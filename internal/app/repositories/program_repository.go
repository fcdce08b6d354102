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

// ProgramFilter narrows program listings.
type ProgramFilter struct {
	PartnerID     int64
	ProgramTypeID int64
	Status        models.ProgramStatus
}

// ProgramRepository handles program database operations
type ProgramRepository struct {
	db         *pgxpool.Pool
	dispatcher *signals.Dispatcher
	sb         squirrel.StatementBuilderType
}

// NewProgramRepository creates a new ProgramRepository
func NewProgramRepository(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *ProgramRepository {
	return &ProgramRepository{
		db:         db,
		dispatcher: dispatcher,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var programColumns = []string{"id", "uuid", "title", "program_type_id", "partner_id", "status", "created_at", "updated_at"}

func scanProgram(row pgx.Row) (*models.Program, error) {
	p := &models.Program{}
	err := row.Scan(&p.ID, &p.UUID, &p.Title, &p.ProgramTypeID, &p.PartnerID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create creates a new program
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) (int64, error) {
	if program.UUID == uuid.Nil {
		program.UUID = uuid.New()
	}
	if program.Status == "" {
		program.Status = models.ProgramStatusActive
	}

	sql, args, err := r.sb.Insert("programs").
		Columns("uuid", "title", "program_type_id", "partner_id", "status").
		Values(program.UUID, program.Title, program.ProgramTypeID, program.PartnerID, program.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create program SQL")
		return 0, fmt.Errorf("failed to build create program query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&program.ID, &program.CreatedAt, &program.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.ErrProgramAlreadyExists
		}
		if isForeignKeyError(err) {
			return 0, apperrors.ErrProgramTypeNotFound
		}
		logger.Error().Err(err).Msg("Error executing create program query")
		return 0, fmt.Errorf("error creating program: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindProgram, Action: signals.ActionSaved, Created: true, Instance: program})
	return program.ID, nil
}

// GetByID retrieves a program by ID with its type preloaded.
func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	sql, args, err := r.sb.Select(
		"p.id", "p.uuid", "p.title", "p.program_type_id", "p.partner_id", "p.status", "p.created_at", "p.updated_at",
		"pt.id", "pt.name", "pt.slug").
		From("programs p").
		Join("program_types pt ON pt.id = p.program_type_id").
		Where(squirrel.Eq{"p.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get program by ID SQL")
		return nil, fmt.Errorf("failed to build get program query: %w", err)
	}

	p := &models.Program{Type: &models.ProgramType{}}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.UUID, &p.Title, &p.ProgramTypeID, &p.PartnerID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&p.Type.ID, &p.Type.Name, &p.Type.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Int64("programID", id).Msg("Error scanning program row")
		return nil, fmt.Errorf("error getting program by ID: %w", err)
	}

	return p, nil
}

func (r *ProgramRepository) applyFilter(builder squirrel.SelectBuilder, filter ProgramFilter) squirrel.SelectBuilder {
	if filter.PartnerID > 0 {
		builder = builder.Where(squirrel.Eq{"partner_id": filter.PartnerID})
	}
	if filter.ProgramTypeID > 0 {
		builder = builder.Where(squirrel.Eq{"program_type_id": filter.ProgramTypeID})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}
	return builder
}

// List retrieves a page of programs matching the filter.
func (r *ProgramRepository) List(ctx context.Context, filter ProgramFilter, offset uint64, limit int) ([]*models.Program, error) {
	builder := r.applyFilter(r.sb.Select(programColumns...).From("programs"), filter).
		OrderBy("title ASC").
		Offset(offset).
		Limit(uint64(limit))

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list programs SQL")
		return nil, fmt.Errorf("failed to build list programs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list programs query")
		return nil, fmt.Errorf("error querying programs: %w", err)
	}
	defer rows.Close()

	programs := []*models.Program{}
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning program row during list")
			return nil, fmt.Errorf("error scanning program row: %w", err)
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating program rows")
		return nil, fmt.Errorf("error iterating program rows: %w", err)
	}

	return programs, nil
}

// Count counts programs matching the filter.
func (r *ProgramRepository) Count(ctx context.Context, filter ProgramFilter) (int64, error) {
	sql, args, err := r.applyFilter(r.sb.Select("COUNT(*)").From("programs"), filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count programs SQL")
		return 0, fmt.Errorf("failed to build count programs query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count programs query")
		return 0, fmt.Errorf("error counting programs: %w", err)
	}

	return count, nil
}

// Update updates an existing program
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	sql, args, err := r.sb.Update("programs").
		SetMap(map[string]interface{}{
			"title":           program.Title,
			"program_type_id": program.ProgramTypeID,
			"status":          program.Status,
			"updated_at":      squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": program.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update program SQL")
		return fmt.Errorf("failed to build update program query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isForeignKeyError(err) {
			return apperrors.ErrProgramTypeNotFound
		}
		logger.Error().Err(err).Int64("programID", program.ID).Msg("Error executing update program query")
		return fmt.Errorf("error updating program: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindProgram, Action: signals.ActionSaved, Instance: program})
	return nil
}

// Delete deletes a program by ID. Curricula and memberships cascade.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("programs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete program SQL")
		return fmt.Errorf("failed to build delete program query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("programID", id).Msg("Error executing delete program query")
		return fmt.Errorf("error deleting program: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindProgram, Action: signals.ActionDeleted, Instance: &models.Program{ID: id}})
	return nil
}
