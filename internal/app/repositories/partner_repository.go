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

// PartnerRepository handles partner database operations
type PartnerRepository struct {
	db         *pgxpool.Pool
	dispatcher *signals.Dispatcher
	sb         squirrel.StatementBuilderType
}

// NewPartnerRepository creates a new PartnerRepository
func NewPartnerRepository(db *pgxpool.Pool, dispatcher *signals.Dispatcher) *PartnerRepository {
	return &PartnerRepository{
		db:         db,
		dispatcher: dispatcher,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var partnerColumns = []string{"id", "name", "short_code", "lms_url", "lms_commerce_api_url", "created_at", "updated_at"}

func scanPartner(row pgx.Row) (*models.Partner, error) {
	p := &models.Partner{}
	err := row.Scan(&p.ID, &p.Name, &p.ShortCode, &p.LMSURL, &p.LMSCommerceAPIURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create creates a new partner
func (r *PartnerRepository) Create(ctx context.Context, partner *models.Partner) (int64, error) {
	sql, args, err := r.sb.Insert("partners").
		Columns("name", "short_code", "lms_url", "lms_commerce_api_url").
		Values(partner.Name, partner.ShortCode, partner.LMSURL, partner.LMSCommerceAPIURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create partner SQL")
		return 0, fmt.Errorf("failed to build create partner query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&partner.ID, &partner.CreatedAt, &partner.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.ErrPartnerAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create partner query")
		return 0, fmt.Errorf("error creating partner: %w", err)
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindPartner, Action: signals.ActionSaved, Created: true, Instance: partner})
	return partner.ID, nil
}

// GetByID retrieves a partner by ID
func (r *PartnerRepository) GetByID(ctx context.Context, id int64) (*models.Partner, error) {
	sql, args, err := r.sb.Select(partnerColumns...).
		From("partners").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get partner by ID SQL")
		return nil, fmt.Errorf("failed to build get partner query: %w", err)
	}

	partner, err := scanPartner(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPartnerNotFound
		}
		logger.Error().Err(err).Int64("partnerID", id).Msg("Error scanning partner row")
		return nil, fmt.Errorf("error getting partner by ID: %w", err)
	}

	return partner, nil
}

// GetByShortCode retrieves a partner by its short code
func (r *PartnerRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.Partner, error) {
	sql, args, err := r.sb.Select(partnerColumns...).
		From("partners").
		Where(squirrel.Eq{"short_code": shortCode}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get partner by short code SQL")
		return nil, fmt.Errorf("failed to build get partner query: %w", err)
	}

	partner, err := scanPartner(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPartnerNotFound
		}
		logger.Error().Err(err).Str("shortCode", shortCode).Msg("Error scanning partner row")
		return nil, fmt.Errorf("error getting partner by short code: %w", err)
	}

	return partner, nil
}

// GetAll retrieves all partners
func (r *PartnerRepository) GetAll(ctx context.Context) ([]*models.Partner, error) {
	sql, args, err := r.sb.Select(partnerColumns...).
		From("partners").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all partners SQL")
		return nil, fmt.Errorf("failed to build get all partners query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all partners query")
		return nil, fmt.Errorf("error querying partners: %w", err)
	}
	defer rows.Close()

	partners := []*models.Partner{}
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning partner row during get all")
			return nil, fmt.Errorf("error scanning partner row: %w", err)
		}
		partners = append(partners, partner)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating partner rows")
		return nil, fmt.Errorf("error iterating partner rows: %w", err)
	}

	return partners, nil
}

// Update updates an existing partner
func (r *PartnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	sql, args, err := r.sb.Update("partners").
		SetMap(map[string]interface{}{
			"name":                 partner.Name,
			"lms_url":              partner.LMSURL,
			"lms_commerce_api_url": partner.LMSCommerceAPIURL,
			"updated_at":           squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": partner.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update partner SQL")
		return fmt.Errorf("failed to build update partner query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return apperrors.ErrPartnerAlreadyExists
		}
		logger.Error().Err(err).Int64("partnerID", partner.ID).Msg("Error executing update partner query")
		return fmt.Errorf("error updating partner: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPartnerNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindPartner, Action: signals.ActionSaved, Instance: partner})
	return nil
}

// Delete deletes a partner by ID. Partners with courses cannot be deleted.
func (r *PartnerRepository) Delete(ctx context.Context, id int64) error {
	var hasCourses bool
	checkSql, checkArgs, err := r.sb.Select("1").
		From("courses").
		Where(squirrel.Eq{"partner_id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building check partner courses SQL")
		return fmt.Errorf("failed to build check partner courses query: %w", err)
	}

	err = r.db.QueryRow(ctx, checkSql, checkArgs...).Scan(&hasCourses)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("partnerID", id).Msg("Error checking associated courses")
		return fmt.Errorf("error checking associated courses: %w", err)
	}

	if hasCourses {
		return apperrors.ErrPartnerHasCourses
	}

	sql, args, err := r.sb.Delete("partners").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete partner SQL")
		return fmt.Errorf("failed to build delete partner query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("partnerID", id).Msg("Error executing delete partner query")
		return fmt.Errorf("error deleting partner: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPartnerNotFound
	}

	r.dispatcher.Send(ctx, signals.Event{Kind: signals.KindPartner, Action: signals.ActionDeleted, Instance: &models.Partner{ID: id}})
	return nil
}
