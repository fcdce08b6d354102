package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/opencourse/discovery/internal/app/models"
)

// CreateDefaultData inserts the reference rows the catalog expects:
// currencies, the standard program types and the masters switch. Inserts go
// straight to the pool so startup seeding does not fire mutation events.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (currencies, program types, switches)...")
	var finalErr error

	currencies := []models.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "GBP", Name: "Pound Sterling", Symbol: "£"},
	}
	for _, cur := range currencies {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO currencies (code, name, symbol) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING`,
			cur.Code, cur.Name, cur.Symbol)
		if err != nil {
			lgr.Error().Err(err).Str("currency", cur.Code).Msg("Error seeding currency")
			finalErr = errors.Join(finalErr, err)
		}
	}

	programTypes := map[string]string{
		"Masters":                  models.ProgramTypeMasters,
		"MicroMasters":             "micromasters",
		"Professional Certificate": "professional-certificate",
		"XSeries":                  "xseries",
	}
	for name, slug := range programTypes {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO program_types (name, slug) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING`,
			name, slug)
		if err != nil {
			lgr.Error().Err(err).Str("programType", slug).Msg("Error seeding program type")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// The masters switch ships inactive; operators flip it per environment.
	_, err := dbPool.Exec(ctx,
		`INSERT INTO switches (name, active, note) VALUES ($1, FALSE, 'Enables masters seat provisioning and the commerce course-mode push') ON CONFLICT (name) DO NOTHING`,
		models.SwitchMastersCourseMode)
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding masters switch")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}
