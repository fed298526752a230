// Package seed writes the default rows the server needs before it can
// serve requests. Running it again is harmless.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/dbx"
	"github.com/gotofast/logistics/internal/logging"
	"github.com/gotofast/logistics/internal/server/auth"
	"github.com/gotofast/logistics/internal/server/config"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/gotofast/logistics/internal/server/repositories/repomanager"
)

// DefaultContactSettings returns the settings created on first start, in
// display order.
func DefaultContactSettings(cfg *config.Config) []models.ContactSetting {
	return []models.ContactSetting{
		{Key: "company_name", Value: cfg.CompanyName},
		{Key: "phone", Value: "+91 98765 43210"},
		{Key: "email", Value: "support@gotofast.in"},
		{Key: "address", Value: "GotoFast Logistics Hub, Mumbai, Maharashtra, India"},
		{Key: "support_hours", Value: "Mon-Sat 9:00 AM - 7:00 PM"},
	}
}

// Run inserts missing contact settings and, when configured, the bootstrap
// administrator. Existing rows are never modified.
func Run(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) error {
	now := time.Now().UTC()

	var inserted int
	var adminCreated bool
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.ContactSettings(tx)
		for _, s := range DefaultContactSettings(cfg) {
			ok, err := repo.InsertIfAbsent(ctx, s.Key, s.Value, now)
			if err != nil {
				return fmt.Errorf("contact setting %s: %w", s.Key, err)
			}
			if ok {
				inserted++
			}
		}

		var err error
		adminCreated, err = bootstrapAdmin(ctx, tx, m, cfg, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	logger.Info(ctx, "seed complete", "contact_settings_inserted", inserted, "admin_created", adminCreated)
	return nil
}

func bootstrapAdmin(ctx context.Context, tx dbx.DBTX, m repomanager.RepositoryManager, cfg *config.Config, now time.Time) (bool, error) {
	if cfg.BootstrapAdminUsername == "" || cfg.BootstrapAdminPassword == "" {
		return false, nil
	}

	repo := m.Admins(tx)
	_, err := repo.GetAdminByUsername(ctx, cfg.BootstrapAdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := auth.HashPassword(cfg.BootstrapAdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	_, err = repo.Create(ctx, &models.Admin{
		Username:     cfg.BootstrapAdminUsername,
		Email:        cfg.BootstrapAdminEmail,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
	})
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
