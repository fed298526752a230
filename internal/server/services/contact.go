package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/logging"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/gotofast/logistics/internal/server/repositories/repomanager"
)

// ContactSettingsService reads and edits the public contact details.
type ContactSettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewContactSettingsService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ContactSettingsService {
	return &ContactSettingsService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "contact_settings"),
		now:         time.Now,
	}
}

func (s *ContactSettingsService) List(ctx context.Context) ([]models.ContactSetting, error) {
	settings, err := s.repomanager.ContactSettings(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "list contact settings", "error", err)
		return nil, common.ErrorInternal
	}
	if settings == nil {
		settings = []models.ContactSetting{}
	}
	return settings, nil
}

// Update changes an existing setting. Keys are fixed by the seeder, so an
// unknown key yields common.ErrorNotFound.
func (s *ContactSettingsService) Update(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return common.ErrorValidation
	}

	err := s.repomanager.ContactSettings(s.db).Update(ctx, key, value, s.now().UTC())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "update contact setting", "key", key, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "contact setting updated", "key", key)
	return nil
}
