// Package services contains server-side business logic. This file implements
// AccountService, which signs administrators and delivery partners in and
// out and turns session cookies back into principals.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/dbx"
	"github.com/gotofast/logistics/internal/logging"
	"github.com/gotofast/logistics/internal/server/auth"
	"github.com/gotofast/logistics/internal/server/config"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/gotofast/logistics/internal/server/principal"
	"github.com/gotofast/logistics/internal/server/repositories/repomanager"
)

// sessionTokenSize is the number of random bytes in a session token.
const sessionTokenSize = 32

// PrincipalResolver maps a principal identifier to an account.
type PrincipalResolver interface {
	Resolve(ctx context.Context, raw string) (principal.Principal, error)
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	resolver    PrincipalResolver
	logger      logging.Logger
	jwtSecret   []byte
	sessionTTL  time.Duration
	now         func() time.Time
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, resolver PrincipalResolver,
	cfg *config.Config, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		resolver:    resolver,
		logger:      logger.With("module", "accounts"),
		jwtSecret:   []byte(cfg.SessionSecret),
		sessionTTL:  cfg.SessionTTL,
		now:         time.Now,
	}
}

// LoginAdmin checks the credentials of an administrator and returns a signed
// session cookie value. Unknown users, wrong passwords and inactive accounts
// all yield common.ErrorUnauthorized.
func (s *AccountService) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	admin, err := s.repomanager.Admins(s.db).GetAdminByUsername(ctx, username)
	if err != nil {
		return "", s.loginLookupError(ctx, err)
	}
	if !auth.CheckPassword(admin.PasswordHash, password) || !admin.IsActive {
		return "", common.ErrorUnauthorized
	}

	id := principal.Identifier{Kind: principal.KindAdmin, ID: admin.ID}
	return s.startSession(ctx, id, func(ctx context.Context, tx dbx.DBTX, at time.Time) error {
		return s.repomanager.Admins(tx).TouchLastLogin(ctx, admin.ID, at)
	})
}

// LoginPartner is LoginAdmin for delivery partners, who sign in with their
// phone number.
func (s *AccountService) LoginPartner(ctx context.Context, phone, password string) (string, error) {
	partner, err := s.repomanager.Partners(s.db).GetPartnerByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return "", s.loginLookupError(ctx, err)
	}
	if !auth.CheckPassword(partner.PasswordHash, password) || !partner.IsActive {
		return "", common.ErrorUnauthorized
	}

	id := principal.Identifier{Kind: principal.KindPartner, ID: partner.ID}
	return s.startSession(ctx, id, func(ctx context.Context, tx dbx.DBTX, at time.Time) error {
		return s.repomanager.Partners(tx).TouchLastLogin(ctx, partner.ID, at)
	})
}

// Authenticate returns the principal behind a session cookie, or nil when
// the cookie does not name a live session. Only storage failures are
// returned as errors.
func (s *AccountService) Authenticate(ctx context.Context, cookie string) (principal.Principal, error) {
	if cookie == "" {
		return nil, nil
	}

	principalID, token, err := auth.ParseToken(cookie, s.jwtSecret)
	if err != nil {
		s.logger.Debug(ctx, "session cookie rejected", "error", err)
		return nil, nil
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session.PrincipalID != principalID {
		s.logger.Warn(ctx, "session does not belong to cookie subject", "principal", principalID)
		return nil, nil
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, nil
	}

	p, err := s.resolver.Resolve(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Active() {
		return nil, nil
	}
	return p, nil
}

// Logout deletes the session behind cookie. Unreadable cookies and sessions
// that are already gone are not errors.
func (s *AccountService) Logout(ctx context.Context, cookie string) error {
	_, token, err := auth.ParseToken(cookie, s.jwtSecret)
	if err != nil {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, token); err != nil {
		s.logger.Error(ctx, "delete session", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// NewPartner is the onboarding form for a delivery partner.
type NewPartner struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	VehicleType string `json:"vehicle_type"`
}

// CreatePartner registers a delivery partner. A taken phone number yields
// common.ErrorAlreadyExists.
func (s *AccountService) CreatePartner(ctx context.Context, in NewPartner) (*models.DeliveryPartner, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, phone and password are required", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	partner, err := s.repomanager.Partners(s.db).Create(ctx, &models.DeliveryPartner{
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		VehicleType:  in.VehicleType,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		s.logger.Error(ctx, "create partner", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "delivery partner created", "partner_id", partner.ID)
	return partner, nil
}

// PurgeExpiredSessions removes sessions whose expiry has passed.
func (s *AccountService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return n, nil
}

// --- helpers below ---

func (s *AccountService) loginLookupError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnauthorized
	}
	s.logger.Error(ctx, "login lookup", "error", err)
	return common.ErrorInternal
}

// startSession stores a new session for id and runs touch in the same
// transaction, then signs the cookie value.
func (s *AccountService) startSession(ctx context.Context, id principal.Identifier,
	touch func(ctx context.Context, tx dbx.DBTX, at time.Time) error) (string, error) {
	token, err := common.MakeRandHexString(sessionTokenSize)
	if err != nil {
		return "", common.ErrorInternal
	}

	principalID := id.String()
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).Create(ctx, principalID, token, s.sessionTTL); err != nil {
			return err
		}
		return touch(ctx, tx, s.now().UTC())
	})
	if err != nil {
		s.logger.Error(ctx, "start session", "principal", principalID, "error", err)
		return "", common.ErrorInternal
	}

	cookie, err := auth.GenerateToken(principalID, token, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "login", "principal", principalID)
	return cookie, nil
}
