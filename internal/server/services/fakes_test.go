package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/dbx"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/gotofast/logistics/internal/server/repositories/admins"
	"github.com/gotofast/logistics/internal/server/repositories/contactsettings"
	"github.com/gotofast/logistics/internal/server/repositories/documents"
	"github.com/gotofast/logistics/internal/server/repositories/partners"
	"github.com/gotofast/logistics/internal/server/repositories/sessions"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeAdmins struct {
	byName  map[string]*models.Admin
	getErr  error
	touched []int64
}

func (f *fakeAdmins) Create(ctx context.Context, a *models.Admin) (*models.Admin, error) {
	return a, nil
}
func (f *fakeAdmins) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	for _, a := range f.byName {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}
func (f *fakeAdmins) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.byName[username]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeAdmins) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakePartners struct {
	byPhone   map[string]*models.DeliveryPartner
	created   *models.DeliveryPartner
	createErr error
	touchErr  error
}

func (f *fakePartners) Create(ctx context.Context, p *models.DeliveryPartner) (*models.DeliveryPartner, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = 42
	f.created = p
	return p, nil
}
func (f *fakePartners) GetPartnerByID(ctx context.Context, id int64) (*models.DeliveryPartner, error) {
	for _, p := range f.byPhone {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}
func (f *fakePartners) GetPartnerByPhone(ctx context.Context, phone string) (*models.DeliveryPartner, error) {
	if p, ok := f.byPhone[phone]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakePartners) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return f.touchErr
}

type fakeSessions struct {
	mu        sync.Mutex
	rows      map[string]*models.Session
	findErr   error
	deleteErr error
	purged    int64
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{rows: map[string]*models.Session{}}
}

func (f *fakeSessions) Create(ctx context.Context, principalID, token string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[token] = &models.Session{Token: token, PrincipalID: principalID, ExpiresAt: time.Now().Add(validity)}
	return nil
}
func (f *fakeSessions) Find(ctx context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	s, ok := f.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}
func (f *fakeSessions) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, token)
	return nil
}
func (f *fakeSessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return f.purged, nil
}

type fakeContacts struct {
	rows      []models.ContactSetting
	listErr   error
	updateErr error
	updated   map[string]string
}

func (f *fakeContacts) List(ctx context.Context) ([]models.ContactSetting, error) {
	return f.rows, f.listErr
}
func (f *fakeContacts) Get(ctx context.Context, key string) (*models.ContactSetting, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeContacts) InsertIfAbsent(ctx context.Context, key, value string, now time.Time) (bool, error) {
	return false, nil
}
func (f *fakeContacts) Update(ctx context.Context, key, value string, now time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[key] = value
	return nil
}

type fakeDocuments struct {
	created   []*models.Document
	createErr error
	list      []models.Document
}

func (f *fakeDocuments) Create(ctx context.Context, d *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, d)
	return nil
}
func (f *fakeDocuments) ListByPartner(ctx context.Context, partnerID int64) ([]models.Document, error) {
	return f.list, nil
}

type fakeRepoManager struct {
	a *fakeAdmins
	p *fakePartners
	s *fakeSessions
	c *fakeContacts
	d *fakeDocuments
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Admins(db dbx.DBTX) admins.Repository                   { return m.a }
func (m *fakeRepoManager) Partners(db dbx.DBTX) partners.Repository               { return m.p }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository               { return m.s }
func (m *fakeRepoManager) ContactSettings(db dbx.DBTX) contactsettings.Repository { return m.c }
func (m *fakeRepoManager) Documents(db dbx.DBTX) documents.Repository             { return m.d }
