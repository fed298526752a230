package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()
	doc := &models.Document{ID: "d1", PartnerID: 4, Kind: models.DocumentDrivingLicence, StorageKey: "partners/4/x", CreatedAt: now}

	mock.ExpectExec(`INSERT INTO partner_documents \(id, partner_id, kind, storage_key, created_at\) VALUES \(\$1, \$2, \$3, \$4, \$5\)`).
		WithArgs("d1", int64(4), models.DocumentDrivingLicence, "partners/4/x", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), doc))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO partner_documents`).WillReturnError(errors.New("fk violation"))

	err := repo.Create(context.Background(), &models.Document{ID: "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestListByPartner(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM partner_documents WHERE partner_id = \$1 ORDER BY created_at DESC, id`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "partner_id", "kind", "storage_key", "created_at"}).
			AddRow("d2", int64(4), "identity_proof", "k2", now).
			AddRow("d1", int64(4), "driving_licence", "k1", now.Add(-time.Hour)))

	docs, err := repo.ListByPartner(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d2", docs[0].ID)
	assert.Equal(t, "k1", docs[1].StorageKey)
}

func TestListByPartner_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM partner_documents`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "partner_id", "kind", "storage_key", "created_at"}))

	docs, err := repo.ListByPartner(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}
