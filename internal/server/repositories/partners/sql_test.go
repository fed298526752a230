package partners

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db), mock
}

var partnerCols = []string{"id", "name", "phone", "email", "password_hash", "vehicle_type", "is_active", "created_at", "last_login_at"}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+delivery_partners\s*\(name,\s*phone,.*\)\s*VALUES\s*\(\$1,.*\$7\)\s*RETURNING\s+id$`
	mock.ExpectQuery(q).
		WithArgs("Ravi", "+911234567890", "", "hash", "bike", true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	got, err := repo.Create(context.Background(), &models.DeliveryPartner{
		Name: "Ravi", Phone: "+911234567890", PasswordHash: "hash", VehicleType: "bike", IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+delivery_partners`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.DeliveryPartner{Name: "Ravi"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetPartnerByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+id,\s*name,.*FROM\s+delivery_partners\s+WHERE\s+id\s*=\s*\$1$`
	created := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery(q).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(partnerCols).
			AddRow(int64(42), "Ravi", "+911234567890", "", "hash", "bike", true, created, nil))

	got, err := repo.GetPartnerByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, &models.DeliveryPartner{
		ID: 42, Name: "Ravi", Phone: "+911234567890", PasswordHash: "hash",
		VehicleType: "bike", IsActive: true, CreatedAt: created,
	}, got)
}

func TestGetPartnerByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+delivery_partners\s+WHERE\s+id`).WithArgs(int64(42)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPartnerByID(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetPartnerByPhone(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)FROM\s+delivery_partners\s+WHERE\s+phone\s*=\s*\$1$`
	login := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q).
		WithArgs("+911234567890").
		WillReturnRows(sqlmock.NewRows(partnerCols).
			AddRow(int64(1), "Ravi", "+911234567890", "r@x.in", "hash", "van", false, login, login))

	got, err := repo.GetPartnerByPhone(context.Background(), "+911234567890")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, got.LastLoginAt.Equal(login))
}

func TestTouchLastLogin(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	at := time.Now().UTC()
	q := `UPDATE\s+delivery_partners\s+SET\s+last_login_at`
	mock.ExpectExec(q).WithArgs(at, int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(at, int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs(at, int64(3)).WillReturnError(errors.New("locked"))

	require.NoError(t, repo.TouchLastLogin(context.Background(), 1, at))
	assert.ErrorIs(t, repo.TouchLastLogin(context.Background(), 2, at), common.ErrorNotFound)
	assert.ErrorContains(t, repo.TouchLastLogin(context.Background(), 3, at), "db error: locked")
}
