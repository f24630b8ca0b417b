package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestStoreErrorWrapsDriverFailures(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewZoneService(db, zap.NewNop())
	boom := errors.New("connection reset by peer")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "zonas"`)).WillReturnError(boom)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list zones")
	for _, kind := range []ServiceError{ErrValidation, ErrNotFound, ErrConflict, ErrForbidden, ErrUnauthorized} {
		assert.NotErrorIs(t, err, kind)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreErrorTranslatesUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "usuarios"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "usuarios"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), UserInput{Name: "Ana", Email: "ana@coleta.com", Password: "segredo1", Role: "coletor"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreErrorNil(t *testing.T) {
	assert.NoError(t, storeError("noop", nil))
	assert.ErrorIs(t, storeError("insert", gorm.ErrDuplicatedKey), ErrConflict)
	assert.ErrorIs(t, storeError("delete", gorm.ErrForeignKeyViolated), ErrConflict)
}
