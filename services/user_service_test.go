package services

import (
	"context"
	"testing"

	"coleta-agenda/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	ctx := context.Background()

	user, err := svc.Create(ctx, UserInput{Name: "Ana", Email: " Ana@Coleta.com ", Password: "segredo1", Role: "coletor"})
	require.NoError(t, err)
	assert.Equal(t, "ana@coleta.com", user.Email)
	assert.NotEqual(t, "segredo1", user.PasswordHash)

	_, err = svc.Create(ctx, UserInput{Name: "Outra", Email: "ana@coleta.com", Password: "x", Role: "coletor"})
	assert.ErrorIs(t, err, ErrUserEmailTaken)

	got, err := svc.Authenticate(ctx, "ANA@coleta.com", "segredo1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ana@coleta.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "ninguem@coleta.com", "segredo1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserUpdateKeepsPasswordWhenBlank(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	ctx := context.Background()
	user := createUser(t, db, "a@coleta.com")

	updated, err := svc.Update(ctx, user.ID, UserInput{Name: "Novo Nome", Email: "a@coleta.com", Role: "analista"})
	require.NoError(t, err)
	assert.Equal(t, "analista", updated.Role)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)

	_, err = svc.Authenticate(ctx, "a@coleta.com", "segredo1")
	assert.NoError(t, err)
}

func TestUserBulkDeleteReportsPartialFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	ctx := context.Background()

	zone := createZone(t, db, "Norte", "seg")
	client := createClient(t, db, zone, "Cliente", "11912345678")
	a := createUser(t, db, "a@coleta.com")
	b := createUser(t, db, "b@coleta.com")
	busy := createUser(t, db, "c@coleta.com")

	appt := insertAppointment(t, db, client, "2024-01-01", models.StatusPending, "")
	require.NoError(t, db.Model(appt).Update("user_id", busy.ID).Error)

	result := svc.BulkDelete(ctx, []uint{b.ID, busy.ID, a.ID, 999})
	assert.Equal(t, []uint{a.ID, b.ID}, result.Deleted)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, busy.ID, result.Failed[0].ID)
	assert.Equal(t, ErrUserInUse.Error(), result.Failed[0].Error)
	assert.Equal(t, uint(999), result.Failed[1].ID)
	assert.Equal(t, ErrUserNotFound.Error(), result.Failed[1].Error)

	users, total, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, busy.ID, users[0].ID)
}
