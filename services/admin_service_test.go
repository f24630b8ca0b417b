package services

import (
	"context"
	"testing"
	"time"

	"coleta-agenda/models"
	"coleta-agenda/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newAdminService(t *testing.T) *AdminService {
	t.Helper()
	return NewAdminService(newTestDB(t), zap.NewNop(), TokenIssuer{Secret: testSecret, TTL: time.Hour})
}

func TestAdminLogin(t *testing.T) {
	svc := newAdminService(t)
	ctx := context.Background()

	admin, token, err := svc.Register(ctx, AdminInput{Name: "Root", Email: "root@coleta.com", Password: "segredo1"})
	require.NoError(t, err)
	claims, err := utils.ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.ID)
	assert.Equal(t, utils.RoleAdmin, claims.Role)

	result, err := svc.Login(ctx, "ROOT@coleta.com", "segredo1")
	require.NoError(t, err)
	assert.False(t, result.MustReset)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(ctx, "root@coleta.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLoginWithResetFlagReturnsNoToken(t *testing.T) {
	svc := newAdminService(t)
	ctx := context.Background()

	admin, err := svc.Create(ctx, AdminInput{Name: "Seed", Email: "seed@coleta.com", Password: "admin123"}, true)
	require.NoError(t, err)

	result, err := svc.Login(ctx, "seed@coleta.com", "admin123")
	require.NoError(t, err)
	assert.True(t, result.MustReset)
	assert.Empty(t, result.Token)
	assert.Equal(t, admin.ID, result.Admin.ID)

	reset, err := svc.CompleteReset(ctx, admin.ID, AdminInput{Name: "Dona", Email: "dona@coleta.com", Password: "nova-senha"})
	require.NoError(t, err)
	assert.False(t, reset.MustReset)

	_, err = svc.CompleteReset(ctx, admin.ID, AdminInput{Name: "Dona", Email: "dona@coleta.com", Password: "outra-senha"})
	assert.ErrorIs(t, err, ErrAdminResetNotPending)
	assert.ErrorIs(t, err, ErrForbidden)

	result, err = svc.Login(ctx, "dona@coleta.com", "nova-senha")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAdminResetEmailConflict(t *testing.T) {
	svc := newAdminService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, AdminInput{Name: "A", Email: "a@coleta.com", Password: "segredo1"}, false)
	require.NoError(t, err)
	seeded, err := svc.Create(ctx, AdminInput{Name: "B", Email: "b@coleta.com", Password: "segredo1"}, true)
	require.NoError(t, err)

	_, err = svc.CompleteReset(ctx, seeded.ID, AdminInput{Name: "B", Email: "a@coleta.com", Password: "segredo2"})
	assert.ErrorIs(t, err, ErrAdminEmailTaken)
}

func TestAdminDeleteRules(t *testing.T) {
	svc := newAdminService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, AdminInput{Name: "Padrão", Email: "p@coleta.com", Password: "segredo1"}, false)
	require.NoError(t, err)
	require.Equal(t, models.DefaultAdminID, first.ID)
	second, err := svc.Create(ctx, AdminInput{Name: "Dois", Email: "d@coleta.com", Password: "segredo1"}, false)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, second.ID, second.ID), ErrAdminDeleteSelf)
	assert.ErrorIs(t, svc.Delete(ctx, second.ID, first.ID), ErrAdminDeleteDefault)
	assert.ErrorIs(t, svc.Delete(ctx, first.ID, 999), ErrAdminNotFound)
	require.NoError(t, svc.Delete(ctx, first.ID, second.ID))

	admins, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestAdminUpdate(t *testing.T) {
	svc := newAdminService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, AdminInput{Name: "A", Email: "a@coleta.com", Password: "segredo1"}, false)
	require.NoError(t, err)
	_, err = svc.Create(ctx, AdminInput{Name: "B", Email: "b@coleta.com", Password: "segredo1"}, false)
	require.NoError(t, err)

	_, err = svc.Update(ctx, a.ID, AdminInput{Name: "A", Email: "b@coleta.com"})
	assert.ErrorIs(t, err, ErrAdminEmailTaken)

	_, err = svc.Update(ctx, a.ID, AdminInput{Name: "A", Email: "a@coleta.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.Update(ctx, a.ID, AdminInput{Name: "Alice", Email: "alice@coleta.com"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)

	result, err := svc.Login(ctx, "alice@coleta.com", "segredo1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}
