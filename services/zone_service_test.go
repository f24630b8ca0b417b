package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(n int) *int { return &n }

func TestZoneCreateCanonicalisesDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewZoneService(db, zap.NewNop())
	ctx := context.Background()

	zone, err := svc.Create(ctx, ZoneInput{
		Name:                " Norte ",
		Color:               "azul",
		ExpectedCollections: intPtr(2),
		Days:                []string{"Sábado", "segunda", "SEG"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Norte", zone.Name)
	assert.JSONEq(t, `["seg","sab"]`, string(zone.Days))

	_, err = svc.Create(ctx, ZoneInput{Name: "Norte", ExpectedCollections: intPtr(1), Days: []string{"ter"}})
	assert.ErrorIs(t, err, ErrZoneNameTaken)

	found, err := svc.FindByName(ctx, "Norte")
	require.NoError(t, err)
	assert.Equal(t, zone.ID, found.ID)
}

func TestZoneValidation(t *testing.T) {
	svc := NewZoneService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name string
		in   ZoneInput
	}{
		{"missing name", ZoneInput{ExpectedCollections: intPtr(1), Days: []string{"seg"}}},
		{"missing expected collections", ZoneInput{Name: "A", Days: []string{"seg"}}},
		{"negative expected collections", ZoneInput{Name: "A", ExpectedCollections: intPtr(-1), Days: []string{"seg"}}},
		{"no days", ZoneInput{Name: "A", ExpectedCollections: intPtr(1)}},
		{"unknown day", ZoneInput{Name: "A", ExpectedCollections: intPtr(1), Days: []string{"feriado"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestZoneUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewZoneService(db, zap.NewNop())
	ctx := context.Background()
	a := createZone(t, db, "A", "seg")
	createZone(t, db, "B", "ter")

	_, err := svc.Update(ctx, a.ID, ZoneInput{Name: "B", ExpectedCollections: intPtr(1), Days: []string{"seg"}})
	assert.ErrorIs(t, err, ErrZoneNameTaken)

	updated, err := svc.Update(ctx, a.ID, ZoneInput{Name: "A", Color: "roxo", ExpectedCollections: intPtr(0), Days: []string{"qua"}})
	require.NoError(t, err)
	assert.Equal(t, "roxo", updated.Color)
	assert.Equal(t, 0, updated.ExpectedCollections)
	assert.JSONEq(t, `["qua"]`, string(updated.Days))

	_, err = svc.Update(ctx, 999, ZoneInput{Name: "C", ExpectedCollections: intPtr(1), Days: []string{"seg"}})
	assert.ErrorIs(t, err, ErrZoneNotFound)
}

func TestZoneDeleteReferenced(t *testing.T) {
	db := newTestDB(t)
	svc := NewZoneService(db, zap.NewNop())
	ctx := context.Background()
	used := createZone(t, db, "Usada", "seg")
	unused := createZone(t, db, "Livre", "ter")
	createClient(t, db, used, "Cliente", "11912345678")

	assert.ErrorIs(t, svc.Delete(ctx, used.ID), ErrZoneInUse)
	require.NoError(t, svc.Delete(ctx, unused.ID))
	assert.ErrorIs(t, svc.Delete(ctx, unused.ID), ErrZoneNotFound)

	zones, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Usada", zones[0].Name)
}
