package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coleta-agenda/models"
	"coleta-agenda/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", services.ErrMissingPeriod, http.StatusBadRequest, `{"error":"Informe o período (startDate e endDate)."}`},
		{"unauthorized", services.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"Email ou senha inválidos"}`},
		{"forbidden", services.ErrAdminDeleteSelf, http.StatusForbidden, `{"error":"Você não pode excluir a si mesmo"}`},
		{"not found", services.ErrClientNotFound, http.StatusNotFound, ""},
		{"conflict", services.ErrZoneInUse, http.StatusConflict, `{"error":"Zona possui endereços vinculados"}`},
		{"wrapped", fmt.Errorf("outer: %w", services.ErrZoneNameTaken), http.StatusConflict, ""},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"Erro genérico"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.New(core), tt.err, "Erro genérico")

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
			// Only uncategorised errors are logged; their detail stays out of the response.
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, 1, logs.Len())
				assert.NotContains(t, w.Body.String(), "connection reset")
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, raw := range []string{"abc", "0", "-1"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, ok := parseID(c, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := parseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestAppointmentViewDefaults(t *testing.T) {
	appt := &models.Appointment{
		ID:            7,
		ClientID:      3,
		ScheduledDate: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		Shift:         models.ShiftMorning,
		Status:        models.StatusPending,
	}
	v := newAppointmentView(appt)
	assert.Equal(t, "2024-05-06", v.ScheduledDate)
	assert.Equal(t, "Não atribuída", v.Zone)
	assert.Equal(t, "Não atribuído", v.Responsible)
	assert.Nil(t, v.RealizedDate)

	done := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	appt.Status = models.StatusRealized
	appt.RealizedDate = &done
	appt.Zone = &models.Zone{Name: "Sul", Color: "verde"}
	appt.User = &models.User{Name: "Carlos"}
	appt.Client = &models.Client{Name: "Padaria", QRCode: "QR00000001", Phone: "11999990001"}
	v = newAppointmentView(appt)
	assert.Equal(t, "Sul", v.Zone)
	assert.Equal(t, "verde", v.ZoneColor)
	assert.Equal(t, "Carlos", v.Responsible)
	assert.Equal(t, "Padaria", v.ClientName)
	if assert.NotNil(t, v.RealizedDate) {
		assert.Equal(t, "2024-05-07", *v.RealizedDate)
	}
}
