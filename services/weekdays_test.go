package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayIndex(t *testing.T) {
	tests := []struct {
		label string
		want  time.Weekday
		ok    bool
	}{
		{"Sáb", time.Saturday, true},
		{"SAB", time.Saturday, true},
		{"sat", time.Saturday, true},
		{"sábado", time.Saturday, true},
		{"dom", time.Sunday, true},
		{"Terça-feira", time.Tuesday, true},
		{"qua.", time.Wednesday, true},
		{"Monday", time.Monday, true},
		{" sex ", time.Friday, true},
		{"feriado", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := WeekdayIndex(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	t.Run("native array", func(t *testing.T) {
		set := ParseWeekdays([]byte(`["seg","qua","Sex"]`))
		assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, set.Days())
	})

	t.Run("json encoded string", func(t *testing.T) {
		set := ParseWeekdays([]byte(`"[\"ter\",\"qui\"]"`))
		assert.Equal(t, []string{"ter", "qui"}, set.Codes())
	})

	t.Run("object wrapper", func(t *testing.T) {
		set := ParseWeekdays([]byte(`{"dias":["dom","Sábado"]}`))
		assert.Equal(t, []string{"dom", "sab"}, set.Codes())

		set = ParseWeekdays([]byte(`{"dias":"[\"qua\"]"}`))
		assert.Equal(t, []string{"qua"}, set.Codes())

		assert.True(t, ParseWeekdays([]byte(`{"outros":["seg"]}`)).Empty())
	})

	t.Run("unknown labels are skipped", func(t *testing.T) {
		set := ParseWeekdays([]byte(`["seg","xyz"]`))
		assert.Equal(t, []string{"seg"}, set.Codes())
	})

	t.Run("malformed yields empty set", func(t *testing.T) {
		assert.True(t, ParseWeekdays([]byte(`{not json`)).Empty())
		assert.True(t, ParseWeekdays(nil).Empty())
		assert.True(t, ParseWeekdays([]byte(`"not an array"`)).Empty())
	})
}

func TestCanonicalWeekdays(t *testing.T) {
	codes, err := CanonicalWeekdays([]string{"Sexta", "mon", "seg", "Sáb"})
	require.NoError(t, err)
	assert.Equal(t, []string{"seg", "sex", "sab"}, codes)

	_, err = CanonicalWeekdays([]string{"seg", "feriado"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "feriado")
}
