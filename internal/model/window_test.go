package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhours/backend/internal/pkg/apperr"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestNewSyncWindow(t *testing.T) {
	w, err := NewSyncWindow(7, day(t, "2024-02-02"), day(t, "2024-02-04"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-02-02", "2024-02-03", "2024-02-04"}, w.Days())
	assert.True(t, w.Includes("2024-02-02"))
	assert.True(t, w.Includes("2024-02-04"))
	assert.False(t, w.Includes("2024-02-01"))
	assert.False(t, w.Includes("2024-02-05"))
	assert.Equal(t, "2024-02-02..2024-02-04", w.String())
}

func TestNewSyncWindowRejectsReversed(t *testing.T) {
	_, err := NewSyncWindow(7, day(t, "2024-02-05"), day(t, "2024-02-04"))
	assert.ErrorIs(t, err, apperr.ErrInvalidWindow)
}

func TestNewSyncWindowRejectsMissingBound(t *testing.T) {
	_, err := NewSyncWindow(7, time.Time{}, day(t, "2024-02-04"))
	assert.ErrorIs(t, err, apperr.ErrInvalidWindow)
}

func TestHoursFromSeconds(t *testing.T) {
	assert.Equal(t, 1.0, HoursFromSeconds(3600))
	assert.Equal(t, 0.5, HoursFromSeconds(1800))
	assert.Equal(t, 0.0, HoursFromSeconds(0))
	assert.Equal(t, 0.33, HoursFromSeconds(1200))
	assert.Equal(t, 7.75, HoursFromSeconds(27900))
}
