package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesterday(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-02-07 20:30 UTC is already 2024-02-08 in Tokyo
	now := time.Date(2024, 2, 7, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-06", Format(Yesterday(now, time.UTC)))
	assert.Equal(t, "2024-02-07", Format(Yesterday(now, tokyo)))
}

func TestYesterdayAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, "2024-02-29", Format(Yesterday(now, time.UTC)))
}

func TestDays(t *testing.T) {
	start, err := Parse("2024-02-27", time.UTC)
	require.NoError(t, err)
	end, err := Parse("2024-03-02", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, Days(start, end))
	assert.Equal(t, []string{"2024-02-27"}, Days(start, start))
	assert.Empty(t, Days(end, start))
}

func TestDaysAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	start, err := Parse("2024-03-30", berlin)
	require.NoError(t, err)
	end, err := Parse("2024-04-01", berlin)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-03-30", "2024-03-31", "2024-04-01"}, Days(start, end))
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse("2024/02/06", time.UTC)
	assert.Error(t, err)
}
