package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctiworks/intel-strategy/pkg/config"
)

func TestNewRegistersConfiguredCadences(t *testing.T) {
	cfg := config.ScheduleConfig{
		Timezone:    "UTC",
		DailyCron:   "0 9 * * *",
		WeeklyCron:  "0 9 * * 1",
		MonthlyCron: "0 9 1 * *",
		MonthlyDays: 30,
	}

	s, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 3)
	assert.Equal(t, "UTC", s.cron.Location().String())
}

func TestNewSkipsEmptyExpressions(t *testing.T) {
	cfg := config.ScheduleConfig{Timezone: "UTC", DailyCron: "0 9 * * *"}

	s, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestNewRejectsBadTimezone(t *testing.T) {
	_, err := New(config.ScheduleConfig{Timezone: "Mars/Olympus"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestNewRejectsBadCronExpression(t *testing.T) {
	_, err := New(config.ScheduleConfig{Timezone: "UTC", WeeklyCron: "not a cron"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly")
}
