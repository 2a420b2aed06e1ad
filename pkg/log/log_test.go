package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	logger, err := NewLogger(Options{Level: "debug", AppEnv: "test"})
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
	require.True(t, logger.ReportCaller)
}

func TestNewLogger_DefaultLevel(t *testing.T) {
	logger, err := NewLogger(Options{AppEnv: "test"})
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(Options{Level: "loud"})
	require.Error(t, err)
}
