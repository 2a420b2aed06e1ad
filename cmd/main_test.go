package main

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"posture-bot/config"
	"posture-bot/pkg/log"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		PoseServiceTimeout: time.Second,
		RateLimitRPS:       10,
		RateLimitBurst:     10,
	}
}

func TestRun_RedisUnreachableReturnsError(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPPort = "0"
	cfg.RedisAddress = "127.0.0.1:1"

	reg := prometheus.NewRegistry()
	err := run(context.Background(), cfg, log.Discard(), reg, reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connect to redis")
}

func TestRun_ListenErrorReturnsError(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPPort = "-1"

	reg := prometheus.NewRegistry()
	err := run(context.Background(), cfg, log.Discard(), reg, reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "server")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPPort = "0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	reg := prometheus.NewRegistry()
	go func() { done <- run(ctx, cfg, log.Discard(), reg, reg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}
