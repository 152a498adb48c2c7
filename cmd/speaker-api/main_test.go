package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	internal_type "github.com/rapidaai/speaker/api/speaker-api/internal/type"
	"github.com/rapidaai/speaker/config"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *AppRunner {
	t.Helper()
	return &AppRunner{
		Logger: commons.NewNopLogger(),
		Cfg: &config.AppConfig{
			Name:    "speaker-api",
			Version: "0.0.1",
			Host:    "127.0.0.1",
			Port:    0,
			Env:     "development",
			SynthesisConfig: config.SynthesisConfig{
				ApiUrl:    "http://127.0.0.1:9880",
				Character: "Amiya",
				Language:  "zh",
				Timeout:   time.Second,
			},
			AudioConfig: config.AudioConfig{
				OutputDir:  t.TempDir(),
				SampleRate: 32000,
				Channels:   1,
			},
			NormalizerConfig: config.NormalizerConfig{
				ReasoningTags: []string{"think", "reflect"},
			},
		},
	}
}

func TestNormalizerOptions(t *testing.T) {
	app := newTestApp(t)

	opts := app.normalizerOptions()
	assert.Equal(t, "zh", opts[internal_type.OptionsKeyLanguage])
	assert.Equal(t, "think"+commons.SEPARATOR+"reflect", opts[internal_type.OptionsKeyReasoningTags])
	_, ok := opts[internal_type.OptionsKeyPipeline]
	assert.False(t, ok)

	app.Cfg.NormalizerConfig.Pipeline = []string{"markdown", "symbol"}
	opts = app.normalizerOptions()
	assert.Equal(t, "markdown"+commons.SEPARATOR+"symbol", opts[internal_type.OptionsKeyPipeline])
}

func TestAllConnectors_RedisDisabled(t *testing.T) {
	app := newTestApp(t)
	app.AllConnectors(context.Background())
	assert.Nil(t, app.Redis)
}

func TestInit_Routes(t *testing.T) {
	app := newTestApp(t)
	app.Init()
	require.NotNil(t, app.Server)
	assert.Equal(t, "127.0.0.1:0", app.Server.Addr)

	w := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readiness/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := newTestApp(t)
	app.Init()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
