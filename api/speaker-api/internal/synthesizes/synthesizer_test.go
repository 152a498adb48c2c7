package internal_synthesizes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rapidaai/speaker/config"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() commons.Logger {
	l, _ := commons.NewApplicationLogger(commons.Level("error"))
	return l
}

func newTestConfig(url string) config.SynthesisConfig {
	return config.SynthesisConfig{
		ApiUrl:    url,
		Character: "Amiya",
		Language:  "zh",
		Timeout:   5 * time.Second,
	}
}

func TestSynthesize_Success(t *testing.T) {
	var got SynthesisRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, CHARACTER_PATH, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFFaudio"))
	}))
	defer server.Close()

	s := NewCharacterSynthesizer(newTestLogger(), newTestConfig(server.URL+"/"))
	audio, err := s.Synthesize(context.Background(), "Amiya", "你好", "zh")

	require.NoError(t, err)
	assert.Equal(t, []byte("RIFFaudio"), audio)
	assert.Equal(t, SynthesisRequest{Character: "Amiya", Text: "你好", TextLanguage: "zh"}, got)
}

func TestSynthesize_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("text too long"))
	}))
	defer server.Close()

	s := NewCharacterSynthesizer(newTestLogger(), newTestConfig(server.URL))
	audio, err := s.Synthesize(context.Background(), "Amiya", "你好", "zh")

	assert.Nil(t, audio)
	var synthErr SynthesisError
	require.True(t, errors.As(err, &synthErr))
	assert.Equal(t, http.StatusInternalServerError, synthErr.StatusCode)
	assert.Equal(t, "text too long", synthErr.Message)
	assert.Contains(t, err.Error(), "status_code")
}

func TestSynthesize_EmptyText(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	s := NewCharacterSynthesizer(newTestLogger(), newTestConfig(server.URL))
	_, err := s.Synthesize(context.Background(), "Amiya", "   ", "zh")

	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSynthesize_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewCharacterSynthesizer(newTestLogger(), newTestConfig(server.URL))
	_, err := s.Synthesize(ctx, "Amiya", "你好", "zh")
	assert.Error(t, err)
}

func TestSynthesisError_Error(t *testing.T) {
	err := SynthesisError{StatusCode: 400, Message: "bad"}
	assert.JSONEq(t, `{"status_code":400,"message":"bad"}`, err.Error())
}
