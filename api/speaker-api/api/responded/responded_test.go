package responded_api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	internal_audio "github.com/rapidaai/speaker/api/speaker-api/internal/audio"
	internal_synthesizes "github.com/rapidaai/speaker/api/speaker-api/internal/synthesizes"
	"github.com/rapidaai/speaker/config"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/rapidaai/speaker/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// Fakes
// =============================================================================

type synthesisCall struct {
	character string
	text      string
	language  string
}

type fakeSynthesizer struct {
	mu    sync.Mutex
	calls []synthesisCall
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, character, text, language string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, synthesisCall{character, text, language})
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func (f *fakeSynthesizer) Calls() []synthesisCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]synthesisCall(nil), f.calls...)
}

type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	data, ok := f.data[key]
	return data, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = data
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

var testSynthesisConfig = config.SynthesisConfig{
	ApiUrl:    "http://127.0.0.1:9880",
	Character: "Amiya",
	Language:  "zh",
	Timeout:   5 * time.Second,
}

func newTestHandler(t *testing.T, synth internal_synthesizes.Synthesizer, cache internal_audio.Cache) (*Handler, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "audio")
	store := internal_audio.NewFileStore(commons.NewNopLogger(), config.AudioConfig{
		OutputDir:  dir,
		SampleRate: 32000,
		Channels:   1,
	})
	return NewHandler(commons.NewNopLogger(), testSynthesisConfig, utils.Option{}, synth, store, cache), dir
}

func filesIn(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func decodeVoice(t *testing.T, reply *VoiceReply) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(reply.Voice)
	require.NoError(t, err)
	return data
}

// =============================================================================
// Handle
// =============================================================================

func TestHandle_Success(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte{1, 2, 3, 4}}
	h, dir := newTestHandler(t, synth, nil)

	reply, err := h.Handle(context.Background(), RespondedEvent{
		ResponseText: "<think>plan</think>**你好**，世界！",
	})
	require.NoError(t, err)

	assert.Equal(t, "你好，世界！", reply.Text)
	assert.Equal(t, "Amiya", reply.Character)
	assert.Equal(t, VoiceFormat, reply.Format)

	voice := decodeVoice(t, reply)
	assert.True(t, internal_audio.IsWAV(voice))
	assert.Equal(t, []byte{1, 2, 3, 4}, voice[internal_audio.WAVHeaderSize:])

	calls := synth.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, synthesisCall{"Amiya", "你好，世界！", "zh"}, calls[0])
	assert.Equal(t, 0, filesIn(t, dir))
}

func TestHandle_EventOverrides(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte{0, 0}}
	h, _ := newTestHandler(t, synth, nil)

	reply, err := h.Handle(context.Background(), RespondedEvent{
		ResponseText: "Pay 5$ now",
		Character:    "Kal'tsit",
		Language:     "en",
	})
	require.NoError(t, err)

	assert.Equal(t, "Pay 5 dollar now", reply.Text)
	assert.Equal(t, "Kal'tsit", reply.Character)
	assert.Equal(t, synthesisCall{"Kal'tsit", "Pay 5 dollar now", "en"}, synth.Calls()[0])
}

func TestHandle_NothingToSpeak(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"only reasoning", "<think>internal</think>"},
		{"only code", "```go\nfmt.Println()\n```"},
		{"only symbols", "（旁白）~~~"},
		{"whitespace", "   \n\t "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &fakeSynthesizer{audio: []byte{1}}
			h, dir := newTestHandler(t, synth, nil)

			reply, err := h.Handle(context.Background(), RespondedEvent{ResponseText: tt.text})
			assert.ErrorIs(t, err, ErrNothingToSpeak)
			assert.Nil(t, reply)
			assert.Empty(t, synth.Calls())
			assert.Equal(t, 0, filesIn(t, dir))
		})
	}
}

func TestHandle_SynthesisFailure(t *testing.T) {
	synth := &fakeSynthesizer{err: internal_synthesizes.SynthesisError{StatusCode: 500, Message: "boom"}}
	h, dir := newTestHandler(t, synth, nil)

	_, err := h.Handle(context.Background(), RespondedEvent{ResponseText: "你好"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSynthesisFailed)

	var synthErr internal_synthesizes.SynthesisError
	require.True(t, errors.As(err, &synthErr))
	assert.Equal(t, 500, synthErr.StatusCode)
	assert.Equal(t, 0, filesIn(t, dir))
}

func TestHandle_CacheMissStores(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte{9, 9}}
	cache := newFakeCache()
	h, _ := newTestHandler(t, synth, cache)

	_, err := h.Handle(context.Background(), RespondedEvent{ResponseText: "你好"})
	require.NoError(t, err)

	key := internal_audio.CacheKey("Amiya", "zh", "你好")
	assert.Equal(t, []byte{9, 9}, cache.data[key])
	assert.Len(t, synth.Calls(), 1)
}

func TestHandle_CacheHitSkipsSynthesis(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte{1}}
	cache := newFakeCache()
	cache.data[internal_audio.CacheKey("Amiya", "zh", "你好")] = []byte{7, 7, 7, 7}
	h, _ := newTestHandler(t, synth, cache)

	reply, err := h.Handle(context.Background(), RespondedEvent{ResponseText: "**你好**"})
	require.NoError(t, err)

	assert.Empty(t, synth.Calls())
	assert.Equal(t, []byte{7, 7, 7, 7}, decodeVoice(t, reply)[internal_audio.WAVHeaderSize:])
}

func TestHandle_CacheErrorsAreIgnored(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte{5}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	h, _ := newTestHandler(t, synth, cache)

	reply, err := h.Handle(context.Background(), RespondedEvent{ResponseText: "你好"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Voice)
	assert.Len(t, synth.Calls(), 1)
}

func TestHandle_ReusesNormalizerPerLanguage(t *testing.T) {
	h, _ := newTestHandler(t, &fakeSynthesizer{}, nil)

	assert.Same(t, h.normalizer("en-US"), h.normalizer("en"))
	assert.Same(t, h.normalizer(""), h.normalizer("zh"))
}

// =============================================================================
// HTTP
// =============================================================================

func newTestEngine(h *Handler) *gin.Engine {
	engine := gin.New()
	engine.POST("/v1/responded", h.Responded)
	engine.POST("/v1/normalize", h.Normalize)
	return engine
}

func post(engine *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestResponded_HTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		synthErr   error
		wantStatus int
	}{
		{"ok", `{"response_text":"你好"}`, nil, http.StatusOK},
		{"nothing to speak", `{"response_text":"<think>x</think>"}`, nil, http.StatusNoContent},
		{"missing text", `{"character":"Amiya"}`, nil, http.StatusBadRequest},
		{"malformed", `{"response_text":`, nil, http.StatusBadRequest},
		{"synthesis failure", `{"response_text":"你好"}`, errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, &fakeSynthesizer{audio: []byte{1, 2}, err: tt.synthErr}, nil)
			w := post(newTestEngine(h), "/v1/responded", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestResponded_HTTPBody(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte{1, 2}}
	h, _ := newTestHandler(t, synth, nil)

	w := post(newTestEngine(h), "/v1/responded", `{"response_text":"Hello & bye"}`, map[string]string{
		utils.HEADER_CHARACTER_KEY: "Texas",
		utils.HEADER_LANGUAGE_KEY:  "en",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reply VoiceReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "Hello and bye", reply.Text)
	assert.Equal(t, "Texas", reply.Character)
	assert.Equal(t, "wav", reply.Format)
	assert.NotEmpty(t, reply.Voice)
	assert.Equal(t, "en", synth.Calls()[0].language)
}

func TestNormalize_HTTP(t *testing.T) {
	h, _ := newTestHandler(t, &fakeSynthesizer{}, nil)
	engine := newTestEngine(h)

	w := post(engine, "/v1/normalize", `{"text":"# 标题\n访问 https://a.io 100%"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "标题。访问 网址链接 100百分", out["text"])
	assert.Equal(t, "zh", out["language"])

	w = post(engine, "/v1/normalize", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSpeakable(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"", false},
		{"。", false},
		{"，！？", false},
		{"好", true},
		{"5", true},
		{"ok.", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, speakable(tt.text))
		})
	}
}
