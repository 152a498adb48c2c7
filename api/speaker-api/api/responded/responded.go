// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package responded_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	internal_audio "github.com/rapidaai/speaker/api/speaker-api/internal/audio"
	internal_normalizers "github.com/rapidaai/speaker/api/speaker-api/internal/normalizers"
	internal_synthesizes "github.com/rapidaai/speaker/api/speaker-api/internal/synthesizes"
	internal_type "github.com/rapidaai/speaker/api/speaker-api/internal/type"
	"github.com/rapidaai/speaker/config"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/rapidaai/speaker/pkg/utils"
)

const VoiceFormat = "wav"

var (
	ErrNothingToSpeak  = errors.New("speaker: nothing to speak after normalization")
	ErrSynthesisFailed = errors.New("speaker: synthesis failed")
)

// RespondedEvent is posted by the chat runtime once a model reply is complete.
type RespondedEvent struct {
	ResponseText string `json:"response_text" binding:"required"`
	Character    string `json:"character,omitempty"`
	Language     string `json:"language,omitempty"`
}

type VoiceReply struct {
	Voice     string `json:"voice"`
	Text      string `json:"text"`
	Character string `json:"character"`
	Format    string `json:"format"`
}

type NormalizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type Handler struct {
	logger      commons.Logger
	config      config.SynthesisConfig
	options     utils.Option
	synthesizer internal_synthesizes.Synthesizer
	store       internal_audio.Store
	cache       internal_audio.Cache

	// internal_normalizers.Language -> internal_type.TextNormalizer
	normalizers sync.Map
}

// NewHandler wires the voice reply flow. cache may be nil.
func NewHandler(
	logger commons.Logger,
	cfg config.SynthesisConfig,
	options utils.Option,
	synthesizer internal_synthesizes.Synthesizer,
	store internal_audio.Store,
	cache internal_audio.Cache,
) *Handler {
	return &Handler{
		logger:      logger,
		config:      cfg,
		options:     options,
		synthesizer: synthesizer,
		store:       store,
		cache:       cache,
	}
}

func (h *Handler) normalizer(language string) internal_type.TextNormalizer {
	lang := internal_normalizers.ParseLanguage(language)
	if n, ok := h.normalizers.Load(lang); ok {
		return n.(internal_type.TextNormalizer)
	}
	n, _ := h.normalizers.LoadOrStore(lang, internal_type.NewSpeakerNormalizer(
		h.logger,
		h.options.With(internal_type.OptionsKeyLanguage, string(lang)),
	))
	return n.(internal_type.TextNormalizer)
}

func (h *Handler) language(requested string) string {
	if !utils.IsEmpty(requested) {
		return requested
	}
	if language, err := h.options.GetString(internal_type.OptionsKeyLanguage); err == nil && language != "" {
		return language
	}
	return h.config.Language
}

// Handle turns one responded event into a voice reply. The temporary audio
// file never outlives the call.
func (h *Handler) Handle(ctx context.Context, event RespondedEvent) (*VoiceReply, error) {
	start := time.Now()
	defer func() {
		h.logger.Benchmark("Handler.Handle", time.Since(start))
	}()

	character := event.Character
	if utils.IsEmpty(character) {
		character = h.config.Character
	}
	language := h.language(event.Language)

	text := h.normalizer(language).Normalize(ctx, event.ResponseText)
	if !speakable(text) {
		h.logger.Debugf("speaker: response of %d bytes has nothing speakable", len(event.ResponseText))
		return nil, ErrNothingToSpeak
	}

	audio, err := h.synthesize(ctx, character, language, text)
	if err != nil {
		return nil, err
	}

	path, err := h.store.Save(ctx, audio)
	if err != nil {
		h.logger.Errorf("speaker: unable to persist audio: %v", err)
		return nil, err
	}
	defer func() {
		if err := h.store.Remove(path); err != nil {
			h.logger.Errorf("speaker: unable to clean up %s: %v", path, err)
		}
	}()

	voice, err := h.store.ReadBase64(path)
	if err != nil {
		h.logger.Errorf("speaker: unable to read back audio: %v", err)
		return nil, err
	}

	return &VoiceReply{
		Voice:     voice,
		Text:      text,
		Character: character,
		Format:    VoiceFormat,
	}, nil
}

// speakable reports whether text has anything a voice can read, not just
// punctuation left over from flattening.
func speakable(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) >= 0
}

func (h *Handler) synthesize(ctx context.Context, character, language, text string) ([]byte, error) {
	key := internal_audio.CacheKey(character, language, text)
	if h.cache != nil {
		data, ok, err := h.cache.Get(ctx, key)
		if err != nil {
			h.logger.Warnf("speaker: cache lookup failed, synthesizing: %v", err)
		} else if ok {
			h.logger.Debugf("speaker: cache hit for %s", key)
			return data, nil
		}
	}

	data, err := h.synthesizer.Synthesize(ctx, character, text, language)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, data); err != nil {
			h.logger.Warnf("speaker: unable to cache audio: %v", err)
		}
	}
	return data, nil
}

// Responded is the gin handler for POST /v1/responded.
func (h *Handler) Responded(c *gin.Context) {
	var event RespondedEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warnf("speaker: invalid responded event: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if event.Character == "" {
		event.Character = c.GetHeader(utils.HEADER_CHARACTER_KEY)
	}
	if event.Language == "" {
		event.Language = c.GetHeader(utils.HEADER_LANGUAGE_KEY)
	}

	reply, err := h.Handle(c.Request.Context(), event)
	switch {
	case errors.Is(err, ErrNothingToSpeak):
		c.Status(http.StatusNoContent)
	case errors.Is(err, ErrSynthesisFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, reply)
	}
}

// Normalize is the gin handler for POST /v1/normalize.
func (h *Handler) Normalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Language == "" {
		req.Language = c.GetHeader(utils.HEADER_LANGUAGE_KEY)
	}
	language := h.language(req.Language)
	c.JSON(http.StatusOK, gin.H{
		"text":     h.normalizer(language).Normalize(c.Request.Context(), req.Text),
		"language": language,
	})
}
