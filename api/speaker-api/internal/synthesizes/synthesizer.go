// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_synthesizes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rapidaai/speaker/config"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/rapidaai/speaker/pkg/utils"
)

const (
	CHARACTER_PATH = "/character"
)

var ErrEmptyText = errors.New("speaker-tts: nothing to synthesize")

// Synthesizer turns text into audio bytes using a named voice character.
type Synthesizer interface {
	Synthesize(ctx context.Context, character, text, language string) ([]byte, error)
}

type SynthesisRequest struct {
	Character    string `json:"character"`
	Text         string `json:"text"`
	TextLanguage string `json:"text_language"`
}

type SynthesisError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e SynthesisError) Error() string {
	b, err := json.Marshal(e)
	if err != nil {
		return "undefined error"
	}
	return string(b)
}

type characterSynthesizer struct {
	logger commons.Logger
	client *resty.Client
}

// NewCharacterSynthesizer talks to a GPT-SoVITS style endpoint that accepts
// {character, text, text_language} and answers with raw audio.
func NewCharacterSynthesizer(logger commons.Logger, cfg config.SynthesisConfig) Synthesizer {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ApiUrl, "/")).
		SetRetryCount(cfg.Retry).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &characterSynthesizer{
		logger: logger,
		client: client,
	}
}

func (s *characterSynthesizer) Synthesize(ctx context.Context, character, text, language string) ([]byte, error) {
	if utils.IsEmpty(text) {
		return nil, ErrEmptyText
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&SynthesisRequest{
			Character:    character,
			Text:         text,
			TextLanguage: language,
		}).
		Post(CHARACTER_PATH)
	if err != nil {
		s.logger.Errorf("speaker-tts: request to synthesis endpoint failed: %v", err)
		return nil, fmt.Errorf("speaker-tts: request failed: %w", err)
	}
	s.logger.Benchmark("characterSynthesizer.Synthesize", time.Since(start))

	if !resp.IsSuccess() {
		s.logger.Errorf("speaker-tts: synthesis failed with status %d: %s", resp.StatusCode(), resp.String())
		return nil, SynthesisError{
			StatusCode: resp.StatusCode(),
			Message:    resp.String(),
		}
	}
	s.logger.Debugf("speaker-tts: received %d bytes of audio for character %s", len(resp.Body()), character)
	return resp.Body(), nil
}
