// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

import (
	"context"
	"strings"
	"time"

	internal_normalizers "github.com/rapidaai/speaker/api/speaker-api/internal/normalizers"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/rapidaai/speaker/pkg/utils"
)

// =============================================================================
// Text Normalizer Interface
// =============================================================================

// TextNormalizer defines the contract for turning model output into text a
// speech engine can read aloud.
type TextNormalizer interface {
	// Normalize transforms text for optimal TTS output.
	Normalize(ctx context.Context, text string) string
}

const (
	OptionsKeyLanguage      = "speaker.language"
	OptionsKeyReasoningTags = "speaker.reasoning.tags"
	OptionsKeyPipeline      = "speaker.pronunciation.dictionaries"
)

type NormalizerConfig struct {
	Language      internal_normalizers.Language
	ReasoningTags []string
	Pipeline      []string
}

func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		Language:      internal_normalizers.LanguageChinese,
		ReasoningTags: []string{internal_normalizers.DefaultReasoningTag},
		Pipeline:      []string{},
	}
}

// BuildNormalizerPipeline builds the stages named in names, in that order.
// Unknown names are logged and skipped.
func BuildNormalizerPipeline(logger commons.Logger, cfg NormalizerConfig, names []string) []internal_normalizers.Normalizer {
	normalizers := make([]internal_normalizers.Normalizer, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		var normalizer internal_normalizers.Normalizer

		switch name {
		case "unicode", "nfc":
			normalizer = internal_normalizers.NewUnicodeNormalizer(logger)
		case "reasoning", "think":
			normalizer = internal_normalizers.NewReasoningNormalizer(logger, cfg.ReasoningTags...)
		case "markdown":
			normalizer = internal_normalizers.NewMarkdownNormalizer(logger)
		case "structure", "flatten":
			normalizer = internal_normalizers.NewStructureNormalizer(logger)
		case "url":
			normalizer = internal_normalizers.NewUrlNormalizer(logger, cfg.Language)
		case "number", "phone":
			normalizer = internal_normalizers.NewNumberNormalizer(logger)
		case "symbol":
			normalizer = internal_normalizers.NewSymbolNormalizer(logger, cfg.Language)
		case "words":
			normalizer = internal_normalizers.NewWordsNormalizer(logger, cfg.Language)
		default:
			logger.Warnf("normalizer: unknown normalizer '%s', skipping", name)
			continue
		}
		normalizers = append(normalizers, normalizer)
	}
	return normalizers
}

// =============================================================================
// Speaker Text Normalizer
// =============================================================================

type speakerOptions struct {
	Language      string `option:"speaker.language"`
	ReasoningTags string `option:"speaker.reasoning.tags"`
	Dictionaries  string `option:"speaker.pronunciation.dictionaries"`
}

type speakerNormalizer struct {
	logger commons.Logger
	config NormalizerConfig
	chain  internal_normalizers.Chain
}

// NewSpeakerNormalizer creates the normalizer used before every synthesis
// call. Without an explicit speaker.pronunciation.dictionaries option it runs
// the full speakable chain.
func NewSpeakerNormalizer(logger commons.Logger, opts utils.Option) TextNormalizer {
	cfg := DefaultNormalizerConfig()

	var so speakerOptions
	if err := opts.Decode(&so); err != nil {
		logger.Warnf("normalizer: unable to decode options, using defaults: %v", err)
	}
	if so.Language != "" {
		cfg.Language = internal_normalizers.ParseLanguage(so.Language)
	}
	if so.ReasoningTags != "" {
		cfg.ReasoningTags = strings.Split(so.ReasoningTags, commons.SEPARATOR)
	}

	var chain internal_normalizers.Chain
	if so.Dictionaries != "" {
		cfg.Pipeline = strings.Split(so.Dictionaries, commons.SEPARATOR)
		chain = BuildNormalizerPipeline(logger, cfg, cfg.Pipeline)
	} else {
		chain = internal_normalizers.NewSpeakableChain(logger, cfg.Language, cfg.ReasoningTags...)
	}

	return &speakerNormalizer{
		logger: logger,
		config: cfg,
		chain:  chain,
	}
}

func (n *speakerNormalizer) Normalize(ctx context.Context, text string) string {
	if text == "" {
		return text
	}
	start := time.Now()
	defer func() {
		n.logger.Benchmark("speakerNormalizer.Normalize", time.Since(start))
	}()
	return n.chain.Normalize(text)
}
