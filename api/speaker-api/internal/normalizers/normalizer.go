// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_normalizers

import (
	"strings"

	"github.com/rapidaai/speaker/pkg/commons"
)

// Normalizer is a single pure rewrite stage. Implementations hold only
// read-only state and are safe for concurrent use.
type Normalizer interface {
	Normalize(string) string
}

// Language selects the spoken vocabulary used by the url and symbol stages.
type Language string

const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"
)

// ParseLanguage maps a language code onto a supported Language, falling back
// to Chinese.
func ParseLanguage(code string) Language {
	code = strings.ToLower(strings.TrimSpace(code))
	switch {
	case code == "en", strings.HasPrefix(code, "en-"), strings.HasPrefix(code, "en_"):
		return LanguageEnglish
	default:
		return LanguageChinese
	}
}

// whitespace matched by the stages; wider than RE2's ASCII-only \s so that
// full-width and other unicode spaces count.
const space = `\s\x{0B}\x{85}\p{Z}`

// Chain applies its stages in order, feeding each output into the next.
type Chain []Normalizer

func (c Chain) Normalize(text string) string {
	for _, n := range c {
		text = n.Normalize(text)
	}
	return text
}

// NewSpeakableChain builds the full ordered pipeline that turns model output
// into speakable plain text.
func NewSpeakableChain(logger commons.Logger, language Language, reasoningTags ...string) Chain {
	return Chain{
		NewUnicodeNormalizer(logger),
		NewReasoningNormalizer(logger, reasoningTags...),
		NewMarkdownNormalizer(logger),
		NewStructureNormalizer(logger),
		NewUrlNormalizer(logger, language),
		NewNumberNormalizer(logger),
		NewSymbolNormalizer(logger, language),
	}
}

var defaultChain = NewSpeakableChain(commons.NewNopLogger(), LanguageChinese)

// Normalize runs the default Chinese pipeline over text. It never fails; the
// result holds only word characters, whitespace and preserved punctuation.
func Normalize(text string) string {
	return defaultChain.Normalize(text)
}
