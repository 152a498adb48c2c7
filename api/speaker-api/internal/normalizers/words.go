// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_normalizers

import (
	"regexp"
	"strconv"

	"github.com/rapidaai/speaker/pkg/commons"
	ntw "moul.io/number-to-words"
)

// largest integer spelled out; longer runs are more likely ids than amounts
const maxSpelledInteger = 999_999_999

var standaloneInteger = regexp.MustCompile(`\b[0-9]+\b`)

// wordsNormalizer spells standalone integers as words. Only English has a
// converter, every other language passes through unchanged. It is not part
// of the default chain and has to be named in a custom pipeline.
type wordsNormalizer struct {
	logger   commons.Logger
	language Language
}

func NewWordsNormalizer(logger commons.Logger, language Language) Normalizer {
	return &wordsNormalizer{logger: logger, language: language}
}

func (n *wordsNormalizer) Normalize(text string) string {
	if n.language != LanguageEnglish {
		return text
	}
	return standaloneInteger.ReplaceAllStringFunc(text, func(span string) string {
		value, err := strconv.Atoi(span)
		if err != nil || value > maxSpelledInteger {
			return span
		}
		return ntw.IntegerToEnUs(value)
	})
}
