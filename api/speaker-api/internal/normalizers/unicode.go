// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_normalizers

import (
	"github.com/rapidaai/speaker/pkg/commons"
	"golang.org/x/text/unicode/norm"
)

type unicodeNormalizer struct {
	logger commons.Logger
}

// NewUnicodeNormalizer composes text into NFC so a letter followed by a
// combining mark is a single word character for the later sweeps.
func NewUnicodeNormalizer(logger commons.Logger) Normalizer {
	return &unicodeNormalizer{logger: logger}
}

func (n *unicodeNormalizer) Normalize(text string) string {
	if text == "" {
		return text
	}
	return norm.NFC.String(text)
}
