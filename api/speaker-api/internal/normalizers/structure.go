// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_normalizers

import (
	"regexp"
	"strings"

	"github.com/rapidaai/speaker/pkg/commons"
)

const SentenceTerminator = "。"

var (
	lineBreakRun  = regexp.MustCompile(`[` + space + `]*\n[` + space + `]*`)
	terminatorRun = regexp.MustCompile(SentenceTerminator + `{2,}`)
)

// structureNormalizer flattens multi-line text into one line of sentences:
// every line break, with the whitespace around it, becomes a full-width
// period.
type structureNormalizer struct {
	logger commons.Logger
}

func NewStructureNormalizer(logger commons.Logger) Normalizer {
	return &structureNormalizer{logger: logger}
}

func (n *structureNormalizer) Normalize(text string) string {
	text = lineBreakRun.ReplaceAllLiteralString(text, SentenceTerminator)
	text = terminatorRun.ReplaceAllLiteralString(text, SentenceTerminator)
	return strings.TrimSpace(text)
}
