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

// =============================================================================
// Markdown Normalizer
// =============================================================================

var (
	mdFencedCode   = regexp.MustCompile("(?s)```.*?```")
	mdInlineCode   = regexp.MustCompile("`[^`]*`")
	mdLinkOrImage  = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdHeading      = regexp.MustCompile(`(?m)^#+[` + space + `]+`)
	mdBoldStar     = regexp.MustCompile(`\*\*([^*]*)\*\*`)
	mdItalicStar   = regexp.MustCompile(`\*([^*]*)\*`)
	mdBoldUnder    = regexp.MustCompile(`__([^_]*)__`)
	mdItalicUnder  = regexp.MustCompile(`_([^_]*)_`)
	mdBlockquote   = regexp.MustCompile(`(?m)^[` + space + `]*>[` + space + `]+`)
	mdRule         = regexp.MustCompile(`(?m)^[` + space + `]*[-*_]{3,}[` + space + `]*$`)
	mdUnordered    = regexp.MustCompile(`(?m)^[` + space + `]*[-*+][` + space + `]+`)
	mdOrdered      = regexp.MustCompile(`(?m)^[` + space + `]*\d+\.[` + space + `]+`)
	mdParenthesis  = regexp.MustCompile(`\(.*?\)`)
	mdFullWidthPar = regexp.MustCompile(`（.*?）`)
	mdTildeEllipse = regexp.MustCompile(`[~…]+`)
)

// markdownNormalizer unwraps or drops markdown syntax with targeted rewrites.
// Rules run once each and in a fixed order: emphasis is unwrapped double
// before single so a bold marker is never read as two italic ones.
//
// Everything inside parentheses, ascii or full width, is dropped along with
// the brackets. That removes citations and asides alike.
type markdownNormalizer struct {
	logger commons.Logger
}

func NewMarkdownNormalizer(logger commons.Logger) Normalizer {
	return &markdownNormalizer{logger: logger}
}

func (n *markdownNormalizer) Normalize(text string) string {
	if text == "" {
		return text
	}

	text = mdFencedCode.ReplaceAllLiteralString(text, "")
	text = mdInlineCode.ReplaceAllLiteralString(text, "")
	text = n.replaceLinks(text)
	text = mdHeading.ReplaceAllLiteralString(text, "")

	text = mdBoldStar.ReplaceAllString(text, "$1")
	text = mdItalicStar.ReplaceAllString(text, "$1")
	text = mdBoldUnder.ReplaceAllString(text, "$1")
	text = mdItalicUnder.ReplaceAllString(text, "$1")

	text = mdBlockquote.ReplaceAllLiteralString(text, "")
	text = mdRule.ReplaceAllLiteralString(text, "")
	text = mdUnordered.ReplaceAllLiteralString(text, "")
	text = mdOrdered.ReplaceAllLiteralString(text, "")

	text = mdParenthesis.ReplaceAllLiteralString(text, "")
	text = mdFullWidthPar.ReplaceAllLiteralString(text, "")
	return mdTildeEllipse.ReplaceAllLiteralString(text, "")
}

// replaceLinks keeps the text of [text](url) and drops ![alt](url) whole.
// Both are resolved in one scan, otherwise the link rule would eat the
// bracket part of every image and leave a bare "!alt" behind.
func (n *markdownNormalizer) replaceLinks(text string) string {
	return mdLinkOrImage.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasPrefix(m, "!") {
			return ""
		}
		if sub := mdLinkOrImage.FindStringSubmatch(m); len(sub) > 1 {
			return sub[1]
		}
		return m
	})
}
