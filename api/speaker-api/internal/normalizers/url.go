// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_normalizers

import (
	"regexp"

	"github.com/rapidaai/speaker/pkg/commons"
)

// a url ends at whitespace, angle brackets, a double quote or full-width
// punctuation, so a flattened sentence terminator is not swallowed.
const urlBody = `[^` + space + `<>"。，、；：？！（）【】「」]+`

var urlPattern = regexp.MustCompile(`https?://` + urlBody + `|www\.` + urlBody)

var urlPlaceholders = map[Language]string{
	LanguageChinese: "网址链接",
	LanguageEnglish: "web link",
}

type urlNormalizer struct {
	logger      commons.Logger
	placeholder string
}

// NewUrlNormalizer replaces every url with a spoken placeholder so raw links
// never reach the speech engine.
func NewUrlNormalizer(logger commons.Logger, language Language) Normalizer {
	placeholder, ok := urlPlaceholders[language]
	if !ok {
		placeholder = urlPlaceholders[LanguageChinese]
	}
	return &urlNormalizer{logger: logger, placeholder: placeholder}
}

func (n *urlNormalizer) Normalize(text string) string {
	if text == "" {
		return text
	}
	return urlPattern.ReplaceAllLiteralString(text, n.placeholder)
}
