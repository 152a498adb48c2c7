// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_normalizers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rapidaai/speaker/pkg/commons"
)

// =============================================================================
// Number Normalizer
// =============================================================================

const phoneContextWindow = 20

var (
	separatedDigits = regexp.MustCompile(`\p{Nd}+[-` + space + `]+\p{Nd}+`)
	plainDigits     = regexp.MustCompile(`\p{Nd}+`)
)

// contact keywords looked for in the characters just before a digit run
var contactKeywords = []*regexp.Regexp{
	regexp.MustCompile(`电话`),
	regexp.MustCompile(`联系`),
	regexp.MustCompile(`手机`),
	regexp.MustCompile(`致电`),
	regexp.MustCompile(`来电`),
	regexp.MustCompile(`(?i)\btel`),
	regexp.MustCompile(`(?i)\bphone`),
	regexp.MustCompile(`(?i)\bmobile`),
	regexp.MustCompile(`(?i)\bcontact`),
}

// phone-like digit counts, regardless of context
var phoneDigitCounts = map[int]struct{}{
	7:  {},
	8:  {},
	11: {},
}

// numberNormalizer decides per digit run whether a speech engine should read
// it digit by digit, like a phone number, or as a natural number.
//
// Separated runs such as 022-12345678 are handled first, then plain runs.
// Each pass is one left to right, non overlapping replace.
type numberNormalizer struct {
	logger commons.Logger
}

func NewNumberNormalizer(logger commons.Logger) Normalizer {
	return &numberNormalizer{logger: logger}
}

func (n *numberNormalizer) Normalize(text string) string {
	if text == "" {
		return text
	}
	text = n.rewrite(separatedDigits, text)
	return n.rewrite(plainDigits, text)
}

func (n *numberNormalizer) rewrite(pattern *regexp.Regexp, text string) string {
	matches := pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) * 2)
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		span := text[m[0]:m[1]]
		if IsPhoneLike(span, precedingWindow(text, m[0], phoneContextWindow)) {
			b.WriteString(SpellDigits(span))
		} else {
			b.WriteString(span)
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// IsPhoneLike reports whether span should be read digit by digit. before is
// the text immediately preceding the span.
func IsPhoneLike(span, before string) bool {
	if strings.ContainsRune(span, '-') {
		return true
	}
	if _, ok := phoneDigitCounts[countDigits(span)]; ok {
		return true
	}
	for _, keyword := range contactKeywords {
		if keyword.MatchString(before) {
			return true
		}
	}
	return false
}

// SpellDigits keeps only the digits of span, joined by single spaces.
func SpellDigits(span string) string {
	digits := make([]string, 0, len(span))
	for _, r := range span {
		if unicode.IsDigit(r) {
			digits = append(digits, string(r))
		}
	}
	return strings.Join(digits, " ")
}

func countDigits(span string) int {
	count := 0
	for _, r := range span {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}

// precedingWindow returns up to size runes of text ending at byte offset end.
func precedingWindow(text string, end, size int) string {
	start := end
	for i := 0; i < size && start > 0; i++ {
		_, width := utf8.DecodeLastRuneInString(text[:start])
		start -= width
	}
	return text[start:end]
}
