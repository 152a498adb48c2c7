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

const (
	DefaultReasoningTag = "think"
	maxReasoningPasses  = 10
)

var blankLines = regexp.MustCompile(`\n[` + space + `]*\n`)

type reasoningTag struct {
	open  string
	close string
}

// reasoningNormalizer drops <think>...</think> style spans.
//
// Every pass removes the innermost complete spans, so nested blocks need one
// pass per level. Passes stop once the opening tag is gone, once a pass
// removes nothing, or after maxReasoningPasses. An opening tag without a
// closer is left where it is.
type reasoningNormalizer struct {
	logger commons.Logger
	tags   []reasoningTag
}

func NewReasoningNormalizer(logger commons.Logger, tags ...string) Normalizer {
	if len(tags) == 0 {
		tags = []string{DefaultReasoningTag}
	}
	rt := make([]reasoningTag, 0, len(tags))
	for _, tag := range tags {
		tag = strings.Trim(strings.TrimSpace(tag), "<>/")
		if tag == "" {
			continue
		}
		rt = append(rt, reasoningTag{open: "<" + tag + ">", close: "</" + tag + ">"})
	}
	return &reasoningNormalizer{logger: logger, tags: rt}
}

func (n *reasoningNormalizer) Normalize(text string) string {
	for _, tag := range n.tags {
		text = n.strip(text, tag)
	}
	return text
}

func (n *reasoningNormalizer) strip(text string, tag reasoningTag) string {
	for pass := 0; pass < maxReasoningPasses && strings.Contains(text, tag.open); pass++ {
		next, removed := removeInnermost(text, tag)
		if !removed {
			break
		}
		text = blankLines.ReplaceAllLiteralString(strings.TrimSpace(next), "\n")
	}
	if strings.Contains(text, tag.open) {
		n.logger.Debugf("normalizer: unmatched %s left in text", tag.open)
	}
	return text
}

// removeInnermost removes, left to right, every span that runs from an
// opening tag to the first closing tag after it with no other opening tag
// in between. Stray closing tags are kept.
func removeInnermost(text string, tag reasoningTag) (string, bool) {
	var b strings.Builder
	removed := false
	for {
		c := strings.Index(text, tag.close)
		if c < 0 {
			break
		}
		o := strings.LastIndex(text[:c], tag.open)
		if o < 0 {
			b.WriteString(text[:c+len(tag.close)])
			text = text[c+len(tag.close):]
			continue
		}
		b.WriteString(text[:o])
		text = text[c+len(tag.close):]
		removed = true
	}
	b.WriteString(text)
	return b.String(), removed
}
