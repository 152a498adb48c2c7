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
// Symbol Normalizer
// =============================================================================

// PreservedPunctuation survives the final sweep next to word characters and
// whitespace.
const PreservedPunctuation = "。，、；：？！—·" + ".,;:?!" + "“”‘’\"'"

var chineseSymbols = map[string]string{
	"@": "艾特",
	"#": "井号",
	"$": "美元",
	"%": "百分",
	"&": "和",
	"+": "加",
	"=": "等于",
	"^": "上尖号",
	"*": "星号",
	"×": "乘以",
	"÷": "除以",
	"√": "根号",
	"∑": "求和",
	"∏": "求积",
	"±": "正负",
	"≠": "不等于",
	"≤": "小于等于",
	"≥": "大于等于",
	"≈": "约等于",
	"∞": "无穷",
	"∵": "因为",
	"∴": "所以",
	"∠": "角",
	"⊙": "圆",
	"○": "圆",
	"π": "派",
	"∫": "积分",
	"∮": "曲线积分",
	"∪": "并集",
	"∩": "交集",
	"∈": "属于",
	"∉": "不属于",
	"⊆": "包含于",
	"⊂": "真包含于",
	"⊇": "包含",
	"⊃": "真包含",
	"∅": "空集",
	"∀": "任意",
	"∃": "存在",
	"¬": "非",
	"∧": "与",
	"∨": "或",
	"⇒": "推出",
	"⇔": "等价于",
}

var englishSymbols = map[string]string{
	"@": " at ",
	"#": " hash ",
	"$": " dollar ",
	"%": " percent ",
	"&": " and ",
	"+": " plus ",
	"=": " equals ",
	"^": " caret ",
	"*": " star ",
	"×": " times ",
	"÷": " divided by ",
	"√": " square root of ",
	"∑": " sum of ",
	"∏": " product of ",
	"±": " plus or minus ",
	"≠": " not equal to ",
	"≤": " less than or equal to ",
	"≥": " greater than or equal to ",
	"≈": " approximately ",
	"∞": " infinity ",
	"∵": " because ",
	"∴": " therefore ",
	"∠": " angle ",
	"⊙": " circle ",
	"○": " circle ",
	"π": " pi ",
	"∫": " integral ",
	"∮": " contour integral ",
	"∪": " union ",
	"∩": " intersection ",
	"∈": " in ",
	"∉": " not in ",
	"⊆": " subset of ",
	"⊂": " proper subset of ",
	"⊇": " superset of ",
	"⊃": " proper superset of ",
	"∅": " empty set ",
	"∀": " for all ",
	"∃": " there exists ",
	"¬": " not ",
	"∧": " and ",
	"∨": " or ",
	"⇒": " implies ",
	"⇔": " if and only if ",
}

// kaomoji arms such as ٩(◕‿◕)و are a letter and a digit, so the sweep keeps
// them; the Chinese table drops them explicitly.
var kaomojiResidue = regexp.MustCompile(`[٩و]`)

var (
	unspeakable    = regexp.MustCompile(`[^\p{L}\p{N}_` + space + classEscape(PreservedPunctuation) + `]`)
	horizontalRuns = regexp.MustCompile(`[ \t]{2,}`)
)

type symbolTable struct {
	replacer *strings.Replacer
	padded   bool
	residue  *regexp.Regexp
}

var symbolTables = map[Language]symbolTable{
	LanguageChinese: {replacer: newSymbolReplacer(chineseSymbols), residue: kaomojiResidue},
	LanguageEnglish: {replacer: newSymbolReplacer(englishSymbols), padded: true},
}

// symbolNormalizer speaks mathematical and typographic symbols as words and
// then deletes every character that is not a word character, whitespace or
// preserved punctuation. It runs last, so its output is always speakable.
type symbolNormalizer struct {
	logger commons.Logger
	table  symbolTable
}

func NewSymbolNormalizer(logger commons.Logger, language Language) Normalizer {
	table, ok := symbolTables[language]
	if !ok {
		table = symbolTables[LanguageChinese]
	}
	return &symbolNormalizer{logger: logger, table: table}
}

func (n *symbolNormalizer) Normalize(text string) string {
	if text == "" {
		return text
	}
	text = n.table.replacer.Replace(text)
	text = unspeakable.ReplaceAllLiteralString(text, "")
	if n.table.residue != nil {
		text = n.table.residue.ReplaceAllLiteralString(text, "")
	}
	if n.table.padded {
		text = strings.TrimSpace(horizontalRuns.ReplaceAllLiteralString(text, " "))
	}
	return text
}

// Symbols returns a copy of the replacement table for language.
func Symbols(language Language) map[string]string {
	src := chineseSymbols
	if language == LanguageEnglish {
		src = englishSymbols
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func newSymbolReplacer(table map[string]string) *strings.Replacer {
	pairs := make([]string, 0, len(table)*2)
	for symbol, word := range table {
		pairs = append(pairs, symbol, word)
	}
	return strings.NewReplacer(pairs...)
}

func classEscape(chars string) string {
	var b strings.Builder
	for _, r := range chars {
		if strings.ContainsRune(`\]^-[`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
