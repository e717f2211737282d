// Package resolve turns unresolved slots into target text: the core-word
// resolver consults glossary cache, lexicon and the difficult-case fallback;
// the particle resolver maps function words through fixed tables.
package resolve

import "strings"

// translitTable is a DIN-31635-style character substitution from the Arabic
// script into the target Latin script.
var translitTable = map[rune]string{
	'ء': "ʾ", 'ا': "ā", 'ب': "b", 'ت': "t", 'ث': "ṯ", 'ج': "ǧ", 'ح': "ḥ", 'خ': "ḫ",
	'د': "d", 'ذ': "ḏ", 'ر': "r", 'ز': "z", 'س': "s", 'ش': "š", 'ص': "ṣ", 'ض': "ḍ",
	'ط': "ṭ", 'ظ': "ẓ", 'ع': "ʿ", 'غ': "ġ", 'ف': "f", 'ق': "q", 'ك': "k", 'ل': "l",
	'م': "m", 'ن': "n", 'ه': "h", 'و': "w", 'ي': "y", 'ة': "a", 'ى': "ā",
}

// Transliterate substitutes characters via the fixed table; characters
// without a mapping pass through unchanged.
func Transliterate(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if sub, ok := translitTable[r]; ok {
			sb.WriteString(sub)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
