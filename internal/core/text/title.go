package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleStopWords 標題中除首字外保持小寫的字
var titleStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "from": true, "in": true, "of": true, "on": true,
	"or": true, "the": true, "to": true, "with": true, "en": true, "la": true,
	"le": true, "de": true, "du": true, "y": true,
}

// isAcronym 2 到 5 個字母且全為大寫（可含數字與 &，如 BBQ、XO、B12、PB&J）
func isAcronym(word string) bool {
	letters := 0
	for _, r := range word {
		switch {
		case unicode.IsLetter(r):
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		case unicode.IsDigit(r), r == '&':
		default:
			return false
		}
	}
	return letters >= 2 && letters <= 5
}

// TitleCase 將標題轉為首字大寫形式；全大寫標題不保留縮寫
func TitleCase(title string) string {
	title = CollapseSpace(title)
	if title == "" {
		return ""
	}
	words := strings.Split(title, " ")
	shouting := isShouting(words)
	caser := cases.Title(language.English)

	for i, word := range words {
		lower := strings.ToLower(word)
		switch {
		case !shouting && isAcronym(word):
			// 保留縮寫
		case i > 0 && titleStopWords[lower]:
			words[i] = lower
		default:
			words[i] = caser.String(lower)
		}
	}
	return strings.Join(words, " ")
}

// isShouting 至少兩個含字母的字且全部大寫；純數字的字不計
func isShouting(words []string) bool {
	n := 0
	for _, w := range words {
		if strings.IndexFunc(w, unicode.IsLetter) < 0 {
			continue
		}
		if strings.ToUpper(w) != w {
			return false
		}
		n++
	}
	return n > 1
}

// Slug 轉成小寫連字號形式，用於比對檔名與標題
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range Fold(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
