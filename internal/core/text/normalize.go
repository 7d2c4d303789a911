// Package text 提供匯入流程共用的文字正規化工具：空白收斂、不可見字元移除、
// Unicode 分數展開、去除變音符號以及標題大小寫處理。
package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// vulgarFractions Unicode 分數字元對應的 a/b 形式
var vulgarFractions = map[rune]string{
	'½': "1/2",
	'⅓': "1/3",
	'⅔': "2/3",
	'¼': "1/4",
	'¾': "3/4",
	'⅕': "1/5",
	'⅖': "2/5",
	'⅗': "3/5",
	'⅘': "4/5",
	'⅙': "1/6",
	'⅚': "5/6",
	'⅛': "1/8",
	'⅜': "3/8",
	'⅝': "5/8",
	'⅞': "7/8",
}

var spaceRun = regexp.MustCompile(`\s+`)

// CollapseSpace 將連續空白（含 NBSP）收斂為單一空白並去除首尾空白
func CollapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// StripInvisible 移除零寬字元、BOM 等格式字元
func StripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// ExpandFractions 將 ½ 之類的分數字元展開為 1/2，並在前方有數字時補空白
func ExpandFractions(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool {
		_, ok := vulgarFractions[r]
		return ok || r == '⁄'
	}) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	var prev rune
	for _, r := range s {
		if r == '⁄' {
			b.WriteByte('/')
			prev = '/'
			continue
		}
		if frac, ok := vulgarFractions[r]; ok {
			if unicode.IsDigit(prev) {
				b.WriteByte(' ')
			}
			b.WriteString(frac)
			prev = '0'
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// NormalizeLine 單行文字的標準處理流程
func NormalizeLine(s string) string {
	return CollapseSpace(ExpandFractions(StripInvisible(s)))
}

// Fold 轉小寫並移除變音符號，用於比對
func Fold(s string) string {
	// transform.Chain 有狀態，不可跨 goroutine 共用
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// TitleKey 去重用的標題鍵：不分大小寫、空白收斂
func TitleKey(title string) string {
	return strings.ToLower(CollapseSpace(StripInvisible(title)))
}

// SplitLines 依換行切分並移除空行
func SplitLines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = NormalizeLine(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
