package pdf

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/core/text"
)

// 分段策略
const (
	StrategyTOC      = "toc"
	StrategyForward  = "forward"
	StrategyReverse  = "reverse"
	StrategyDocument = "document"
)

const (
	// DefaultTOCMinEntries 目錄至少要有的項目數
	DefaultTOCMinEntries = 20
	tocScanPages         = 15
	tocMinPerPage        = 5
	maxSegmentPages      = 6
	minDocIngredients    = 2
	minDocInstructions   = 1
)

var tocEntry = regexp.MustCompile(`^(\S.{1,78}?)\s*(?:\.{2,}|…+|·{2,}| {2,}|\t)\s*(\d{1,4})$`)

// TOCEntry 目錄項目，Page 為印刷頁碼
type TOCEntry struct {
	Title string
	Page  int
}

// Span 一份食譜在文件中的頁面範圍 [Start, End)，從 0 起算
type Span struct {
	Start, End int
	Title      string
	Strategy   string
}

// IsCandidatePage 頁面含 "ingredients" 或至少 3 行看起來像食材
func IsCandidatePage(lines []string) bool {
	qty := 0
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), "ingredient") {
			return true
		}
		if ingest.LooksLikeIngredient(l) {
			qty++
			if qty >= 3 {
				return true
			}
		}
	}
	return false
}

// ParseTOCLine 解析 "Title ..... 123" 形式的目錄行
func ParseTOCLine(line string) (TOCEntry, bool) {
	m := tocEntry.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return TOCEntry{}, false
	}
	title := strings.TrimRight(text.NormalizeLine(m[1]), " .·…")
	if strings.IndexFunc(title, unicode.IsLetter) < 0 || ingest.LooksLikeIngredient(title) {
		return TOCEntry{}, false
	}
	page, err := strconv.Atoi(m[2])
	if err != nil || page <= 0 {
		return TOCEntry{}, false
	}
	return TOCEntry{Title: title, Page: page}, true
}

// DetectTOC 在文件前段尋找連續的目錄頁，回傳項目與最後一個目錄頁索引
func DetectTOC(pages [][]string, minEntries int) ([]TOCEntry, int) {
	if minEntries <= 0 {
		minEntries = DefaultTOCMinEntries
	}
	var entries []TOCEntry
	last := -1
	for i := 0; i < len(pages) && i < tocScanPages; i++ {
		var found []TOCEntry
		for _, l := range pages[i] {
			if e, ok := ParseTOCLine(l); ok {
				found = append(found, e)
			}
		}
		if len(found) < tocMinPerPage {
			if last >= 0 {
				break
			}
			continue
		}
		entries = append(entries, found...)
		last = i
	}
	if len(entries) < minEntries {
		return nil, -1
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Page < entries[j].Page })
	return entries, last
}

// pageOffset 在目錄後的內文中找到前幾個目錄標題，推算印刷頁碼與實際頁索引的差
func pageOffset(pages [][]string, entries []TOCEntry, tocEnd int) int {
	for k := 0; k < len(entries) && k < 5; k++ {
		key := text.TitleKey(entries[k].Title)
		for i := tocEnd + 1; i < len(pages); i++ {
			if findTitle(pages[i], key) >= 0 {
				return i - (entries[k].Page - 1)
			}
		}
	}
	return 0
}

func findTitle(lines []string, key string) int {
	for i, l := range lines {
		lk := text.TitleKey(l)
		if lk == key || (len(key) >= 6 && strings.HasPrefix(lk, key)) {
			return i
		}
	}
	return -1
}

// TOCSpans 依目錄頁碼切分
func TOCSpans(pages [][]string, entries []TOCEntry, tocEnd int) []Span {
	offset := pageOffset(pages, entries, tocEnd)
	var spans []Span
	for k, e := range entries {
		start := e.Page - 1 + offset
		if start <= tocEnd || start >= len(pages) {
			continue
		}
		end := start + 1
		for _, next := range entries[k+1:] {
			if next.Page > e.Page {
				end = next.Page - 1 + offset
				break
			}
		}
		if k == len(entries)-1 || end <= start {
			end = start + 1
		}
		if end > start+maxSegmentPages {
			end = start + maxSegmentPages
		}
		if end > len(pages) {
			end = len(pages)
		}
		spans = append(spans, Span{Start: start, End: end, Title: e.Title, Strategy: StrategyTOC})
	}
	// 最後一項延伸到下一個非候選頁之前
	if n := len(spans); n > 0 {
		last := &spans[n-1]
		for last.End < len(pages) && last.End-last.Start < maxSegmentPages && !IsCandidatePage(pages[last.End]) {
			last.End++
		}
	}
	return spans
}

// ForwardSpans 連續候選頁的第一頁為起點；同一頁有自己的食材標籤時也另起一段
func ForwardSpans(pages [][]string) []Span {
	var starts []int
	for i := range pages {
		if !IsCandidatePage(pages[i]) {
			continue
		}
		if i == 0 || !IsCandidatePage(pages[i-1]) || hasIngredientLabel(pages[i]) {
			starts = append(starts, i)
		}
	}
	return spansFromStarts(starts, len(pages), StrategyForward)
}

// ReverseSpans 由文件末端往前，每個候選頁都是起點，之後的非候選頁歸入前一段
func ReverseSpans(pages [][]string) []Span {
	var starts []int
	for i := len(pages) - 1; i >= 0; i-- {
		if IsCandidatePage(pages[i]) {
			starts = append(starts, i)
		}
	}
	sort.Ints(starts)
	return spansFromStarts(starts, len(pages), StrategyReverse)
}

func spansFromStarts(starts []int, n int, strategy string) []Span {
	spans := make([]Span, 0, len(starts))
	for k, s := range starts {
		end := n
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		if end > s+maxSegmentPages {
			end = s + maxSegmentPages
		}
		spans = append(spans, Span{Start: s, End: end, Strategy: strategy})
	}
	return spans
}

func hasIngredientLabel(lines []string) bool {
	for _, l := range lines {
		if ingest.IsIngredientLabel(l) {
			return true
		}
	}
	return false
}

// spanLines 合併頁面行；有標題時裁到標題行，並在下一個目錄標題處截斷
func spanLines(pages [][]string, span Span, nextTitle string) []string {
	var lines []string
	for _, p := range pages[span.Start:span.End] {
		lines = append(lines, p...)
	}
	if span.Title == "" {
		return lines
	}
	if i := findTitle(lines, text.TitleKey(span.Title)); i > 0 {
		lines = lines[i:]
	}
	if nextTitle != "" && len(lines) > 1 {
		if i := findTitle(lines[1:], text.TitleKey(nextTitle)); i >= 0 {
			lines = lines[:i+1]
		}
	}
	return lines
}
