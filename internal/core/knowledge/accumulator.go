// Package knowledge 累積匯入文件中的詞彙與雙詞頻率，用於之後的標題判斷。
package knowledge

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"recipe-manager/internal/core/text"
	"recipe-manager/internal/infrastructure/storage"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultTopN 預設保留的詞數
const DefaultTopN = 500

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "you": true,
	"your": true, "are": true, "this": true, "that": true, "from": true,
	"into": true, "until": true, "then": true, "when": true, "will": true,
	"can": true, "but": true, "not": true, "all": true, "each": true,
	"about": true, "over": true, "well": true, "some": true, "more": true,
	"cup": true, "cups": true, "tbsp": true, "tsp": true, "minutes": true,
	"page": true, "was": true, "has": true, "have": true, "its": true,
	"our": true, "out": true, "use": true, "they": true, "them": true,
}

// TermCount 詞與次數
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// snapshot 持久化格式
type snapshot struct {
	Terms      map[string]int `json:"terms"`
	Bigrams    map[string]int `json:"bigrams"`
	TitleTerms map[string]int `json:"titleTerms"`
	Pages      int            `json:"pages"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Accumulator 詞頻累積器，可安全並發使用
type Accumulator struct {
	mu         sync.RWMutex
	topN       int
	terms      map[string]int
	bigrams    map[string]int
	titleTerms map[string]int
	pages      int
}

// NewAccumulator 創建累積器；topN <= 0 時使用 DefaultTopN
func NewAccumulator(topN int) *Accumulator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Accumulator{
		topN:       topN,
		terms:      make(map[string]int),
		bigrams:    make(map[string]int),
		titleTerms: make(map[string]int),
	}
}

// Tokens 切詞：小寫、去變音、僅保留 3 個字母以上且非停用詞
func Tokens(s string) []string {
	fields := strings.FieldsFunc(text.Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len([]rune(f)) < 3 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// AddPage 累積一頁文字的詞與相鄰雙詞
func (a *Accumulator) AddPage(page string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, line := range text.SplitLines(page) {
		tokens := Tokens(line)
		for i, tok := range tokens {
			a.terms[tok]++
			if i > 0 {
				a.bigrams[tokens[i-1]+" "+tok]++
			}
		}
	}
	a.pages++
}

// AddTitle 累積已確認標題中的詞
func (a *Accumulator) AddTitle(title string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, tok := range Tokens(title) {
		a.titleTerms[tok]++
	}
}

// Prune 各表只保留前 topN；一份文件處理完後呼叫，讓新詞能在文件內累積次數
func (a *Accumulator) Prune() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked()
}

// TitleScore 行中出現已知標題詞的比例，0..1
func (a *Accumulator) TitleScore(line string) float64 {
	tokens := Tokens(line)
	if len(tokens) == 0 {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	hits := 0
	for _, tok := range tokens {
		if a.titleTerms[tok] > 0 {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

// Top 依次數排序回傳前 n 個詞（同數依字母），最多 topN 個
func (a *Accumulator) Top(n int) []TermCount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return topOf(a.terms, a.limit(n))
}

// TopBigrams 依次數排序回傳前 n 個雙詞，最多 topN 個
func (a *Accumulator) TopBigrams(n int) []TermCount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return topOf(a.bigrams, a.limit(n))
}

func (a *Accumulator) limit(n int) int {
	if n <= 0 || n > a.topN {
		return a.topN
	}
	return n
}

// Pages 已累積的頁數
func (a *Accumulator) Pages() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pages
}

// Merge 合併另一個累積器
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil || other == a {
		return
	}
	other.mu.RLock()
	terms := copyCounts(other.terms)
	bigrams := copyCounts(other.bigrams)
	titles := copyCounts(other.titleTerms)
	pages := other.pages
	other.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	addCounts(a.terms, terms)
	addCounts(a.bigrams, bigrams)
	addCounts(a.titleTerms, titles)
	a.pages += pages
	a.pruneLocked()
}

// Load 從 kv 讀取並合併既有詞頻
func (a *Accumulator) Load(ctx context.Context, kv storage.KV) error {
	var snap snapshot
	found, err := storage.LoadJSON(ctx, kv, storage.KeyKnowledge, &snap)
	if err != nil || !found {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	addCounts(a.terms, snap.Terms)
	addCounts(a.bigrams, snap.Bigrams)
	addCounts(a.titleTerms, snap.TitleTerms)
	a.pages += snap.Pages
	a.pruneLocked()
	return nil
}

// Save 修剪後寫入 kv
func (a *Accumulator) Save(ctx context.Context, kv storage.KV) error {
	a.mu.Lock()
	a.pruneLocked()
	snap := snapshot{
		Terms:      copyCounts(a.terms),
		Bigrams:    copyCounts(a.bigrams),
		TitleTerms: copyCounts(a.titleTerms),
		Pages:      a.pages,
		UpdatedAt:  time.Now().UTC(),
	}
	a.mu.Unlock()

	if err := storage.SaveJSON(ctx, kv, storage.KeyKnowledge, snap); err != nil {
		return err
	}
	common.LogDebug("知識庫已儲存",
		zap.Int("terms", len(snap.Terms)),
		zap.Int("bigrams", len(snap.Bigrams)),
		zap.Int("pages", snap.Pages),
	)
	return nil
}

// pruneLocked 各表只保留前 topN
func (a *Accumulator) pruneLocked() {
	a.terms = capCounts(a.terms, a.topN)
	a.bigrams = capCounts(a.bigrams, a.topN)
	a.titleTerms = capCounts(a.titleTerms, a.topN)
}

func capCounts(m map[string]int, n int) map[string]int {
	if len(m) <= n {
		return m
	}
	kept := make(map[string]int, n)
	for _, tc := range topOf(m, n) {
		kept[tc.Term] = tc.Count
	}
	return kept
}

func topOf(m map[string]int, n int) []TermCount {
	out := make([]TermCount, 0, len(m))
	for term, count := range m {
		out = append(out, TermCount{Term: term, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func addCounts(dst, src map[string]int) {
	for k, v := range src {
		if v > 0 {
			dst[k] += v
		}
	}
}
