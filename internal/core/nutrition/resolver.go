package nutrition

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"recipe-manager/internal/core/text"
)

const (
	exactWeight   = 2.0
	prefixWeight  = 0.6
	minMatchScore = 1.4
	minPrefixLen  = 3
	minConfidence = 0.45
	maxConfidence = 0.98
)

// Resolution 食材對應到營養鍵的結果
type Resolution struct {
	Key        string  `json:"key,omitempty"`
	Confidence float64 `json:"confidence"`
	// Normalized 未對應時的診斷值：第一個保留下來的詞
	Normalized string `json:"normalized,omitempty"`
}

// Matched 是否找到營養鍵
func (r Resolution) Matched() bool {
	return r.Key != ""
}

// resolverStopWords 比對前移除的詞
var resolverStopWords = map[string]bool{
	"fresh": true, "freshly": true, "chopped": true, "organic": true,
	"large": true, "small": true, "medium": true, "of": true, "the": true,
	"a": true, "an": true, "and": true, "or": true, "diced": true,
	"minced": true, "sliced": true, "ground": true, "to": true, "taste": true,
	"optional": true, "finely": true, "roughly": true, "coarsely": true,
	"thinly": true, "for": true, "serving": true, "garnish": true,
	"about": true, "plus": true, "more": true, "extra": true, "whole": true,
	"raw": true, "cooked": true, "uncooked": true, "boneless": true,
	"skinless": true, "unsalted": true, "salted": true, "lean": true,
	"pure": true, "divided": true, "packed": true, "heaping": true,
	"level": true, "room": true, "temperature": true, "cold": true,
	"warm": true, "hot": true, "dried": true, "frozen": true, "canned": true,
	"into": true, "pieces": true, "cut": true, "with": true, "in": true,
}

// keyTokens 營養鍵依底線切分後的詞，依鍵名排序以確保平手時結果固定
var keyTokens = func() []keyEntry {
	entries := make([]keyEntry, 0, len(profiles))
	for key := range profiles {
		entries = append(entries, keyEntry{key: key, tokens: strings.Split(key, "_")})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries
}()

type keyEntry struct {
	key    string
	tokens []string
}

// ResolveKey 將品項文字對應到營養鍵：先比對同義詞規則，再以詞彙重疊評分
func ResolveKey(item string) Resolution {
	folded := text.Fold(text.NormalizeLine(item))
	if folded == "" {
		return Resolution{}
	}

	for _, r := range synonymRules {
		if r.pattern.MatchString(folded) {
			return Resolution{Key: r.key, Confidence: 1}
		}
	}

	query := tokenize(folded)
	if len(query) == 0 {
		return Resolution{}
	}

	bestKey := ""
	bestScore := 0.0
	bestLen := 0
	for _, entry := range keyTokens {
		score := scoreTokens(query, entry.tokens)
		if score > bestScore {
			bestKey, bestScore, bestLen = entry.key, score, len(entry.tokens)
		}
	}

	if bestScore < minMatchScore {
		return Resolution{Normalized: query[0]}
	}

	denom := exactWeight * float64(max(bestLen, len(query)))
	confidence := math.Min(maxConfidence, math.Max(minConfidence, bestScore/denom))
	return Resolution{Key: bestKey, Confidence: confidence}
}

// tokenize 切詞、去除停用詞並做簡易單數化
func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || resolverStopWords[f] {
			continue
		}
		out = append(out, singular(f))
	}
	return out
}

func singular(word string) string {
	switch {
	case len(word) > 4 && strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case len(word) > 4 && strings.HasSuffix(word, "oes"):
		return word[:len(word)-2]
	case len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	}
	return word
}

// scoreTokens 每個鍵詞：完全相同 +2，前綴重疊（至少 3 字元）+0.6
func scoreTokens(query, key []string) float64 {
	score := 0.0
	for _, kt := range key {
		kt = singular(kt)
		exact := false
		prefix := false
		for _, qt := range query {
			if qt == kt {
				exact = true
				break
			}
			if prefixOverlap(qt, kt) {
				prefix = true
			}
		}
		switch {
		case exact:
			score += exactWeight
		case prefix:
			score += prefixWeight
		}
	}
	return score
}

func prefixOverlap(a, b string) bool {
	if len(a) < minPrefixLen || len(b) < minPrefixLen {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}
