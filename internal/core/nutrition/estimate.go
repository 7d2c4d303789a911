package nutrition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"recipe-manager/internal/core/text"
)

const defaultYield = 0.92

// cookingYields 依烹調方式判斷失重係數，依序比對
var cookingYields = []struct {
	pattern *regexp.Regexp
	factor  float64
}{
	{regexp.MustCompile(`fr(y|ied|ies)|deep.?fr|grill|roast|bak(e|ed|ing)|sear|broil|saut|char|smok`), 0.88},
	{regexp.MustCompile(`poach|boil|steam|simmer|blanch|braise|stew`), 0.95},
}

// Request 營養估算輸入
type Request struct {
	Lines []string `json:"ingr"`
	// Yields 逐行覆寫的失重係數，大於 1 視為百分比
	Yields     []float64 `json:"yields,omitempty"`
	Servings   int       `json:"servings,omitempty"`
	PrepMethod string    `json:"prepMethod,omitempty"`
	// YieldQty 與 YieldUnit 為食譜標示的產量，單位是份數時作為 Servings 的替代
	YieldQty  YieldQuantity `json:"yieldQty,omitempty"`
	YieldUnit string        `json:"yieldUnit,omitempty"`
}

// YieldQuantity 產量數值，JSON 可為數字或 "4"、"4-6 servings" 之類字串
type YieldQuantity float64

// UnmarshalJSON 實作 json.Unmarshaler；無法解析的字串視為 0
func (q *YieldQuantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}
	if data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("yieldQty: %w", err)
		}
		*q = YieldQuantity(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("yieldQty: %w", err)
	}
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*q = YieldQuantity(f)
		return nil
	}
	*q = YieldQuantity(ParseServings(s))
	return nil
}

// BreakdownEntry 單行估算明細
type BreakdownEntry struct {
	Line        string  `json:"line"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Item        string  `json:"item"`
	Key         string  `json:"key,omitempty"`
	Confidence  float64 `json:"confidence"`
	Grams       float64 `json:"grams"`
	YieldFactor float64 `json:"yieldFactor"`
}

// UnknownEntry 無法對應的食材行
type UnknownEntry struct {
	Line       string `json:"line"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result 營養估算結果
type Result struct {
	Totals        Macros           `json:"totals"`
	PerServing    Macros           `json:"perServing"`
	Per100g       Macros           `json:"per100g"`
	Breakdown     []BreakdownEntry `json:"breakdown"`
	Unknown       []UnknownEntry   `json:"unknown"`
	TotalWeight   float64          `json:"totalWeight"`
	MatchedWeight float64          `json:"matchedWeight"`
	CookedWeight  float64          `json:"cookedWeight"`
	Coverage      float64          `json:"coverage"`
	Servings      int              `json:"servings"`
}

// Estimate 彙總所有食材行的營養素。未對應的行不貢獻營養素，但計入總重量
func Estimate(req Request) Result {
	res := Result{
		Breakdown: make([]BreakdownEntry, 0, len(req.Lines)),
		Unknown:   []UnknownEntry{},
		Servings:  req.Servings,
	}
	if res.Servings <= 0 {
		res.Servings = servingsFromYield(req.YieldQty, req.YieldUnit)
	}
	methodYield := yieldForMethod(req.PrepMethod)

	for i, raw := range req.Lines {
		line := text.NormalizeLine(raw)
		if line == "" {
			continue
		}
		parsed := ParseIngredientLine(line)
		resolved := ResolveKey(parsed.Item)
		grams := EstimateGrams(resolved.Key, parsed.Unit, parsed.Quantity)
		res.TotalWeight += grams

		if !resolved.Matched() {
			res.Unknown = append(res.Unknown, UnknownEntry{Line: line, Suggestion: resolved.Normalized})
			res.Breakdown = append(res.Breakdown, BreakdownEntry{
				Line:        line,
				Quantity:    parsed.Quantity,
				Unit:        parsed.Unit,
				Item:        parsed.Item,
				Grams:       grams,
				YieldFactor: 1,
			})
			continue
		}

		factor := lineYield(resolved.Key, req.Yields, i, methodYield)
		cooked := grams * factor
		res.MatchedWeight += grams
		res.CookedWeight += cooked
		res.Totals = res.Totals.Add(profiles[resolved.Key].Scale(cooked / 100))
		res.Breakdown = append(res.Breakdown, BreakdownEntry{
			Line:        line,
			Quantity:    parsed.Quantity,
			Unit:        parsed.Unit,
			Item:        parsed.Item,
			Key:         resolved.Key,
			Confidence:  resolved.Confidence,
			Grams:       grams,
			YieldFactor: factor,
		})
	}

	if res.TotalWeight > 0 {
		res.Coverage = math.Min(1, res.MatchedWeight/res.TotalWeight)
	}
	if res.Servings > 0 {
		res.PerServing = res.Totals.Div(float64(res.Servings))
	}
	res.Per100g = res.Totals.Div(res.CookedWeight / 100)
	return res
}

// lineYield 優先使用呼叫端覆寫值；其次香料類固定 1.0，最後退回烹調方式係數
func lineYield(key string, overrides []float64, i int, methodYield float64) float64 {
	if i < len(overrides) {
		if v := overrides[i]; v > 0 && !math.IsNaN(v) {
			if v > 1 {
				v /= 100
			}
			return math.Min(1, v)
		}
	}
	if isSpiceLike(key) {
		return 1
	}
	return methodYield
}

func isSpiceLike(key string) bool {
	return spiceKeys[key] || strings.Contains(key, "powder")
}

func yieldForMethod(method string) float64 {
	method = strings.ToLower(method)
	if method == "" {
		return defaultYield
	}
	for _, y := range cookingYields {
		if y.pattern.MatchString(method) {
			return y.factor
		}
	}
	return defaultYield
}

// servingUnits 視為份數的產量單位
var servingUnits = map[string]bool{
	"": true, "serving": true, "servings": true, "serves": true, "portion": true,
	"portions": true, "people": true, "persons": true, "person": true,
}

func servingsFromYield(q YieldQuantity, unit string) int {
	qty := float64(q)
	if qty <= 0 || math.IsNaN(qty) || !servingUnits[strings.ToLower(strings.TrimSpace(unit))] {
		return 0
	}
	return int(math.Round(qty))
}

// ParseServings 解析 "4"、"4-6"、"serves 4" 等份數字串，取第一個數字；無法解析回傳 0
func ParseServings(s string) int {
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}
