package nutrition

import (
	"regexp"
	"strconv"
	"strings"

	"recipe-manager/internal/core/text"
)

// IngredientLine 解析後的食材行
type IngredientLine struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Item     string  `json:"item"`
	Prep     string  `json:"prep"`
}

var (
	leadingQuantity = regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?|\.\d+)\s*([a-zA-Z]+\.?)?\s*(.*)$`)
	leadingBullet   = regexp.MustCompile(`^[-*•·▪◦]+\s*`)
	prepWords       = []string{
		"chopped", "diced", "minced", "sliced", "grated", "shredded", "crushed",
		"melted", "softened", "beaten", "peeled", "cubed", "halved",
	}
)

// ParseIngredientLine 將一行食材文字拆成數量、單位、品項與處理方式；不會失敗
func ParseIngredientLine(line string) IngredientLine {
	line = text.NormalizeLine(line)
	line = leadingBullet.ReplaceAllString(line, "")

	match := leadingQuantity.FindStringSubmatch(line)
	if match == nil {
		item, prep := splitPrep(line)
		return IngredientLine{Quantity: 1, Unit: "each", Item: item, Prep: prep}
	}

	qty := parseQuantity(match[1])
	unit := match[2]
	rest := foldFluidOunce(&unit, match[3])
	if unit != "" && CanonicalUnit(unit) == "" {
		// 不是單位，放回品項
		rest = strings.TrimSpace(unit + " " + rest)
		unit = ""
	}
	if unit == "" {
		unit = "each"
	}

	item, prep := splitPrep(rest)
	return IngredientLine{Quantity: qty, Unit: unit, Item: item, Prep: prep}
}

// foldFluidOunce 將 "fl oz" 兩段式單位合併
func foldFluidOunce(unit *string, rest string) string {
	u := strings.ToLower(strings.TrimSuffix(*unit, "."))
	if u != "fl" && u != "fluid" {
		return rest
	}
	lower := strings.ToLower(rest)
	for _, next := range []string{"oz.", "oz", "ounces", "ounce"} {
		if strings.HasPrefix(lower, next) {
			*unit = *unit + " " + rest[:len(next)]
			return strings.TrimSpace(rest[len(next):])
		}
	}
	return rest
}

// splitPrep 以第一個逗號分割品項與處理方式；沒有逗號時剝離開頭的處理動詞
func splitPrep(s string) (string, string) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, ","); idx >= 0 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:])
	}
	var peeled []string
	for {
		word, rest, _ := strings.Cut(s, " ")
		if rest == "" || !isPrepWord(word) {
			break
		}
		peeled = append(peeled, word)
		s = strings.TrimSpace(rest)
	}
	return s, strings.Join(peeled, " ")
}

func isPrepWord(word string) bool {
	word = strings.ToLower(word)
	for _, p := range prepWords {
		if word == p {
			return true
		}
	}
	return false
}

// parseQuantity 支援整數、小數、a/b 與 "n a/b"
func parseQuantity(s string) float64 {
	s = strings.TrimSpace(s)
	if whole, frac, ok := strings.Cut(s, " "); ok {
		return parseQuantity(whole) + parseQuantity(strings.TrimSpace(frac))
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
