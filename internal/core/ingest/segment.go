package ingest

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"recipe-manager/internal/core/text"
)

var (
	quantityLine     = regexp.MustCompile(`^(?:[-*•·▪◦]\s*)?(?:\d+\s+\d+/\d+|\d+/\d+|\d+(?:[.,]\d+)?|\.\d+|[½⅓⅔¼¾⅛⅜⅝⅞])(?:\s*-\s*\d+)?\s*[a-zA-Z(]`)
	bulletLine       = regexp.MustCompile(`^[-*•·▪◦]\s+\S`)
	numberedStep     = regexp.MustCompile(`^(?i:step\s*)?\d{1,2}\s*[.):]\s+\S`)
	stepPrefix       = regexp.MustCompile(`^(?i:step\s*)?\d{1,2}\s*[.):]\s*`)
	bulletPrefix     = regexp.MustCompile(`^[-*•·▪◦]+\s*`)
	ingredientLabel  = regexp.MustCompile(`(?i)^(?:ingredients?|ingr[eé]dients?|what you(?:'ll| will)? need|you will need|shopping list)\b\s*(?:\(.*\))?\s*:?\s*(.*)$`)
	instructionLabel = regexp.MustCompile(`(?i)^(?:instructions?|directions?|method|preparation|steps|procedure|how to make(?: it)?)\b\s*:?\s*(.*)$`)
	endLabel         = regexp.MustCompile(`(?i)^(?:notes?|tips?|nutrition(?: facts| information)?|variations?|storage|serving suggestions?)\s*:?$`)
	servesLine       = regexp.MustCompile(`(?i)^(?:serves|servings|yield|yields|makes|prep time|cook time|total time)\b`)
	pageNumberLine   = regexp.MustCompile(`^(?:page\s*)?\d{1,4}$`)
)

// TitleScorer 依累積詞彙為標題候選加權
type TitleScorer interface {
	TitleScore(line string) float64
}

// Segment 一段文字解析出的食譜內容
type Segment struct {
	Title        string
	Ingredients  []string
	Instructions []string
}

// LooksLikeIngredient 行首為數量或項目符號
func LooksLikeIngredient(line string) bool {
	line = strings.TrimSpace(line)
	if numberedStep.MatchString(line) {
		return false
	}
	return quantityLine.MatchString(line) || bulletLine.MatchString(line)
}

// IsIngredientLabel 行是否為「食材」標籤
func IsIngredientLabel(line string) bool {
	m := ingredientLabel.FindStringSubmatch(strings.TrimSpace(line))
	return m != nil && utf8.RuneCountInString(line) <= 40
}

// IsInstructionLabel 行是否為「步驟」標籤
func IsInstructionLabel(line string) bool {
	m := instructionLabel.FindStringSubmatch(strings.TrimSpace(line))
	return m != nil && utf8.RuneCountInString(line) <= 40
}

// LooksLikeHeading 判斷是否像標題：2 到 80 字、最多 12 個詞、不以句號結尾、非數量行或標籤
func LooksLikeHeading(line string) bool {
	line = strings.TrimSpace(line)
	n := utf8.RuneCountInString(line)
	if n < 2 || n > 80 {
		return false
	}
	if len(strings.Fields(line)) > 12 || strings.HasSuffix(line, ".") || strings.HasSuffix(line, ",") {
		return false
	}
	if LooksLikeIngredient(line) || numberedStep.MatchString(line) || pageNumberLine.MatchString(strings.ToLower(line)) {
		return false
	}
	if IsIngredientLabel(line) || IsInstructionLabel(line) || endLabel.MatchString(line) || servesLine.MatchString(line) {
		return false
	}
	return strings.IndexFunc(line, unicode.IsLetter) >= 0
}

// looksLikeSentence 較長、像步驟敘述的句子
func looksLikeSentence(line string) bool {
	words := len(strings.Fields(line))
	return numberedStep.MatchString(line) ||
		(words >= 6 && (strings.HasSuffix(line, ".") || strings.HasSuffix(line, "!"))) ||
		words >= 14
}

// CleanIngredient 去除項目符號並正規化
func CleanIngredient(line string) string {
	return text.NormalizeLine(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
}

// CleanStep 去除步驟編號並正規化
func CleanStep(line string) string {
	line = bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")
	return text.NormalizeLine(stepPrefix.ReplaceAllString(line, ""))
}

// ParseSegment 從一段行文字中找出標題、食材與步驟。
// 先找標籤，找不到時以數量行與長句判斷；標題為食材區塊前第一個像標題的行。
func ParseSegment(lines []string, scorer TitleScorer) Segment {
	clean := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = text.NormalizeLine(l); l != "" {
			clean = append(clean, l)
		}
	}
	if len(clean) == 0 {
		return Segment{}
	}

	ingIdx, insIdx := -1, -1
	for i, l := range clean {
		if IsIngredientLabel(l) {
			ingIdx = i
			break
		}
	}
	for i := ingIdx + 1; i < len(clean); i++ {
		if IsInstructionLabel(clean[i]) {
			insIdx = i
			break
		}
	}

	var seg Segment
	blockStart := -1

	switch {
	case ingIdx >= 0:
		blockStart = ingIdx
		end := len(clean)
		if insIdx > ingIdx {
			end = insIdx
		}
		// 標籤同一行後面的內容
		if rest := labelRemainder(ingredientLabel, clean[ingIdx]); LooksLikeIngredient(rest) {
			seg.Ingredients = append(seg.Ingredients, CleanIngredient(rest))
		}
		body := clean[ingIdx+1 : end]
		if insIdx < 0 {
			// 沒有步驟標籤：食材一直到第一個像步驟的句子
			split := len(body)
			for j, l := range body {
				if !LooksLikeIngredient(l) && looksLikeSentence(l) {
					split = j
					break
				}
			}
			seg.Instructions = collectSteps(body[split:])
			body = body[:split]
		}
		for _, l := range body {
			if endLabel.MatchString(l) {
				break
			}
			seg.Ingredients = append(seg.Ingredients, CleanIngredient(l))
		}
		if insIdx > ingIdx {
			if rest := labelRemainder(instructionLabel, clean[insIdx]); len(strings.Fields(rest)) >= 3 {
				seg.Instructions = append(seg.Instructions, CleanStep(rest))
			}
			seg.Instructions = append(seg.Instructions, collectSteps(clean[insIdx+1:])...)
		}

	default:
		for i, l := range clean {
			switch {
			case LooksLikeIngredient(l):
				if blockStart < 0 {
					blockStart = i
				}
				seg.Ingredients = append(seg.Ingredients, CleanIngredient(l))
			case looksLikeSentence(l):
				seg.Instructions = append(seg.Instructions, CleanStep(l))
			}
		}
		if insIdx >= 0 {
			seg.Instructions = collectSteps(clean[insIdx+1:])
		}
	}

	limit := blockStart
	if limit < 0 {
		limit = len(clean)
	}
	seg.Title = pickTitle(clean[:limit], scorer)
	seg.Ingredients = dropEmpty(seg.Ingredients)
	seg.Instructions = dropEmpty(seg.Instructions)
	return seg
}

func labelRemainder(label *regexp.Regexp, line string) string {
	m := label.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// collectSteps 收集步驟直到結尾標籤；未編號的短行接到上一步
func collectSteps(lines []string) []string {
	var steps []string
	for _, l := range lines {
		if endLabel.MatchString(l) {
			break
		}
		if servesLine.MatchString(l) || pageNumberLine.MatchString(strings.ToLower(l)) {
			continue
		}
		startsNew := numberedStep.MatchString(l) || bulletLine.MatchString(l) ||
			len(steps) == 0 || endsSentence(steps[len(steps)-1])
		step := CleanStep(l)
		if startsNew {
			steps = append(steps, step)
			continue
		}
		steps[len(steps)-1] += " " + step
	}
	return steps
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, ":")
}

// pickTitle 在候選行中挑選標題：第一個像標題的行，依知識詞彙加權
func pickTitle(candidates []string, scorer TitleScorer) string {
	best := ""
	bestScore := -1.0
	for i, l := range candidates {
		if !LooksLikeHeading(l) {
			continue
		}
		// 較前面的行優先
		score := 1.0 / float64(1+i)
		if scorer != nil {
			score += scorer.TitleScore(l)
		}
		if score > bestScore {
			best, bestScore = l, score
		}
	}
	return best
}

func dropEmpty(lines []string) []string {
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
