package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"recipe-manager/internal/core/text"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLExtractor 以 JSON-LD 與 DOM 啟發式解析 HTML
type HTMLExtractor struct {
	Scorer TitleScorer
}

// Extract 實作 Extractor
func (e HTMLExtractor) Extract(_ context.Context, file FileInput) Result {
	var res Result
	drafts, err := ParseHTMLRecipes(file.Data, e.Scorer)
	if err != nil {
		res.Fail(file.Name, err)
		return res
	}
	if len(drafts) == 0 {
		res.Fail(file.Name, ErrNoRecipe)
		return res
	}
	for i := range drafts {
		if drafts[i].Title == "" {
			drafts[i].Title = text.TitleCase(file.Stem())
		}
	}
	res.Drafts = drafts
	return res
}

// ParseHTMLRecipes 先讀 JSON-LD Recipe，找不到時改用 DOM 啟發式
func ParseHTMLRecipes(data []byte, scorer TitleScorer) ([]Draft, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid html: %w", err)
	}
	if drafts := jsonLDRecipes(doc); len(drafts) > 0 {
		return drafts, nil
	}
	d := draftFromDOM(doc, scorer)
	if d.Empty() {
		return nil, nil
	}
	return []Draft{d}, nil
}

func jsonLDRecipes(doc *html.Node) []Draft {
	var drafts []Draft
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Script {
			return true
		}
		if !strings.Contains(strings.ToLower(attr(n, "type")), "ld+json") || n.FirstChild == nil {
			return false
		}
		found, err := ParseJSONRecipes([]byte(n.FirstChild.Data), true)
		if err != nil {
			common.LogDebug("略過無法解析的 JSON-LD", zap.Error(err))
			return false
		}
		for _, d := range found {
			d.Source = SourceHTML
			drafts = append(drafts, d)
		}
		return false
	})
	return drafts
}

func draftFromDOM(doc *html.Node, scorer TitleScorer) Draft {
	d := Draft{Source: SourceHTML}
	els := contentElements(doc)

	d.Title = documentTitle(doc)
	d.Tags = metaKeywords(doc)
	d.Ingredients, d.Instructions = microdata(els)

	if len(d.Ingredients) == 0 {
		d.Ingredients = labeledBlock(els, IsIngredientLabel, CleanIngredient)
	}
	if len(d.Instructions) == 0 {
		d.Instructions = labeledBlock(els, IsInstructionLabel, CleanStep)
	}
	if len(d.Ingredients) == 0 || len(d.Instructions) == 0 {
		ings, steps := listHeuristics(els)
		if len(d.Ingredients) == 0 {
			d.Ingredients = ings
		}
		if len(d.Instructions) == 0 {
			d.Instructions = steps
		}
	}
	if d.Empty() {
		seg := ParseSegment(blockLines(els), scorer)
		d.Ingredients, d.Instructions = seg.Ingredients, seg.Instructions
		if d.Title == "" {
			d.Title = seg.Title
		}
	}

	for _, n := range els {
		if n.DataAtom == atom.Img {
			if src := attr(n, "src"); strings.HasPrefix(src, "data:image/") {
				d.ImageDataURLs = append(d.ImageDataURLs, src)
			}
		}
	}
	return d
}

// walk 前序走訪；fn 回傳 false 時不進入子節點
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// contentElements 文件順序的元素，略過非內容區塊
func contentElements(doc *html.Node) []*html.Node {
	var out []*html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return n.Type == html.DocumentNode
		}
		switch n.DataAtom {
		case atom.Head, atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Nav, atom.Footer, atom.Aside:
			return false
		}
		out = append(out, n)
		return true
	})
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func isBlock(n *html.Node) bool {
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Ul, atom.Ol, atom.Li, atom.Table, atom.Tr, atom.Td, atom.Th,
		atom.Section, atom.Article, atom.Header, atom.Main, atom.Dl, atom.Dt, atom.Dd,
		atom.Pre, atom.Blockquote, atom.Figure, atom.Figcaption:
		return true
	}
	return isHeading(n)
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (isBlock(c) || hasBlockChild(c)) {
			return true
		}
	}
	return false
}

func isDescendant(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// nodeText 文字內容；<br> 與區塊元素換行，原始碼中的換行視為空白
func nodeText(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(strings.NewReplacer("\r", " ", "\n", " ").Replace(n.Data))
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.Br:
				b.WriteByte('\n')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
		if n.Type == html.ElementNode && isBlock(n) {
			b.WriteByte('\n')
		}
	}
	rec(n)
	return b.String()
}

func lineText(n *html.Node) string {
	return text.NormalizeLine(nodeText(n))
}

func documentTitle(doc *html.Node) string {
	var h1, og, title string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.DataAtom {
		case atom.H1:
			if h1 == "" {
				h1 = lineText(n)
			}
			return false
		case atom.Meta:
			if og == "" && attr(n, "property") == "og:title" {
				og = text.NormalizeLine(attr(n, "content"))
			}
		case atom.Title:
			if title == "" {
				title = lineText(n)
				if i := strings.Index(title, " | "); i > 0 {
					title = title[:i]
				}
			}
			return false
		case atom.Script, atom.Style:
			return false
		}
		return true
	})
	for _, t := range []string{h1, og, title} {
		if t != "" {
			return t
		}
	}
	return ""
}

func metaKeywords(doc *html.Node) []string {
	var tags []string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta && strings.EqualFold(attr(n, "name"), "keywords") {
			tags = append(tags, tagValue(attr(n, "content"))...)
		}
		return true
	})
	return tags
}

// microdata itemprop="recipeIngredient" / "recipeInstructions"
func microdata(els []*html.Node) (ingredients, instructions []string) {
	for _, n := range els {
		switch attr(n, "itemprop") {
		case "recipeIngredient", "ingredients":
			if l := CleanIngredient(lineText(n)); l != "" {
				ingredients = append(ingredients, l)
			}
		case "recipeInstructions":
			if items := listItems(n, CleanStep); len(items) > 0 {
				instructions = append(instructions, items...)
				continue
			}
			for _, l := range text.SplitLines(nodeText(n)) {
				if l = CleanStep(l); l != "" {
					instructions = append(instructions, l)
				}
			}
		}
	}
	return ingredients, instructions
}

// listItems 清單下所有 li（不含巢狀清單中的重複）
func listItems(list *html.Node, clean func(string) string) []string {
	var out []string
	walk(list, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Li {
			if l := clean(lineText(n)); l != "" {
				out = append(out, l)
			}
			return false
		}
		return true
	})
	return out
}

func labelText(n *html.Node) (string, bool) {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Strong, atom.B, atom.Dt,
		atom.P, atom.Span, atom.Div, atom.Th, atom.Caption, atom.Legend, atom.Label, atom.Em:
	default:
		return "", false
	}
	if hasBlockChild(n) {
		return "", false
	}
	return lineText(n), true
}

func isAnyLabel(s string) bool {
	return IsIngredientLabel(s) || IsInstructionLabel(s) || endLabel.MatchString(s)
}

// labeledBlock 找到標籤後取其後的清單；沒有清單時取後續段落直到下一個標題
func labeledBlock(els []*html.Node, isLabel func(string) bool, clean func(string) string) []string {
	for i, n := range els {
		label, ok := labelText(n)
		if !ok || !isLabel(label) {
			continue
		}
		var out []string
		lists := 0
		for _, next := range els[i+1:] {
			if isDescendant(next, n) {
				continue
			}
			if isDescendantOfList(next) {
				continue
			}
			if next.DataAtom == atom.Ul || next.DataAtom == atom.Ol {
				if lists == 0 && len(out) > 0 {
					return out
				}
				out = append(out, listItems(next, clean)...)
				lists++
				continue
			}
			t, ok := labelText(next)
			if !ok {
				continue
			}
			if isAnyLabel(t) || next.DataAtom == atom.H1 || next.DataAtom == atom.H2 {
				break
			}
			if lists > 0 {
				// 清單間的小標（例如 "For the sauce"）
				if len(strings.Fields(t)) <= 6 {
					continue
				}
				break
			}
			if isHeading(next) {
				break
			}
			for _, l := range text.SplitLines(nodeText(next)) {
				if l = clean(l); l != "" {
					out = append(out, l)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func isDescendantOfList(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.DataAtom == atom.Ul || p.DataAtom == atom.Ol) {
			return true
		}
	}
	return false
}

// listHeuristics 沒有標籤時：多數項目以數量開頭者為食材清單，平均 6 詞以上者為步驟清單
func listHeuristics(els []*html.Node) (ingredients, instructions []string) {
	for _, n := range els {
		if n.DataAtom != atom.Ul && n.DataAtom != atom.Ol {
			continue
		}
		items := listItems(n, text.NormalizeLine)
		if len(items) < 2 {
			continue
		}
		quantities, words := 0, 0
		for _, it := range items {
			if quantityLine.MatchString(it) {
				quantities++
			}
			words += len(strings.Fields(it))
		}
		switch {
		case ingredients == nil && quantities*2 >= len(items):
			for _, it := range items {
				ingredients = append(ingredients, CleanIngredient(it))
			}
		case instructions == nil && words >= 6*len(items):
			for _, it := range items {
				instructions = append(instructions, CleanStep(it))
			}
		}
	}
	return ingredients, instructions
}

// blockLines 依文件順序取出每個末端區塊的文字行
func blockLines(els []*html.Node) []string {
	var lines []string
	for _, n := range els {
		if !isBlock(n) || hasBlockChild(n) {
			continue
		}
		prefix := ""
		if n.DataAtom == atom.Li && n.Parent != nil && n.Parent.DataAtom == atom.Ul {
			prefix = "• "
		}
		for _, l := range text.SplitLines(nodeText(n)) {
			lines = append(lines, prefix+l)
		}
	}
	return lines
}
