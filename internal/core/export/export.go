// Package export 將食譜輸出為 Markdown 或 HTML 文件。
package export

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"

	"recipe-manager/internal/core/recipe"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// 支援的輸出格式
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

var converter = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// Markdown 單一食譜
func Markdown(r recipe.Recipe) string {
	var b strings.Builder
	writeRecipe(&b, r, "#")
	return b.String()
}

// Book 多份食譜合成一份文件，前面附目錄
func Book(title string, recipes []recipe.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", mdEscaper.Replace(title))
	for i, r := range recipes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, mdEscaper.Replace(r.Title))
	}
	for _, r := range recipes {
		b.WriteString("\n---\n\n")
		writeRecipe(&b, r, "##")
	}
	return b.String()
}

// HTML 以 goldmark 將 Markdown 轉為完整的 HTML 文件；原始 HTML 不會輸出
func HTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := converter.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// Render 依格式輸出，回傳內容與 Content-Type
func Render(r recipe.Recipe, format string) (string, string, error) {
	md := Markdown(r)
	switch format {
	case "", FormatMarkdown:
		return md, "text/markdown; charset=utf-8", nil
	case FormatHTML:
		doc, err := HTML(r.Title, md)
		return doc, "text/html; charset=utf-8", err
	default:
		return "", "", fmt.Errorf("unsupported export format %q", format)
	}
}

func writeRecipe(b *strings.Builder, r recipe.Recipe, heading string) {
	sub := heading + "#"
	fmt.Fprintf(b, "%s %s\n\n", heading, mdEscaper.Replace(r.Title))

	if len(r.Tags) > 0 {
		fmt.Fprintf(b, "Tags: %s\n\n", mdEscaper.Replace(strings.Join(r.Tags, ", ")))
	}
	if r.Rating > 0 {
		fmt.Fprintf(b, "Rating: %s%s\n\n", strings.Repeat("★", r.Rating), strings.Repeat("☆", recipe.MaxRating-r.Rating))
	}

	if len(r.Ingredients) > 0 {
		fmt.Fprintf(b, "%s Ingredients\n\n", sub)
		for _, l := range r.Ingredients {
			fmt.Fprintf(b, "- %s\n", mdEscaper.Replace(l))
		}
		b.WriteString("\n")
	}
	if len(r.Instructions) > 0 {
		fmt.Fprintf(b, "%s Instructions\n\n", sub)
		for i, l := range r.Instructions {
			fmt.Fprintf(b, "%d. %s\n", i+1, mdEscaper.Replace(l))
		}
		b.WriteString("\n")
	}

	if len(r.Extra) > 0 {
		keys := make([]string, 0, len(r.Extra))
		for k := range r.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(b, "%s Notes\n\n| Field | Value |\n| --- | --- |\n", sub)
		for _, k := range keys {
			v := strings.ReplaceAll(fmt.Sprint(r.Extra[k]), "|", `\|`)
			v = strings.ReplaceAll(v, "\n", " ")
			fmt.Fprintf(b, "| %s | %s |\n", mdEscaper.Replace(k), mdEscaper.Replace(v))
		}
		b.WriteString("\n")
	}
}
