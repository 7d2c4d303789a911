package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"recipe-manager/internal/core/text"
	"recipe-manager/internal/pkg/common"
)

// 擷取錯誤
var (
	ErrNoRecipe    = errors.New("no recipe found")
	ErrUnsupported = errors.New("unsupported file type")
)

// 欄位別名，依優先順序
var (
	titleKeys       = []string{"title", "name", "label", "slug"}
	ingredientKeys  = []string{"ingredients", "ingredientLines", "ingredientsText", "ings", "recipeIngredient"}
	instructionKeys = []string{"instructions", "directions", "steps", "method", "instructionsText", "recipeInstructions"}
	tagKeys         = []string{"tags", "keywords", "recipeCategory", "recipeCuisine"}
	imageKeys       = []string{"images", "image", "imageNames", "imageDataUrls"}
	ignoredKeys     = []string{"@context", "@type", "@id", "id", "createdAt", "deletedAt", "favorite", "rating", "source"}
)

// JSONExtractor 解析 JSON 食譜檔
type JSONExtractor struct{}

// Extract 實作 Extractor
func (JSONExtractor) Extract(_ context.Context, file FileInput) Result {
	var res Result
	drafts, err := ParseJSONRecipes(file.Data, false)
	if err != nil {
		res.Fail(file.Name, err)
		return res
	}
	if len(drafts) == 0 {
		res.Fail(file.Name, ErrNoRecipe)
		return res
	}
	for i := range drafts {
		drafts[i].Source = SourceJSON
		if drafts[i].Title == "" {
			drafts[i].Title = text.TitleCase(file.Stem())
		}
	}
	res.Drafts = drafts
	return res
}

// ParseJSONRecipes 解析單一物件、陣列、{recipes: [...]} 或 JSON-LD（@graph）。
// typedOnly 為 true 時只接受 @type 為 Recipe 的物件。
func ParseJSONRecipes(data []byte, typedOnly bool) ([]Draft, error) {
	var raw interface{}
	if err := common.ParseJSONLenient(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	var drafts []Draft
	for _, obj := range collectRecipeObjects(raw, typedOnly, 0) {
		drafts = append(drafts, draftFromObject(obj))
	}
	return drafts, nil
}

func collectRecipeObjects(v interface{}, typedOnly bool, depth int) []map[string]interface{} {
	if depth > 6 {
		return nil
	}
	switch t := v.(type) {
	case []interface{}:
		var out []map[string]interface{}
		for _, item := range t {
			out = append(out, collectRecipeObjects(item, typedOnly, depth+1)...)
		}
		return out
	case map[string]interface{}:
		if graph, ok := t["@graph"]; ok {
			return collectRecipeObjects(graph, true, depth+1)
		}
		if list, ok := t["recipes"].([]interface{}); ok {
			return collectRecipeObjects(list, typedOnly, depth+1)
		}
		if isRecipeType(t["@type"]) {
			return []map[string]interface{}{t}
		}
		if typedOnly {
			// 例如 WebPage.mainEntity
			if entity, ok := t["mainEntity"]; ok {
				return collectRecipeObjects(entity, true, depth+1)
			}
			return nil
		}
		if _, typed := t["@type"]; typed && !hasAny(t, ingredientKeys) {
			return nil
		}
		if hasAny(t, titleKeys) || hasAny(t, ingredientKeys) || hasAny(t, instructionKeys) {
			return []map[string]interface{}{t}
		}
	}
	return nil
}

func isRecipeType(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "Recipe")
	case []interface{}:
		for _, item := range t {
			if isRecipeType(item) {
				return true
			}
		}
	}
	return false
}

func hasAny(m map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func draftFromObject(m map[string]interface{}) Draft {
	var d Draft
	for _, k := range titleKeys {
		if s := text.NormalizeLine(stringValue(m[k])); s != "" {
			d.Title = s
			break
		}
	}
	for _, k := range ingredientKeys {
		if lines := listValue(m[k]); len(lines) > 0 {
			d.Ingredients = lines
			break
		}
	}
	for _, k := range instructionKeys {
		if lines := stepValue(m[k]); len(lines) > 0 {
			d.Instructions = lines
			break
		}
	}
	for _, k := range tagKeys {
		d.Tags = append(d.Tags, tagValue(m[k])...)
	}
	for _, k := range imageKeys {
		for _, img := range imageValue(m[k]) {
			if strings.HasPrefix(img, "data:") {
				d.ImageDataURLs = append(d.ImageDataURLs, img)
			} else {
				d.ImageNames = append(d.ImageNames, img)
			}
		}
	}
	if fav, ok := m["favorite"].(bool); ok {
		d.Favorite = fav
	}
	if n, ok := m["rating"].(json.Number); ok {
		if v, err := n.Int64(); err == nil {
			d.Rating = int(v)
		}
	}

	known := make(map[string]bool)
	for _, group := range [][]string{titleKeys, ingredientKeys, instructionKeys, tagKeys, imageKeys, ignoredKeys} {
		for _, k := range group {
			known[k] = true
		}
	}
	for k, v := range m {
		if known[k] || k == "extra" {
			continue
		}
		d.SetExtra(k, v)
	}
	// 先前匯出的 extra 展開回來
	if extra, ok := m["extra"].(map[string]interface{}); ok {
		for k, v := range extra {
			d.SetExtra(k, v)
		}
	}
	return d
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case []interface{}:
		if len(t) > 0 {
			return stringValue(t[0])
		}
	case map[string]interface{}:
		for _, k := range []string{"text", "name", "original", "value", "@value"} {
			if s := stringValue(t[k]); s != "" {
				return s
			}
		}
	}
	return ""
}

// listValue 字串陣列、物件陣列或換行分隔字串
func listValue(v interface{}) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, l := range text.SplitLines(t) {
			if l = CleanIngredient(l); l != "" {
				out = append(out, l)
			}
		}
	case []interface{}:
		for _, item := range t {
			if s := text.NormalizeLine(stringValue(item)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// stepValue 支援 HowToStep 與 HowToSection
func stepValue(v interface{}) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, l := range text.SplitLines(t) {
			if l = CleanStep(l); l != "" {
				out = append(out, l)
			}
		}
	case []interface{}:
		for _, item := range t {
			out = append(out, stepValue(item)...)
		}
	case map[string]interface{}:
		if items, ok := t["itemListElement"]; ok {
			return stepValue(items)
		}
		if s := text.NormalizeLine(stringValue(t)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func tagValue(v interface{}) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	case []interface{}:
		for _, item := range t {
			out = append(out, tagValue(stringValue(item))...)
		}
	}
	return out
}

// imageValue 字串、陣列或 {url}
func imageValue(v interface{}) []string {
	var out []string
	switch t := v.(type) {
	case string:
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	case []interface{}:
		for _, item := range t {
			out = append(out, imageValue(item)...)
		}
	case map[string]interface{}:
		for _, k := range []string{"url", "contentUrl", "src"} {
			if s, ok := t[k].(string); ok && s != "" {
				return []string{s}
			}
		}
	}
	return out
}
