package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"recipe-manager/internal/core/text"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	cellSplit  = regexp.MustCompile(`\r?\n|\s*[;|]\s*`)
	imageSplit = regexp.MustCompile(`\r?\n|\s*\|\s*`)
)

// SheetExtractor 試算表（xlsx、xls、csv），一列一份草稿
type SheetExtractor struct{}

// Extract 實作 Extractor
func (SheetExtractor) Extract(_ context.Context, file FileInput) Result {
	var res Result
	var rows [][]string
	var err error
	switch file.Ext() {
	case ".xlsx", ".xlsm":
		rows, err = xlsxRows(file.Data)
	case ".xls":
		rows, err = xlsRows(file.Data)
	case ".csv", ".tsv":
		rows, err = csvRows(file.Data, file.Ext() == ".tsv")
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupported, file.Ext())
	}
	if err != nil {
		res.Fail(file.Name, err)
		return res
	}

	drafts, rowErrs := DraftsFromRows(rows)
	for _, e := range rowErrs {
		res.Fail(file.Name, e)
	}
	if len(drafts) == 0 && len(rowErrs) == 0 {
		res.Fail(file.Name, ErrNoRecipe)
	}
	res.Drafts = drafts
	return res
}

// xlsxRows 第一個有標題列的工作表
func xlsxRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) > 0 && headerColumns(rows[0]).title >= 0 {
			return rows, nil
		}
	}
	return nil, ErrNoRecipe
}

// oleMagic OLE2 複合文件開頭
var oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0}

// xlsRows 舊版 BIFF 活頁簿，同樣取第一個有標題列的工作表；格式損壞時 xls 會 panic。
// 不是 OLE2 的 .xls 多半是匯出的文字表格，改依 tab 或逗號解析
func xlsRows(data []byte) (rows [][]string, err error) {
	if !bytes.HasPrefix(data, oleMagic) {
		first, _, _ := bytes.Cut(data, []byte("\n"))
		return csvRows(data, bytes.ContainsRune(first, '\t'))
	}
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("open xls: %v", r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		if len(rows) > 0 && headerColumns(rows[0]).title >= 0 {
			return rows, nil
		}
	}
	return nil, ErrNoRecipe
}

func csvRows(data []byte, tabs bool) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if tabs {
		r.Comma = '\t'
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// columns 標題列對應的欄位索引，-1 表示沒有
type columns struct {
	title        int
	ingredients  int
	instructions int
	tags         int
	images       int
	favorite     int
	rating       int
	extra        map[int]string
}

func headerColumns(header []string) columns {
	c := columns{title: -1, ingredients: -1, instructions: -1, tags: -1, images: -1, favorite: -1, rating: -1, extra: map[int]string{}}
	for i, h := range header {
		key := strings.TrimSpace(h)
		if key == "" {
			continue
		}
		switch {
		case matchesAlias(key, titleKeys):
			setOnce(&c.title, i)
		case matchesAlias(key, ingredientKeys):
			setOnce(&c.ingredients, i)
		case matchesAlias(key, instructionKeys):
			setOnce(&c.instructions, i)
		case matchesAlias(key, tagKeys):
			setOnce(&c.tags, i)
		case matchesAlias(key, imageKeys):
			setOnce(&c.images, i)
		case strings.EqualFold(key, "favorite"):
			setOnce(&c.favorite, i)
		case strings.EqualFold(key, "rating"):
			setOnce(&c.rating, i)
		default:
			c.extra[i] = key
		}
	}
	return c
}

func matchesAlias(key string, aliases []string) bool {
	for _, a := range aliases {
		if strings.EqualFold(key, a) {
			return true
		}
	}
	return false
}

func setOnce(dst *int, i int) {
	if *dst < 0 {
		*dst = i
	}
}

// DraftsFromRows 第一列為標題列，之後每列一份草稿；缺標題欄時整張表視為錯誤
func DraftsFromRows(rows [][]string) ([]Draft, []error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := headerColumns(rows[0])
	if cols.title < 0 && cols.ingredients < 0 {
		return nil, []error{fmt.Errorf("missing title or ingredients column")}
	}

	var drafts []Draft
	var errs []error
	for n, row := range rows[1:] {
		cell := func(i int) string {
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		d := Draft{
			Source:       SourceSheet,
			Title:        text.NormalizeLine(cell(cols.title)),
			Ingredients:  splitCell(cell(cols.ingredients), CleanIngredient),
			Instructions: splitCell(cell(cols.instructions), CleanStep),
			Tags:         tagValue(strings.ReplaceAll(cell(cols.tags), ";", ",")),
		}
		// data URL 內含分號，只以換行或 | 切分
		for _, img := range imageSplit.Split(cell(cols.images), -1) {
			if img = strings.TrimSpace(img); img == "" {
				continue
			}
			if strings.HasPrefix(img, "data:") {
				d.ImageDataURLs = append(d.ImageDataURLs, img)
			} else {
				d.ImageNames = append(d.ImageNames, img)
			}
		}
		if fav := cell(cols.favorite); fav != "" {
			d.Favorite, _ = strconv.ParseBool(strings.ToLower(fav))
		}
		if r := cell(cols.rating); r != "" {
			if v, err := strconv.ParseFloat(r, 64); err == nil {
				d.Rating = int(v)
			}
		}
		for i, key := range cols.extra {
			if v := cell(i); v != "" {
				d.SetExtra(key, v)
			}
		}
		if d.Title == "" && d.Empty() {
			continue
		}
		if d.Title == "" {
			errs = append(errs, fmt.Errorf("row %d: missing title", n+2))
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, errs
}

func splitCell(v string, clean func(string) string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range cellSplit.Split(v, -1) {
		if part = clean(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
