// Package ingest 將各種格式的檔案（JSON、HTML、DOCX、PDF、試算表、圖片、ZIP、網址）
// 轉換為食譜草稿。單一檔案的錯誤只記錄在結果中，不會中斷整批匯入。
package ingest

import (
	"context"
	"encoding/base64"
	"net/http"
	"path"
	"strings"
)

// Source 草稿來源格式
type Source string

const (
	SourceJSON  Source = "json"
	SourceHTML  Source = "html"
	SourceDOCX  Source = "docx"
	SourcePDF   Source = "pdf"
	SourceSheet Source = "sheet"
	SourceImage Source = "image"
	SourceZip   Source = "zip"
	SourceURL   Source = "url"
)

// Draft 尚未與既有食譜比對的草稿
type Draft struct {
	Source        Source                 `json:"source"`
	Title         string                 `json:"title"`
	Ingredients   []string               `json:"ingredients,omitempty"`
	Instructions  []string               `json:"instructions,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	ImageNames    []string               `json:"imageNames,omitempty"`
	ImageDataURLs []string               `json:"imageDataUrls,omitempty"`
	Extra         map[string]interface{} `json:"extra,omitempty"`
	Favorite      bool                   `json:"favorite,omitempty"`
	Rating        int                    `json:"rating,omitempty"`
}

// SetExtra 寫入 extra，必要時建立 map
func (d *Draft) SetExtra(key string, value interface{}) {
	if d.Extra == nil {
		d.Extra = make(map[string]interface{})
	}
	d.Extra[key] = value
}

// Empty 沒有任何食材與步驟
func (d Draft) Empty() bool {
	return len(d.Ingredients) == 0 && len(d.Instructions) == 0
}

// Image 匯入時未歸屬任何食譜的圖片
type Image struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

// DataURL 轉成 data URL
func (i Image) DataURL() string {
	return DataURL(i.MimeType, i.Data)
}

// FileError 單一檔案或項目的錯誤
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Result 擷取結果
type Result struct {
	Drafts []Draft     `json:"drafts"`
	Images []Image     `json:"images,omitempty"`
	Errors []FileError `json:"errors"`
}

// Merge 合併另一個結果
func (r *Result) Merge(other Result) {
	r.Drafts = append(r.Drafts, other.Drafts...)
	r.Images = append(r.Images, other.Images...)
	r.Errors = append(r.Errors, other.Errors...)
}

// Fail 記錄一筆錯誤
func (r *Result) Fail(file string, err error) {
	r.Errors = append(r.Errors, FileError{File: file, Error: err.Error()})
}

// FileInput 待匯入的檔案
type FileInput struct {
	Name string
	Data []byte
}

// Ext 小寫副檔名（含點）
func (f FileInput) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}

// Stem 不含路徑與副檔名的檔名
func (f FileInput) Stem() string {
	base := path.Base(strings.ReplaceAll(f.Name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Extractor 單一格式的擷取器
type Extractor interface {
	Extract(ctx context.Context, file FileInput) Result
}

// DataURL 組成 data URL
func DataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

var imageExts = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// IsImage 依副檔名判斷是否為圖片
func IsImage(name string) bool {
	_, ok := imageExts[strings.ToLower(path.Ext(name))]
	return ok
}

// ImageMimeType 依副檔名推測，否則以內容偵測
func ImageMimeType(name string, data []byte) string {
	if mt, ok := imageExts[strings.ToLower(path.Ext(name))]; ok {
		return mt
	}
	return http.DetectContentType(data)
}
