package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// DOCXExtractor 將 word/document.xml 轉成簡易 HTML 後交給 HTML 擷取器
type DOCXExtractor struct {
	Scorer TitleScorer
}

// Extract 實作 Extractor
func (e DOCXExtractor) Extract(_ context.Context, file FileInput) Result {
	var res Result
	doc, images, err := DOCXToHTML(file.Data)
	if err != nil {
		res.Fail(file.Name, err)
		return res
	}
	drafts, err := ParseHTMLRecipes([]byte(doc), e.Scorer)
	if err != nil {
		res.Fail(file.Name, err)
		return res
	}
	if len(drafts) == 0 {
		res.Fail(file.Name, ErrNoRecipe)
		return res
	}
	for i := range drafts {
		drafts[i].Source = SourceDOCX
		if drafts[i].Title == "" {
			drafts[i].Title = file.Stem()
		}
		for _, img := range images {
			drafts[i].ImageDataURLs = append(drafts[i].ImageDataURLs, img.DataURL())
		}
	}
	res.Drafts = drafts
	return res
}

// DOCXToHTML 串流解析段落樣式：標題樣式轉 h1..h6、編號或項目段落轉 li，其餘為 p
func DOCXToHTML(content []byte) (string, []Image, error) {
	if len(content) == 0 {
		return "", nil, fmt.Errorf("empty docx content")
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", nil, fmt.Errorf("open zip: %w", err)
	}

	var docFile *zip.File
	var images []Image
	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			docFile = f
		case strings.HasPrefix(f.Name, "word/media/"):
			data, err := readZipFile(f)
			if err != nil {
				continue
			}
			name := strings.TrimPrefix(f.Name, "word/media/")
			images = append(images, Image{Name: name, MimeType: ImageMimeType(name, data), Data: data})
		}
	}
	if docFile == nil {
		return "", nil, fmt.Errorf("missing word/document.xml")
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })

	data, err := readZipFile(docFile)
	if err != nil {
		return "", nil, fmt.Errorf("read document.xml: %w", err)
	}
	out, err := convertDocument(data)
	if err != nil {
		return "", nil, err
	}
	return out, images, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// docxState 串流解析狀態
type docxState struct {
	out      strings.Builder
	para     strings.Builder
	style    string
	numbered bool
	inText   bool
	inList   bool
	inCell   int
}

func convertDocument(data []byte) (string, error) {
	s := &docxState{}
	s.out.WriteString("<html><body>")
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			s.start(t)
		case xml.EndElement:
			s.end(t)
		case xml.CharData:
			if s.inText {
				s.para.WriteString(html.EscapeString(string(t)))
			}
		}
	}
	s.closeList()
	s.out.WriteString("</body></html>")
	return s.out.String(), nil
}

func (s *docxState) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		s.para.Reset()
		s.style = ""
		s.numbered = false
	case "pStyle":
		for _, a := range t.Attr {
			if a.Name.Local == "val" {
				s.style = a.Value
			}
		}
	case "numPr":
		s.numbered = true
	case "t":
		s.inText = true
	case "tab":
		s.para.WriteByte(' ')
	case "br", "cr":
		s.para.WriteString("<br>")
	case "tbl":
		s.closeList()
		s.out.WriteString("<table>")
	case "tr":
		s.out.WriteString("<tr>")
	case "tc":
		s.inCell++
		s.out.WriteString("<td>")
	}
}

func (s *docxState) end(t xml.EndElement) {
	switch t.Name.Local {
	case "t":
		s.inText = false
	case "p":
		s.endParagraph()
	case "tc":
		s.inCell--
		s.out.WriteString("</td>")
	case "tr":
		s.out.WriteString("</tr>")
	case "tbl":
		s.out.WriteString("</table>")
	}
}

func (s *docxState) endParagraph() {
	content := strings.TrimSpace(s.para.String())
	if content == "" {
		return
	}
	if s.inCell > 0 {
		s.out.WriteString(content + "<br>")
		return
	}
	if s.numbered || strings.HasPrefix(s.style, "List") {
		if !s.inList {
			s.out.WriteString("<ul>")
			s.inList = true
		}
		s.out.WriteString("<li>" + content + "</li>")
		return
	}
	s.closeList()
	tag := headingTag(s.style)
	s.out.WriteString("<" + tag + ">" + content + "</" + tag + ">")
}

func (s *docxState) closeList() {
	if s.inList {
		s.out.WriteString("</ul>")
		s.inList = false
	}
}

// headingTag Title 樣式為 h1，HeadingN 為 hN
func headingTag(style string) string {
	switch {
	case style == "Title":
		return "h1"
	case strings.HasPrefix(style, "Heading") && len(style) == len("Heading")+1:
		if n := style[len(style)-1]; n >= '1' && n <= '6' {
			return "h" + string(n)
		}
	}
	return "p"
}
