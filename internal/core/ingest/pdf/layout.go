package pdf

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	minBand         = 2.0
	bandFactor      = 0.5
	wordGapFactor   = 0.3
	cellGapFactor   = 3.0
	columnGapFactor = 6.0
	columnSlack     = 20.0
	minColumnRunes  = 15
)

// Fragment 頁面上一段已定位的文字
type Fragment struct {
	X, Y, W  float64
	FontSize float64
	S        string
}

func (f Fragment) charWidth() float64 {
	if n := utf8.RuneCountInString(f.S); n > 0 && f.W > 0 {
		return f.W / float64(n)
	}
	if f.FontSize > 0 {
		return f.FontSize * 0.5
	}
	return 5
}

type textLine struct {
	y     float64
	frags []Fragment
}

// Layout 重建閱讀順序：依 Y 分組成行、行內依 X 排序；偵測到雙欄時先輸出左欄
func Layout(frags []Fragment) []string {
	lines := groupLines(frags)
	if len(lines) == 0 {
		return nil
	}
	if x, ok := detectColumn(lines); ok {
		var left, right []string
		for _, l := range lines {
			var lf, rf []Fragment
			for _, f := range l.frags {
				if f.X < x {
					lf = append(lf, f)
				} else {
					rf = append(rf, f)
				}
			}
			if s := render(lf); s != "" {
				left = append(left, s)
			}
			if s := render(rf); s != "" {
				right = append(right, s)
			}
		}
		return append(left, right...)
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if s := render(l.frags); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// groupLines PDF 座標 Y 向上，由上而下分組；容差為 max(2, 0.5·字級)
func groupLines(frags []Fragment) []textLine {
	sorted := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if f.S != "" {
			sorted = append(sorted, f)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []textLine
	for _, f := range sorted {
		if n := len(lines); n > 0 {
			cur := &lines[n-1]
			band := math.Max(minBand, bandFactor*cur.frags[0].FontSize)
			if math.Abs(cur.y-f.Y) <= band {
				cur.frags = append(cur.frags, f)
				continue
			}
		}
		lines = append(lines, textLine{y: f.Y, frags: []Fragment{f}})
	}
	for i := range lines {
		frags := lines[i].frags
		sort.SliceStable(frags, func(a, b int) bool { return frags[a].X < frags[b].X })
	}
	return lines
}

// render 依間距插入空白；超過 3 個字寬的間距視為欄位分隔
func render(frags []Fragment) string {
	var b strings.Builder
	for i, f := range frags {
		if i > 0 {
			prev := frags[i-1]
			gap := f.X - (prev.X + prev.W)
			cw := prev.charWidth()
			switch {
			case gap > cellGapFactor*cw:
				b.WriteString("  ")
			case gap > wordGapFactor*cw && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(f.S, " "):
				b.WriteByte(' ')
			}
		}
		b.WriteString(f.S)
	}
	return strings.TrimSpace(b.String())
}

// detectColumn 多數有大間距的行在相近 X 處分欄，且兩側都是成段文字時，回傳分欄位置
func detectColumn(lines []textLine) (float64, bool) {
	var starts []float64
	leftRunes, rightRunes := 0, 0
	for _, l := range lines {
		split := -1
		for i := 1; i < len(l.frags); i++ {
			prev, f := l.frags[i-1], l.frags[i]
			if f.X-(prev.X+prev.W) > columnGapFactor*prev.charWidth() {
				if split >= 0 {
					split = -1
					break
				}
				split = i
			}
		}
		if split <= 0 {
			continue
		}
		starts = append(starts, l.frags[split].X)
		leftRunes += utf8.RuneCountInString(render(l.frags[:split]))
		rightRunes += utf8.RuneCountInString(render(l.frags[split:]))
	}
	if len(starts) < 3 || len(starts)*10 < len(lines)*3 {
		return 0, false
	}
	// 數量欄與品名欄這類表格不算雙欄
	if leftRunes < minColumnRunes*len(starts) || rightRunes < minColumnRunes*len(starts) {
		return 0, false
	}
	sort.Float64s(starts)
	median := starts[len(starts)/2]
	near := 0
	for _, s := range starts {
		if math.Abs(s-median) <= columnSlack {
			near++
		}
	}
	if near*10 < len(starts)*7 {
		return 0, false
	}
	return median - columnSlack, true
}
