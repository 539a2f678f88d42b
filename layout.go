package pdfdocx

import (
	"math"
	"sort"
	"strings"
)

// Span is a run of text with uniform character formatting.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Mono   bool
}

func (s Span) sameFormat(o Span) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.Mono == o.Mono
}

// Block is a paragraph of a converted page. HeadingLevel is 1-4 for headings
// and 0 for body text. A '\n' inside a span is a soft line break.
type Block struct {
	HeadingLevel int
	Spans        []Span
}

// Text returns the block text without formatting.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// PageContent is the structural content of one source page.
type PageContent struct {
	// Index is the 0-based page index in the source document.
	Index  int
	Blocks []Block
}

// textRect is a positioned piece of text in PDF user space (y grows upward).
type textRect struct {
	text     string
	left     float64
	top      float64
	right    float64
	bottom   float64
	fontSize float64
	fontName string
}

// textLine is a line of text built from grouped rects.
type textLine struct {
	rects    []textRect
	top      float64
	bottom   float64
	left     float64
	right    float64
	fontSize float64 // dominant font size on this line
	fontName string  // dominant font name on this line
}

func (l *textLine) text() string {
	var b strings.Builder
	for _, r := range l.rects {
		b.WriteString(r.text)
	}
	return b.String()
}

// layoutPage turns the text rects of one page into blocks according to the
// quality profile.
func layoutPage(rects []textRect, profile QualityProfile) []Block {
	if len(rects) == 0 {
		return nil
	}
	lines := groupRectsIntoLines(rects, profile.Geometry)
	bodySize := detectBodyFontSize(lines)
	left, right := textBounds(lines)

	var (
		blocks []Block
		para   *Block
		prev   *textLine
	)
	flush := func() {
		if para != nil {
			blocks = append(blocks, *para)
			para = nil
		}
	}

	for i := range lines {
		line := &lines[i]
		rawText := strings.TrimSpace(line.text())
		if rawText == "" {
			continue
		}
		// Standalone footnote markers.
		if line.fontSize > 0 && bodySize > 0 && line.fontSize < bodySize*0.6 && len(rawText) <= 3 {
			continue
		}

		isBold := fontIsBold(line.fontName)
		level := headingLevel(line.fontSize, bodySize, isBold)
		// Short bold lines at body size read as subheadings ("References").
		if level == 0 && isBold && line.fontSize >= bodySize && allRectsAreBold(line.rects) && len(rawText) < 80 {
			level = 4
		}

		spans := lineSpans(line.rects, bodySize, profile.ConnectedBorder)
		if len(spans) == 0 {
			continue
		}

		if level > 0 {
			flush()
			blocks = append(blocks, Block{
				HeadingLevel: level,
				Spans:        []Span{{Text: strings.TrimSpace(spansText(spans))}},
			})
			prev = nil
			continue
		}

		if para != nil && prev != nil && profile.ParagraphDetection && !paragraphBreak(prev, line, bodySize) {
			sep := " "
			if softBreakAfter(prev, left, right, profile.Geometry) {
				sep = "\n"
			}
			para.Spans = appendSpans(para.Spans, sep, spans)
		} else {
			flush()
			para = &Block{Spans: spans}
		}
		prev = line
	}
	flush()
	return blocks
}

// groupRectsIntoLines groups rects by their vertical position into lines,
// sorted top-to-bottom, with rects within each line sorted left-to-right.
func groupRectsIntoLines(rects []textRect, g *LineGeometry) []textLine {
	// PDF coordinates: top of page = highest value
	sort.SliceStable(rects, func(i, j int) bool {
		if math.Abs(rects[i].top-rects[j].top) < 2 {
			return rects[i].left < rects[j].left
		}
		return rects[i].top > rects[j].top
	})

	var lines []textLine
	for _, r := range rects {
		merged := false
		for i := range lines {
			if sameLine(&lines[i], r, g) {
				l := &lines[i]
				l.rects = append(l.rects, r)
				l.left = math.Min(l.left, r.left)
				l.right = math.Max(l.right, r.right)
				l.bottom = math.Min(l.bottom, r.bottom)
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, textLine{
				rects:  []textRect{r},
				top:    r.top,
				bottom: r.bottom,
				left:   r.left,
				right:  r.right,
			})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].top > lines[j].top
	})

	for i := range lines {
		sort.SliceStable(lines[i].rects, func(a, b int) bool {
			return lines[i].rects[a].left < lines[i].rects[b].left
		})
		lines[i].fontSize, lines[i].fontName = dominantFont(lines[i].rects)
	}
	return lines
}

// sameLine uses the vertical overlap ratio when line geometry is tuned and a
// fixed three point tolerance on the top edge otherwise.
func sameLine(l *textLine, r textRect, g *LineGeometry) bool {
	if g != nil && g.LineOverlapThreshold > 0 {
		overlap := math.Min(l.top, r.top) - math.Max(l.bottom, r.bottom)
		h := math.Min(l.top-l.bottom, r.top-r.bottom)
		if h > 0 {
			return overlap/h >= g.LineOverlapThreshold
		}
	}
	return math.Abs(l.top-r.top) < 3
}

// dominantFont returns the font size and name that covers the most text in a line.
func dominantFont(rects []textRect) (float64, string) {
	type fontKey struct {
		size float64
		name string
	}
	counts := map[fontKey]int{}
	var order []fontKey
	for _, r := range rects {
		k := fontKey{size: math.Round(r.fontSize*10) / 10, name: r.fontName}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k] += len(r.text)
	}
	var bestKey fontKey
	bestCount := 0
	for _, k := range order {
		if counts[k] > bestCount {
			bestCount = counts[k]
			bestKey = k
		}
	}
	return bestKey.size, bestKey.name
}

// detectBodyFontSize finds the most common font size across all lines
// (weighted by character count), which represents the body text.
func detectBodyFontSize(lines []textLine) float64 {
	sizeCounts := map[float64]int{}
	for _, l := range lines {
		for _, r := range l.rects {
			rounded := math.Round(r.fontSize*10) / 10
			sizeCounts[rounded] += len(strings.TrimSpace(r.text))
		}
	}

	var bodySize float64
	maxCount := 0
	for size, count := range sizeCounts {
		// Ties go to the smaller size so the result does not depend on map order.
		if count > maxCount || (count == maxCount && size < bodySize) {
			maxCount = count
			bodySize = size
		}
	}
	return bodySize
}

func textBounds(lines []textLine) (left, right float64) {
	left, right = math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		left = math.Min(left, l.left)
		right = math.Max(right, l.right)
	}
	return left, right
}

// paragraphBreak reports a vertical gap larger than 1.5 line heights.
func paragraphBreak(prev, line *textLine, bodySize float64) bool {
	gap := prev.bottom - line.top
	lineHeight := line.top - line.bottom
	if lineHeight <= 0 {
		lineHeight = bodySize
	}
	return gap > lineHeight*1.5
}

// softBreakAfter decides whether the source line break after prev is kept
// inside the paragraph.
func softBreakAfter(prev *textLine, left, right float64, g *LineGeometry) bool {
	if g == nil || !g.LineBreakMode {
		return false
	}
	width := right - left
	if width <= 0 {
		return false
	}
	lineWidth := prev.right - prev.left
	free := right - prev.right
	return lineWidth/width < g.LineBreakWidthThreshold || free/width > g.LineBreakFreeSpaceRatio
}

// lineSpans renders a line's rects as spans, merging neighbours with the
// same formatting. Wide horizontal gaps become tabs when borders are
// connected and single spaces otherwise.
func lineSpans(rects []textRect, bodySize float64, connectedBorder bool) []Span {
	var spans []Span
	var prev *textRect
	for i := range rects {
		r := &rects[i]
		text := r.text
		if strings.TrimSpace(text) == "" {
			continue
		}
		// Superscript footnote markers.
		if r.fontSize > 0 && bodySize > 0 && r.fontSize < bodySize*0.6 && len(strings.TrimSpace(text)) <= 3 {
			continue
		}

		sep := ""
		if prev != nil {
			sep = gapSeparator(prev, r, connectedBorder)
		}
		span := Span{
			Text:   sep + text,
			Bold:   fontIsBold(r.fontName),
			Italic: fontIsItalic(r.fontName),
			Mono:   fontIsMono(r.fontName),
		}
		if n := len(spans); n > 0 && spans[n-1].sameFormat(span) {
			spans[n-1].Text += span.Text
		} else {
			spans = append(spans, span)
		}
		prev = r
	}
	if n := len(spans); n > 0 {
		spans[0].Text = strings.TrimLeft(spans[0].Text, " ")
		spans[n-1].Text = strings.TrimRight(spans[n-1].Text, " ")
	}
	return spans
}

func gapSeparator(prev, r *textRect, connectedBorder bool) string {
	size := math.Max(r.fontSize, 1)
	gap := r.left - prev.right
	if strings.HasSuffix(prev.text, " ") || strings.HasPrefix(r.text, " ") {
		if gap > size*2 && connectedBorder {
			return "\t"
		}
		return ""
	}
	switch {
	case gap > size*2 && connectedBorder:
		return "\t"
	case gap > math.Max(size*0.2, 1):
		return " "
	}
	return ""
}

func appendSpans(dst []Span, sep string, src []Span) []Span {
	if n := len(dst); n > 0 {
		dst[n-1].Text = strings.TrimRight(dst[n-1].Text, " ") + sep
	}
	for _, s := range src {
		if n := len(dst); n > 0 && dst[n-1].sameFormat(s) {
			dst[n-1].Text += s.Text
			continue
		}
		dst = append(dst, s)
	}
	return dst
}

func spansText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// plainTextBlocks splits unpositioned page text into paragraphs at blank lines.
func plainTextBlocks(text string) []Block {
	var blocks []Block
	for _, para := range strings.Split(normalizeText(text), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		blocks = append(blocks, Block{Spans: []Span{{Text: para}}})
	}
	return blocks
}

// fontIsBold returns true if the font name suggests bold weight.
func fontIsBold(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") ||
		strings.Contains(lower, "medi") || // e.g. NimbusRomNo9L-Medi
		strings.HasSuffix(lower, "-bd") ||
		strings.HasSuffix(lower, "bd")
}

// fontIsItalic returns true if the font name suggests italic style.
func fontIsItalic(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "ital") ||
		strings.Contains(lower, "obli") ||
		strings.HasSuffix(lower, "-it")
}

// allRectsAreBold returns true if all non-whitespace rects in the slice use a bold font.
func allRectsAreBold(rects []textRect) bool {
	for _, r := range rects {
		if strings.TrimSpace(r.text) == "" {
			continue
		}
		if !fontIsBold(r.fontName) {
			return false
		}
	}
	return true
}

// fontIsMono returns true if the font name suggests a monospace font.
func fontIsMono(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "mono") ||
		strings.Contains(lower, "courier") ||
		strings.Contains(lower, "consola") ||
		strings.HasPrefix(lower, "cmtt") || // Computer Modern Typewriter
		strings.Contains(lower, "typewriter")
}

// headingLevel determines the heading level based on font size relative to
// the body size. Returns 0 for body text.
func headingLevel(fontSize, bodySize float64, isBold bool) int {
	if bodySize <= 0 {
		return 0
	}
	ratio := fontSize / bodySize
	switch {
	case ratio >= 2.0:
		return 1
	case ratio >= 1.5:
		return 2
	case ratio >= 1.1:
		if isBold {
			return 3
		}
		return 4
	default:
		return 0
	}
}
