package ooxml

import (
	"archive/zip"
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Paragraph styles understood by the generated styles part.
const (
	StyleNormal   = ""
	StyleHeading1 = "Heading1"
	StyleHeading2 = "Heading2"
	StyleHeading3 = "Heading3"
	StyleHeading4 = "Heading4"
)

// MonoFont is the font used for runs marked Mono.
const MonoFont = "Courier New"

// Run is a span of text sharing one set of character properties. A '\n' in
// Text becomes a soft line break and a '\t' becomes a tab.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Mono   bool
}

// Paragraph is a body paragraph.
type Paragraph struct {
	Style string
	Runs  []Run
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

type element struct {
	pageBreak bool
	para      Paragraph
}

// Document accumulates body content in memory until Save.
type Document struct {
	font     string
	fontSize int // half-points
	body     []element
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithFont sets the Normal style font for Latin and East Asian text.
func WithFont(name string) DocumentOption {
	return func(d *Document) {
		d.font = name
	}
}

// WithFontSize sets the Normal style size in points.
func WithFontSize(points float64) DocumentOption {
	return func(d *Document) {
		d.fontSize = int(points * 2)
	}
}

// NewDocument returns an empty document.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{font: "Calibri", fontSize: 22}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddParagraph appends p.
func (d *Document) AddParagraph(p Paragraph) {
	d.body = append(d.body, element{para: p})
}

// AddText appends a Normal paragraph holding a single plain run.
func (d *Document) AddText(text string) {
	d.AddParagraph(Paragraph{Runs: []Run{{Text: text}}})
}

// AddPageBreak appends a paragraph holding only a page break.
func (d *Document) AddPageBreak() {
	d.body = append(d.body, element{pageBreak: true})
}

// Empty reports whether nothing has been added.
func (d *Document) Empty() bool {
	return len(d.body) == 0
}

// Save writes the package to path, replacing any existing file. The write is
// not atomic: on error a truncated file may be left behind.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := d.Write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Write writes the package as a ZIP stream to w.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", d.stylesXML()},
		{"word/document.xml", d.documentXML()},
	}
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", p.name, err)
		}
		if _, err := io.WriteString(fw, p.data); err != nil {
			return fmt.Errorf("write part %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const contentTypesXML = xmlHeader +
	`<Types xmlns="` + NSContentTypes + `">` +
	`<Default Extension="rels" ContentType="` + ContentTypeRelationships + `"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="` + ContentTypeDocumentMain + `"/>` +
	`<Override PartName="/word/styles.xml" ContentType="` + ContentTypeStyles + `"/>` +
	`</Types>`

const packageRelsXML = xmlHeader +
	`<Relationships xmlns="` + NSRelationships + `">` +
	`<Relationship Id="rId1" Type="` + RelTypeOfficeDocument + `" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlHeader +
	`<Relationships xmlns="` + NSRelationships + `">` +
	`<Relationship Id="rId1" Type="` + RelTypeStyles + `" Target="styles.xml"/>` +
	`</Relationships>`

var headingSizes = map[string]int{
	StyleHeading1: 32,
	StyleHeading2: 28,
	StyleHeading3: 26,
	StyleHeading4: 24,
}

func (d *Document) stylesXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:styles xmlns:w="` + NSWordprocessingML + `">`)
	b.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr>`)
	fmt.Fprintf(&b, `<w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:eastAsia="%[1]s" w:cs="%[1]s"/>`, escapeAttr(d.font))
	fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, d.fontSize, d.fontSize)
	b.WriteString(`</w:rPr></w:rPrDefault></w:docDefaults>`)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)
	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("Heading%d", i)
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`, id, i)
		fmt.Fprintf(&b, `<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="%d"/></w:pPr>`, i-1)
		fmt.Fprintf(&b, `<w:rPr><w:b/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:style>`, headingSizes[id], headingSizes[id])
	}
	b.WriteString(`</w:styles>`)
	return b.String()
}

func (d *Document) documentXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + NSWordprocessingML + `" xmlns:r="` + NSRelDoc + `"><w:body>`)
	for _, el := range d.body {
		if el.pageBreak {
			b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
			continue
		}
		writeParagraph(&b, el.para)
	}
	// A4 with one inch margins.
	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>`)
	b.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, p Paragraph) {
	b.WriteString(`<w:p>`)
	if p.Style != StyleNormal {
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, escapeAttr(p.Style))
	}
	for _, r := range p.Runs {
		writeRun(b, r)
	}
	b.WriteString(`</w:p>`)
}

func writeRun(b *strings.Builder, r Run) {
	text := sanitizeXMLText(r.Text)
	if text == "" {
		return
	}
	b.WriteString(`<w:r>`)
	if r.Bold || r.Italic || r.Mono {
		b.WriteString(`<w:rPr>`)
		if r.Mono {
			fmt.Fprintf(b, `<w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s"/>`, MonoFont)
		}
		if r.Bold {
			b.WriteString(`<w:b/>`)
		}
		if r.Italic {
			b.WriteString(`<w:i/>`)
		}
		b.WriteString(`</w:rPr>`)
	}
	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(b, []byte(seg.String()))
		b.WriteString(`</w:t>`)
		seg.Reset()
	}
	for _, c := range text {
		switch c {
		case '\n':
			flush()
			b.WriteString(`<w:br/>`)
		case '\t':
			flush()
			b.WriteString(`<w:tab/>`)
		default:
			seg.WriteRune(c)
		}
	}
	flush()
	b.WriteString(`</w:r>`)
}

// sanitizeXMLText drops characters XML 1.0 cannot carry.
func sanitizeXMLText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r == '\r':
			return -1
		case r < 0x20:
			return -1
		case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s)
}

func escapeAttr(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
