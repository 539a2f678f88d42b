package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Stats summarizes the body of a .docx package.
type Stats struct {
	// Pages holds the paragraph texts between explicit page breaks. A
	// document that starts with a page break has an empty first page.
	Pages      [][]string
	Paragraphs int
	PageBreaks int
}

// Inspect reads the .docx package at path.
func Inspect(path string) (*Stats, error) {
	zf, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open DOCX ZIP: %w", err)
	}
	defer zf.Close()
	return inspect(&zf.Reader)
}

// InspectReader reads a .docx package held in r.
func InspectReader(r io.ReaderAt, size int64) (*Stats, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open DOCX ZIP: %w", err)
	}
	return inspect(zr)
}

func inspect(zr *zip.Reader) (*Stats, error) {
	docPath := "word/document.xml"
	rels, err := ParseRelationshipsFromReader(zr, "_rels/.rels")
	if err != nil {
		return nil, err
	}
	for _, rel := range rels {
		if rel.Type == RelTypeOfficeDocument {
			docPath = ResolveTarget("", rel.Target)
			break
		}
	}
	data, err := ReadFileFromZip(zr, docPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", docPath, err)
	}
	return scanBody(data)
}

func scanBody(data []byte) (*Stats, error) {
	st := &Stats{Pages: [][]string{nil}}
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		inPara    bool
		inText    bool
		hasBreak  bool
		hasOther  bool
		paraText  strings.Builder
		paraDepth int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				paraDepth++
				if paraDepth == 1 {
					inPara = true
					hasBreak, hasOther = false, false
					paraText.Reset()
				}
			case "t":
				inText = true
				hasOther = true
			case "tab":
				if inPara {
					paraText.WriteByte('\t')
					hasOther = true
				}
			case "br":
				if !inPara {
					continue
				}
				if attr(t, "type") == "page" {
					hasBreak = true
					st.PageBreaks++
					st.Pages = append(st.Pages, nil)
				} else {
					paraText.WriteByte('\n')
					hasOther = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paraDepth--
				if paraDepth == 0 && inPara {
					inPara = false
					if hasBreak && !hasOther {
						continue
					}
					st.Paragraphs++
					last := len(st.Pages) - 1
					st.Pages[last] = append(st.Pages[last], paraText.String())
				}
			}
		case xml.CharData:
			if inText {
				paraText.Write(t)
			}
		}
	}
	return st, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
