package pdfdocx

import (
	"sort"
	"strconv"
	"strings"
)

// pageSpan is an inclusive 1-indexed range from a page spec token.
type pageSpan struct {
	first, last int
}

// PageSpec is a parsed page-range string that has not yet been checked
// against a document. The grammar is a comma separated list of page numbers
// and inclusive ranges, e.g. "1-5,8,10-12". Tokens that do not parse are
// skipped.
type PageSpec struct {
	raw   string
	spans []pageSpan
}

// ParsePageSpec parses s. It never fails; malformed tokens are dropped.
func ParsePageSpec(s string) PageSpec {
	spec := PageSpec{raw: s}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if span, ok := parseToken(tok); ok {
			spec.spans = append(spec.spans, span)
		}
	}
	return spec
}

func parseToken(tok string) (pageSpan, bool) {
	parts := strings.Split(tok, "-")
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return pageSpan{}, false
		}
		return pageSpan{first: n, last: n}, true
	case 2:
		a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return pageSpan{}, false
		}
		b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return pageSpan{}, false
		}
		if a > b {
			a, b = b, a
		}
		return pageSpan{first: a, last: b}, true
	}
	return pageSpan{}, false
}

// Blank reports whether the spec was empty or whitespace only, which means
// "all pages".
func (s PageSpec) Blank() bool {
	return strings.TrimSpace(s.raw) == ""
}

// Empty reports whether no token parsed.
func (s PageSpec) Empty() bool {
	return len(s.spans) == 0
}

func (s PageSpec) String() string {
	return s.raw
}

// Resolve clips the spec to [1, pageCount] and returns the distinct pages in
// ascending order.
func (s PageSpec) Resolve(pageCount int) PageSelection {
	seen := make(map[int]struct{})
	for _, span := range s.spans {
		first := max(span.first, 1)
		last := min(span.last, pageCount)
		for p := first; p <= last; p++ {
			seen[p] = struct{}{}
		}
	}
	pages := make(PageSelection, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// PageSelection is an ascending list of distinct 1-indexed pages. An empty
// selection from a blank spec means every page.
type PageSelection []int

// ParsePages parses spec and resolves it against a document of pageCount pages.
func ParsePages(spec string, pageCount int) PageSelection {
	return ParsePageSpec(spec).Resolve(pageCount)
}

// PageRange is a half-open, 0-indexed interval of pages [Start, End).
type PageRange struct {
	Start int
	End   int
}

// AllPages covers the whole document whatever its length.
var AllPages = PageRange{Start: 0, End: -1}

// IsAll reports whether r runs through the last page.
func (r PageRange) IsAll() bool {
	return r.End < 0
}

// Clip bounds r to a document of pageCount pages.
func (r PageRange) Clip(pageCount int) PageRange {
	end := r.End
	if end < 0 || end > pageCount {
		end = pageCount
	}
	return PageRange{Start: max(r.Start, 0), End: end}
}

// Len returns the number of pages in r. AllPages has no length on its own.
func (r PageRange) Len() int {
	if r.IsAll() || r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Intervals turns a selection into the half-open ranges the structural
// converter consumes, joining consecutive pages. An empty selection yields a
// single range over the whole document.
func Intervals(sel PageSelection, pageCount int) []PageRange {
	if len(sel) == 0 {
		return []PageRange{{Start: 0, End: pageCount}}
	}
	var ranges []PageRange
	for _, p := range sel {
		idx := p - 1
		if n := len(ranges); n > 0 && ranges[n-1].End == idx {
			ranges[n-1].End++
			continue
		}
		ranges = append(ranges, PageRange{Start: idx, End: idx + 1})
	}
	return ranges
}
