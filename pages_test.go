package pdfdocx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePages(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		count int
		want  []int
	}{
		{"list and range", "1-3,5", 10, []int{1, 2, 3, 5}},
		{"blank", "", 10, nil},
		{"whitespace", "   ", 10, nil},
		{"out of bounds", "99", 5, nil},
		{"reversed range", "2-1", 10, []int{1, 2}},
		{"duplicates", "3,1-3,3", 10, []int{1, 2, 3}},
		{"unsorted", "9,2,5", 10, []int{2, 5, 9}},
		{"range clipped", "4-20", 6, []int{4, 5, 6}},
		{"zero dropped", "0,1", 3, []int{1}},
		{"bad tokens skipped", "a,2,3-x,-1,1-2-3, 4 ", 10, []int{2, 4}},
		{"spaces in range", " 2 - 3 ", 10, []int{2, 3}},
		{"all invalid", "x,y", 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePages(tt.spec, tt.count)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, PageSelection(tt.want), got)
		})
	}
}

func TestPageSpecBlankVersusEmpty(t *testing.T) {
	blank := ParsePageSpec("  ")
	assert.True(t, blank.Blank())
	assert.True(t, blank.Empty())

	bad := ParsePageSpec("x")
	assert.False(t, bad.Blank())
	assert.True(t, bad.Empty())

	outside := ParsePageSpec("99")
	assert.False(t, outside.Blank())
	assert.False(t, outside.Empty())
	assert.Empty(t, outside.Resolve(5))
	assert.Equal(t, "99", outside.String())
}

func TestIntervals(t *testing.T) {
	tests := []struct {
		name  string
		sel   PageSelection
		count int
		want  []PageRange
	}{
		{"empty means all", nil, 10, []PageRange{{0, 10}}},
		{"consecutive joined", PageSelection{1, 2, 3, 5}, 10, []PageRange{{0, 3}, {4, 5}}},
		{"single page", PageSelection{7}, 10, []PageRange{{6, 7}}},
		{"every page", PageSelection{1, 2, 3}, 3, []PageRange{{0, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intervals(tt.sel, tt.count))
		})
	}
}

func TestPageRange(t *testing.T) {
	assert.True(t, AllPages.IsAll())
	assert.Equal(t, PageRange{0, 4}, AllPages.Clip(4))
	assert.Equal(t, 0, AllPages.Len())

	r := PageRange{Start: 2, End: 9}
	assert.False(t, r.IsAll())
	assert.Equal(t, 7, r.Len())
	assert.Equal(t, PageRange{2, 5}, r.Clip(5))
	assert.Equal(t, 0, PageRange{Start: 6, End: 9}.Clip(5).Len())
}
