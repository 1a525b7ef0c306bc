package flow

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionLessOrdersLexicographically(t *testing.T) {
	conns := []Connection{
		{SrcIdx: 1, SrcPort: 0, DstIdx: 0, DstPort: 0},
		{SrcIdx: 0, SrcPort: 1, DstIdx: 0, DstPort: 0},
		{SrcIdx: 0, SrcPort: 0, DstIdx: 1, DstPort: 0},
		{SrcIdx: 0, SrcPort: 0, DstIdx: 0, DstPort: 1},
		{SrcIdx: 0, SrcPort: 0, DstIdx: 0, DstPort: 0},
	}
	sort.SliceStable(conns, func(i, j int) bool { return conns[i].Less(conns[j]) })

	want := []Connection{
		{SrcIdx: 0, SrcPort: 0, DstIdx: 0, DstPort: 0},
		{SrcIdx: 0, SrcPort: 0, DstIdx: 0, DstPort: 1},
		{SrcIdx: 0, SrcPort: 0, DstIdx: 1, DstPort: 0},
		{SrcIdx: 0, SrcPort: 1, DstIdx: 0, DstPort: 0},
		{SrcIdx: 1, SrcPort: 0, DstIdx: 0, DstPort: 0},
	}
	assert.Equal(t, want, conns)
}

func TestConnectionEqualDetectsExactDuplicates(t *testing.T) {
	a := Connection{SrcIdx: 1, SrcPort: 2, DstIdx: 3, DstPort: 4}
	b := Connection{SrcIdx: 1, SrcPort: 2, DstIdx: 3, DstPort: 4}
	c := Connection{SrcIdx: 1, SrcPort: 2, DstIdx: 3, DstPort: 5}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
