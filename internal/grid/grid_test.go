package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrid_TypedAccess(t *testing.T) {
	g := New("0106")
	g.Set(5, "B", Text("Monday"))
	g.Set(6, "B", Number(45663))
	g.Set(7, "B", Text("")) // empty text is not stored

	text, ok := g.Textual(5, "B")
	assert.True(t, ok)
	assert.Equal(t, "Monday", text)

	num, ok := g.Number(6, "B")
	assert.True(t, ok)
	assert.Equal(t, float64(45663), num)

	_, ok = g.Textual(6, "B")
	assert.False(t, ok, "a numeric cell is not textual")
	_, ok = g.Number(5, "B")
	assert.False(t, ok, "a text cell is not numeric")
	_, ok = g.Get(7, "B")
	assert.False(t, ok)
	_, ok = g.Get(99, "Z")
	assert.False(t, ok)

	assert.Equal(t, 2, g.Len())
}

func TestGrid_RowsSortedDistinct(t *testing.T) {
	g := New("s")
	g.Set(10, "A", Text("x"))
	g.Set(2, "B", Number(1))
	g.Set(10, "C", Text("y"))

	assert.Equal(t, []int{2, 10}, g.Rows())
}
