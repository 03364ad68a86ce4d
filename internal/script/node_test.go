package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitSpanFirstBecomesOwnText(t *testing.T) {
	n := &ParseNode{}
	emitSpan(n, "hello")
	assert.Equal(t, "hello", n.Text)
	assert.Empty(t, n.Children)
}

func TestEmitSpanSecondBecomesChild(t *testing.T) {
	n := &ParseNode{}
	emitSpan(n, "first")
	emitSpan(n, "second")
	assert.Equal(t, "first", n.Text)
	require.Len(t, n.Children, 1)
	assert.Equal(t, "second", n.Children[0].Text)
	assert.Equal(t, n, n.Children[0].Parent)
}

func TestEmitSpanSkipsEmpty(t *testing.T) {
	n := &ParseNode{}
	emitSpan(n, "")
	assert.Equal(t, "", n.Text)
	assert.Empty(t, n.Children)
}

func TestEmitSpanAfterChildrenAlwaysAppends(t *testing.T) {
	n := &ParseNode{}
	newNode(n, "if x") // gives n a non-text child first
	emitSpan(n, "span")
	require.Len(t, n.Children, 2)
	assert.Equal(t, "span", n.Children[1].Text)
}

func TestForkTableOrderAndLookup(t *testing.T) {
	ft := NewForkTable()
	ft.Add("intro", &ParseNode{})
	ft.Add("armory", &ParseNode{})
	ft.Add("intro", &ParseNode{Text: "replaced"}) // overwrite, order unchanged

	assert.Equal(t, []string{"intro", "armory"}, ft.Names())
	assert.Equal(t, "intro", ft.EntryFork())
	assert.Equal(t, 2, ft.Len())

	n, ok := ft.Get("intro")
	require.True(t, ok)
	assert.Equal(t, "replaced", n.Text)

	assert.True(t, ft.Has("armory"))
	assert.False(t, ft.Has("nope"))
}

func TestForkTableEmptyEntryFork(t *testing.T) {
	ft := NewForkTable()
	assert.Equal(t, "", ft.EntryFork())
	assert.Equal(t, 0, ft.Len())
}
