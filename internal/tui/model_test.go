package tui

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilcamarero/camarero/internal/protocol"
	"github.com/ilcamarero/camarero/menu"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	name, args := parseCommand("Serve beto Postre|Flan|Mixto")
	assert.Equal(t, "serve", name)
	assert.Equal(t, []string{"beto", "Postre|Flan|Mixto"}, args)

	name, args = parseCommand("   ")
	assert.Empty(t, name)
	assert.Nil(t, args)
}

func TestParseServeArgs(t *testing.T) {
	t.Parallel()

	target, category, dish, variant, err := parseServeArgs([]string{"beto", "Plato", "Principal|Milanesa", "a", "la", "Napolitana|Napolitana"})
	require.NoError(t, err)
	assert.Equal(t, "beto", target)
	assert.Equal(t, "Plato Principal", category)
	assert.Equal(t, "Milanesa a la Napolitana", dish)
	assert.Equal(t, "Napolitana", variant)

	_, _, _, _, err = parseServeArgs([]string{"beto"})
	assert.ErrorContains(t, err, "usage")

	_, _, _, _, err = parseServeArgs([]string{"beto", "just-a-dish"})
	assert.ErrorContains(t, err, "usage")
}

func TestResolveCardID(t *testing.T) {
	t.Parallel()

	logger := log.NewWithOptions(io.Discard, log.Options{})
	m := NewModel(nil, "mesa", logger)

	// Without state the argument passes through untouched.
	assert.Equal(t, "k-x", m.resolveCardID("k-x"))

	m.state = &protocol.RoomStateData{Center: []menu.Card{{ID: "k-a"}, {ID: "k-b"}}}
	assert.Equal(t, "k-a", m.resolveCardID("1"))
	assert.Equal(t, "k-b", m.resolveCardID("2"))
	assert.Equal(t, "3", m.resolveCardID("3"), "out of range falls back to the raw argument")
	assert.Equal(t, "k-b", m.resolveCardID("k-b"))
}
