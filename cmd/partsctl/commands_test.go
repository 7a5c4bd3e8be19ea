package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-assistant/internal/app"
	"github.com/spec-kit/parts-assistant/internal/config"
	"github.com/spec-kit/parts-assistant/internal/domain"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ask", "chat", "search", "seed"} {
		assert.True(t, names[want], want)
	}
}

func TestSearchRejectsUnknownCategory(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"search", "--category", "oven", "filter"})
	root.SetOut(&bytes.Buffer{})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestPrintResponse(t *testing.T) {
	var buf bytes.Buffer
	printResponse(&buf, domain.ChatResponse{
		Message:        "Here you go",
		Products:       []domain.Part{{Name: "Ice Maker Assembly", PartNumber: "PS11752778", Price: 89.95}},
		ShowTicketForm: true,
	})
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Here you go\n"))
	assert.Contains(t, out, "Ice Maker Assembly (PS11752778) $89.95 https://www.partselect.com/PS11752778-.htm")
	assert.Contains(t, out, "support ticket")
}

func TestRunChatKeepsHistory(t *testing.T) {
	cfg := &config.Config{
		Cache:   config.CacheConfig{Backend: config.CacheBackendMemory, TTLSeconds: 60, MaxEntries: 10},
		Catalog: config.CatalogConfig{Source: config.CatalogSourceEmbedded},
		Tickets: config.TicketConfig{NumberPrefix: "ST-2024", StartNumber: 10001},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	in := strings.NewReader("hello\n\nthanks\nexit\nnever read\n")
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), in, &out, a))

	transcript := out.String()
	assert.Contains(t, transcript, "PartSelect assistant")
	assert.Contains(t, transcript, "Have a great day!")
	assert.NotContains(t, transcript, "never read")
}
