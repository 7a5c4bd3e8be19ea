package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-assistant/internal/config"
	"github.com/spec-kit/parts-assistant/internal/domain"
)

// offlineConfig has no external services and no completion backend.
func offlineConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "parts-assistant"},
		LLM:     config.LLMConfig{TimeoutSeconds: 5},
		Cache:   config.CacheConfig{Backend: config.CacheBackendMemory, TTLSeconds: 60, MaxEntries: 10},
		Catalog: config.CatalogConfig{Source: config.CatalogSourceEmbedded},
		Tickets: config.TicketConfig{NumberPrefix: "ST-2024", StartNumber: 10001},
	}
}

func TestNewOffline(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, offlineConfig(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.LLM.Available())
	assert.Nil(t, a.Redis)
	require.NoError(t, a.Warm(ctx))

	resp, err := a.Chat.Respond(ctx, "Is PS11752778 compatible with my WDT780SAEM1?", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentCompatibility, resp.Intent)

	ticket, err := a.Tickets.CreateTicket(ctx, domain.TicketDraft{
		CustomerName: "Sam", CustomerEmail: "sam@example.com", IssueDescription: "broken",
	})
	require.NoError(t, err)
	assert.Equal(t, "ST-2024-10001", ticket.TicketNumber)
}

func TestCatalogSourceSelection(t *testing.T) {
	cfg := offlineConfig()
	cfg.Catalog = config.CatalogConfig{Source: config.CatalogSourceFile, Path: "/does/not/exist.yaml"}
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Error(t, a.Warm(context.Background()))
}
