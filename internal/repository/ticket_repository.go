package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// ErrTicketNotFound is returned when no ticket carries the requested number.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketFilter narrows ticket listings.
type TicketFilter struct {
	Status   domain.TicketStatus
	Priority domain.TicketPriority
	Email    string
	Limit    int
	Offset   int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) error
	GetByNumber(ctx context.Context, number string) (*domain.SupportTicket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.SupportTicket, error)
}

// memoryTicketRepository keeps tickets for the lifetime of the process. The
// number counter and the append happen under one lock, so numbers are unique
// and increase in creation order.
type memoryTicketRepository struct {
	mu       sync.RWMutex
	prefix   string
	next     int64
	tickets  []domain.SupportTicket
	byNumber map[string]int
}

// NewTicketRepository instantiates an in-memory repository numbering tickets
// "<prefix>-<n>" starting at start.
func NewTicketRepository(prefix string, start int64) TicketRepository {
	return &memoryTicketRepository{
		prefix:   prefix,
		next:     start,
		byNumber: make(map[string]int),
	}
}

// Create assigns the next ticket number and stores a copy of ticket.
func (r *memoryTicketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ticket.TicketNumber = fmt.Sprintf("%s-%d", r.prefix, r.next)
	r.next++

	stored := *ticket
	stored.StepsAlreadyTried = append([]string(nil), ticket.StepsAlreadyTried...)
	r.byNumber[strings.ToUpper(stored.TicketNumber)] = len(r.tickets)
	r.tickets = append(r.tickets, stored)
	return nil
}

func (r *memoryTicketRepository) GetByNumber(_ context.Context, number string) (*domain.SupportTicket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byNumber[strings.ToUpper(strings.TrimSpace(number))]
	if !ok {
		return nil, ErrTicketNotFound
	}
	ticket := r.tickets[idx]
	return &ticket, nil
}

func (r *memoryTicketRepository) List(_ context.Context, filter TicketFilter) ([]domain.SupportTicket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.SupportTicket, 0, len(r.tickets))
	for _, t := range r.tickets {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.Email != "" && !strings.EqualFold(t.CustomerEmail, filter.Email) {
			continue
		}
		results = append(results, t)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return []domain.SupportTicket{}, nil
		}
		results = results[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}
	return results, nil
}
