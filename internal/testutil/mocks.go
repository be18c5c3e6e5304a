package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/websocket"
)

// MockTransactionRepository is an in-memory domain.TransactionRepository.
// It is safe for concurrent use since snapshot fetches run in parallel.
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []*domain.Transaction
	Drafts       []*domain.TransactionDraft
	Tokens       []string
	NextID       int
	ListCalls    int
	ListFn       func(ctx context.Context, start, end *time.Time) ([]*domain.Transaction, error)
	CreateFn     func(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error)
	DeleteFn     func(ctx context.Context, id string) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make([]*domain.Transaction, 0),
		NextID:       1,
	}
}

// AddTransaction seeds a transaction
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions = append(m.Transactions, tx)
}

// List returns the seeded transactions within [start, end]
func (m *MockTransactionRepository) List(ctx context.Context, start, end *time.Time) ([]*domain.Transaction, error) {
	m.mu.Lock()
	m.ListCalls++
	m.Tokens = append(m.Tokens, domain.TokenFromContext(ctx))
	fn := m.ListFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, start, end)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Transaction, 0, len(m.Transactions))
	for _, tx := range m.Transactions {
		if start != nil && tx.OccurredAt.Before(*start) {
			continue
		}
		if end != nil && tx.OccurredAt.After(*end) {
			continue
		}
		result = append(result, tx)
	}
	return result, nil
}

// Create stores a transaction built from the draft
func (m *MockTransactionRepository) Create(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	occurredAt := time.Now().UTC()
	if draft.OccurredAt != nil {
		occurredAt = *draft.OccurredAt
	}

	tx := &domain.Transaction{
		ID:          fmt.Sprintf("%d", m.NextID),
		Type:        draft.Type,
		Amount:      draft.Amount,
		Description: draft.Description,
		Category:    draft.Category,
		OccurredAt:  occurredAt,
	}
	m.NextID++
	m.Drafts = append(m.Drafts, draft)
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// Delete removes a transaction by id
func (m *MockTransactionRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, tx := range m.Transactions {
		if tx.ID == id {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

// ListCallCount returns how many times List was called
func (m *MockTransactionRepository) ListCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls
}

// MockInvestmentRepository is an in-memory domain.InvestmentRepository
type MockInvestmentRepository struct {
	mu          sync.Mutex
	Investments []*domain.Investment
	ListFn      func(ctx context.Context) ([]*domain.Investment, error)
}

// NewMockInvestmentRepository creates a new MockInvestmentRepository
func NewMockInvestmentRepository() *MockInvestmentRepository {
	return &MockInvestmentRepository{
		Investments: make([]*domain.Investment, 0),
	}
}

// AddInvestment seeds an investment
func (m *MockInvestmentRepository) AddInvestment(inv *domain.Investment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Investments = append(m.Investments, inv)
}

// List returns the seeded investments
func (m *MockInvestmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Investment(nil), m.Investments...), nil
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	SessionKey string
	Event      websocket.Event
}

// MockEventPublisher records published events and closed sessions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
	Closed []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(sessionKey string, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{SessionKey: sessionKey, Event: event})
}

// Types returns the published event types in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}

// CloseSession records the session and its final event
func (m *MockEventPublisher) CloseSession(sessionKey string, final websocket.Event) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = append(m.Closed, PublishedEvent{SessionKey: sessionKey, Event: final})
	return 0
}

// ClosedSessions returns the closed session keys in order
func (m *MockEventPublisher) ClosedSessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Closed))
	for _, c := range m.Closed {
		keys = append(keys, c.SessionKey)
	}
	return keys
}
