package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TransactionService lists, records and removes transactions on the finance API
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	snapshots       *SnapshotService
	periods         *PeriodFilter
	currency        string
	locale          string
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	snapshots *SnapshotService,
	periods *PeriodFilter,
	currency, locale string,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		snapshots:       snapshots,
		periods:         periods,
		currency:        currency,
		locale:          locale,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(sessionKey string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(sessionKey, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction.
// Amount accepts plain decimals ("1234.50") as well as locale formatting ("R$ 1.234,50").
type CreateTransactionInput struct {
	Type           domain.TransactionType
	Amount         string
	Description    string
	Category       string
	OccurredAt     *time.Time
	IdempotencyKey string
}

// ListTransactions returns the session's transactions within the period, most recent first
func (s *TransactionService) ListTransactions(ctx context.Context, sessionKey string, selection domain.PeriodSelection, now time.Time) ([]*domain.Transaction, error) {
	r, err := s.periods.Resolve(selection, now)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	filtered := FilterByPeriod(snap.Transactions, r)
	return RecentN(filtered, len(filtered)), nil
}

// ListCategories returns the distinct categories seen in the session's
// transactions, one per name and type, ordered by type then name
func (s *TransactionService) ListCategories(ctx context.Context, sessionKey string) ([]domain.Category, error) {
	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	type key struct {
		name string
		typ  domain.TransactionType
	}
	seen := make(map[key]struct{})
	categories := make([]domain.Category, 0)

	for _, tx := range snap.Transactions {
		typ := tx.Category.Type
		if typ == "" {
			typ = tx.Type
		}
		k := key{name: tx.Category.Name, typ: typ}
		if _, ok := seen[k]; ok || k.name == "" {
			continue
		}
		seen[k] = struct{}{}
		categories = append(categories, domain.Category{ID: tx.Category.ID, Name: k.name, Type: typ})
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Type != categories[j].Type {
			return categories[i].Type < categories[j].Type
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// CreateTransaction validates the input, submits it and replaces the session's snapshot
func (s *TransactionService) CreateTransaction(ctx context.Context, sessionKey string, input CreateTransactionInput) (*domain.Transaction, error) {
	draft, err := s.validate(ctx, sessionKey, input)
	if err != nil {
		return nil, err
	}

	tx, err := s.transactionRepo.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.refreshAfterMutation(ctx, sessionKey)
	s.publishEvent(sessionKey, websocket.TransactionCreated(tx))

	return tx, nil
}

// DeleteTransaction removes a transaction and replaces the session's snapshot
func (s *TransactionService) DeleteTransaction(ctx context.Context, sessionKey string, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrTransactionNotFound
	}

	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.refreshAfterMutation(ctx, sessionKey)
	s.publishEvent(sessionKey, websocket.TransactionDeleted(id))

	return nil
}

// refreshAfterMutation replaces the snapshot; on failure the snapshot is
// dropped so the next read refetches instead of serving pre-mutation data
func (s *TransactionService) refreshAfterMutation(ctx context.Context, sessionKey string) {
	if _, err := s.snapshots.Refresh(ctx, sessionKey); err != nil {
		log.Warn().Err(err).Str("session", sessionKey).Msg("Snapshot refresh after mutation failed")
		s.snapshots.Invalidate(sessionKey)
	}
}

func (s *TransactionService) validate(ctx context.Context, sessionKey string, input CreateTransactionInput) (*domain.TransactionDraft, error) {
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	category := strings.TrimSpace(input.Category)
	if category == "" || len(category) > domain.MaxCategoryNameLength {
		return nil, domain.ErrCategoryRequired
	}

	amount, err := s.parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategoryType(ctx, sessionKey, category, input.Type); err != nil {
		return nil, err
	}

	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	var occurredAt *time.Time
	if input.OccurredAt != nil {
		t := input.OccurredAt.UTC()
		occurredAt = &t
	}

	return &domain.TransactionDraft{
		Type:           input.Type,
		Amount:         amount,
		Description:    description,
		Category:       domain.Category{Name: category},
		OccurredAt:     occurredAt,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// parseAmount accepts a plain decimal first and falls back to the configured locale
func (s *TransactionService) parseAmount(raw string) (domain.Money, error) {
	amount, err := domain.ParsePositiveMoney(raw, s.currency)
	if err == nil {
		return amount, nil
	}

	formatted, ferr := domain.ParseFormatted(raw, s.locale, s.currency)
	if ferr != nil {
		return domain.Money{}, err
	}
	if !formatted.IsPositive() {
		return domain.Money{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	return formatted, nil
}

// checkCategoryType rejects a category the finance API has declared for the other type.
// An unavailable snapshot does not block the submission; the API validates again.
func (s *TransactionService) checkCategoryType(ctx context.Context, sessionKey, category string, txType domain.TransactionType) error {
	snap, err := s.snapshots.Current(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
		log.Debug().Err(err).Msg("Skipping category type check")
		return nil
	}

	for _, tx := range snap.Transactions {
		if strings.EqualFold(tx.Category.Name, category) && !tx.Category.Accepts(txType) {
			return fmt.Errorf("%w: %s is a %s category", domain.ErrCategoryTypeMismatch, tx.Category.Name, tx.Category.Type)
		}
	}
	return nil
}
