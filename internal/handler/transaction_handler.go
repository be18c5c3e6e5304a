package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	location           *time.Location
	locale             string
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, location *time.Location, locale string) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		location:           location,
		locale:             locale,
	}
}

// MoneyResponse is an amount as a fixed-point string plus its display form
type MoneyResponse struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

func toMoneyResponse(m domain.Money, locale string) MoneyResponse {
	return MoneyResponse{
		Amount:    m.String(),
		Currency:  m.Currency(),
		Formatted: m.Format(locale),
	}
}

func toMoneyMap(groups map[string]domain.Money, locale string) map[string]MoneyResponse {
	out := make(map[string]MoneyResponse, len(groups))
	for k, m := range groups {
		out[k] = toMoneyResponse(m, locale)
	}
	return out
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	OccurredAt  *string `json:"occurredAt,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Amount      MoneyResponse `json:"amount"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	OccurredAt  string        `json:"occurredAt"`
}

func toTransactionResponse(tx *domain.Transaction, locale string) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      toMoneyResponse(tx.Amount, locale),
		Description: tx.Description,
		Category:    tx.Category.Name,
		OccurredAt:  tx.OccurredAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionResponses(txs []*domain.Transaction, locale string) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx, locale))
	}
	return out
}

// GetTransactions godoc
// @Summary List transactions
// @Description List the session's transactions within a period, most recent first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param period query string false "all, today, last_7_days, last_30_days, last_n_days, month, custom"
// @Param days query int false "Days for last_n_days"
// @Param start query string false "Custom start (YYYY-MM-DD)"
// @Param end query string false "Custom end (YYYY-MM-DD)"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	selection, verrs := parsePeriod(c, h.location)
	if verrs != nil {
		return NewValidationError(c, "Invalid period", verrs)
	}

	txs, err := h.transactionService.ListTransactions(c.Request().Context(), sessionKey, selection, time.Now())
	if err != nil {
		return respondError(c, err, "list transactions")
	}

	return c.JSON(http.StatusOK, toTransactionResponses(txs, h.locale))
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record a new income or expense on the finance API
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Key the finance API uses to drop duplicate submissions"
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	// Parse occurredAt if provided
	var occurredAt *time.Time
	if req.OccurredAt != nil && *req.OccurredAt != "" {
		parsed, err := parseBound(*req.OccurredAt, h.location, false)
		if err != nil {
			return NewValidationError(c, "Invalid occurredAt", []ValidationError{
				{Field: "occurredAt", Message: "Must be YYYY-MM-DD or RFC 3339"},
			})
		}
		occurredAt = parsed
	}

	input := service.CreateTransactionInput{
		Type:           domain.TransactionType(req.Type),
		Amount:         req.Amount,
		Description:    req.Description,
		Category:       req.Category,
		OccurredAt:     occurredAt,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	}

	tx, err := h.transactionService.CreateTransaction(c.Request().Context(), sessionKey, input)
	if err != nil {
		return respondError(c, err, "create transaction")
	}

	log.Info().Str("session", sessionKey).Str("transaction_id", tx.ID).Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(tx, h.locale))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 502 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	id := c.Param("id")
	if err := h.transactionService.DeleteTransaction(c.Request().Context(), sessionKey, id); err != nil {
		return respondError(c, err, "delete transaction")
	}

	log.Info().Str("session", sessionKey).Str("transaction_id", id).Msg("Transaction deleted")

	return c.NoContent(http.StatusNoContent)
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// GetCategories handles GET /api/v1/categories
func (h *TransactionHandler) GetCategories(c echo.Context) error {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return NewUnauthorizedError(c, "Session required")
	}

	categories, err := h.transactionService.ListCategories(c.Request().Context(), sessionKey)
	if err != nil {
		return respondError(c, err, "list categories")
	}

	response := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		response = append(response, CategoryResponse{ID: cat.ID, Name: cat.Name, Type: string(cat.Type)})
	}
	return c.JSON(http.StatusOK, response)
}
