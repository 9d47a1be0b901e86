package handlers

import (
	"context"
	"errors"
	"strconv"

	"bank/internal/models"
	"bank/internal/repositories"
	"bank/internal/services/account"
	"bank/internal/utils"
	"bank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TransactionReader lists a user's transfer records.
type TransactionReader interface {
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}

// AccountHandler serves the authenticated user's account views.
type AccountHandler struct {
	accounts     account.Service
	transactions TransactionReader
	log          *zap.Logger
}

func NewAccountHandler(accounts account.Service, transactions TransactionReader, log *zap.Logger) *AccountHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountHandler{accounts: accounts, transactions: transactions, log: log}
}

// GetAccount handles GET /api/account.
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	acc, err := h.accounts.GetAccount(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return response.Error(c, fiber.StatusNotFound, "account not found")
		}
		h.log.Error("failed to load account", zap.Uint("user_id", userID), zap.Error(err))
		return response.ServerError(c, "failed to load account")
	}

	return c.JSON(fiber.Map{
		"account_id": acc.ID,
		"balance":    acc.Balance.StringFixed(2),
	})
}

// ListTransactions handles GET /api/transactions?limit=&offset=.
func (h *AccountHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	limit := c.QueryInt("limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	txs, err := h.transactions.ListByUser(c.UserContext(), userID, limit, offset)
	if err != nil {
		h.log.Error("failed to list transactions", zap.Uint("user_id", userID), zap.Error(err))
		return response.ServerError(c, "failed to list transactions")
	}
	return response.Success(c, "transactions", fiber.Map{
		"items":  txs,
		"limit":  limit,
		"offset": offset,
	})
}

// GetTransaction handles GET /api/transactions/:id. Records of other users
// are reported as missing.
func (h *AccountHandler) GetTransaction(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	return h.renderTransaction(c, func(tx *models.Transaction) bool {
		return tx.UserID == userID
	})
}

// GetAnyTransaction handles GET /api/admin/transactions/:id for staff.
func (h *AccountHandler) GetAnyTransaction(c *fiber.Ctx) error {
	return h.renderTransaction(c, nil)
}

func (h *AccountHandler) renderTransaction(c *fiber.Ctx, visible func(*models.Transaction) bool) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return response.BadRequest(c, "invalid transaction id")
	}

	tx, err := h.transactions.GetByID(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return response.Error(c, fiber.StatusNotFound, "transaction not found")
		}
		h.log.Error("failed to load transaction", zap.Uint64("transaction_id", id), zap.Error(err))
		return response.ServerError(c, "failed to load transaction")
	}
	if visible != nil && !visible(tx) {
		return response.Error(c, fiber.StatusNotFound, "transaction not found")
	}
	return response.Success(c, "transaction", tx)
}
