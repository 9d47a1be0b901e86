package handlers

import (
	"bank/internal/services/transfer"
	"bank/internal/utils"
	"bank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardPath is where clients are sent after a committed transfer.
const DashboardPath = "/clientDashboard"

// TransferHandler exposes the transfer submission endpoint.
type TransferHandler struct {
	service transfer.Service
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(s transfer.Service) *TransferHandler { return &TransferHandler{service: s} }

// transferForm keeps every field as a string so the service sees exactly
// what the client sent.
type transferForm struct {
	Amount       string `json:"amount" form:"amount"`
	TransCode    string `json:"transcode" form:"transcode"`
	ToAccountNum string `json:"toAccountNum" form:"toAccountNum"`
}

// Submit handles POST /api/transactions requests.
func (h *TransferHandler) Submit(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var form transferForm
	if err := c.BodyParser(&form); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	res, err := h.service.SubmitTransfer(c.UserContext(), userID, form.Amount, form.TransCode, form.ToAccountNum)
	if err != nil {
		return writeError(c, err)
	}

	return response.Created(c, fiber.Map{
		"transaction_id": res.TransactionID,
		"reference":      res.Reference,
		"status":         res.Status,
		"redirect":       DashboardPath,
	})
}
