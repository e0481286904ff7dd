package transactions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/ledger"
)

// Handler exposes transaction endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transaction handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	VendorID  string          `json:"vendor_id"`
	Type      string          `json:"type"`
}

// Add posts a transaction against the account in the path.
func (h *Handler) Add(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid account id")
	}
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	direction, err := ledger.ParseDirection(req.Direction)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Add(c.UserContext(), AddInput{
		AccountID: accountID,
		Amount:    req.Amount,
		Direction: direction,
		VendorID:  req.VendorID,
		Type:      req.Type,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrAccountNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ledger.ErrInsufficientFunds),
			errors.Is(err, ledger.ErrInvalidAmount),
			errors.Is(err, ledger.ErrInvalidDirection):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id": res.Transaction.ID,
		"account_id":     res.Transaction.AccountID,
		"direction":      res.Transaction.Direction,
		"amount":         res.Transaction.Amount,
		"type":           res.Transaction.Type,
		"balance":        res.Balance,
		"created_at":     res.Transaction.CreatedAt,
	})
}
