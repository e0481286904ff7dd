package accounts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/ledger"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Currency      string          `json:"currency"`
}

type accountResponse struct {
	ID        int64           `json:"id"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// Create opens an account.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	account, err := h.service.Add(c.UserContext(), CreateInput{
		FullName:      req.FullName,
		Email:         req.Email,
		InitialAmount: req.InitialAmount,
		Currency:      req.Currency,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAccount) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"account_id": account.ID})
}

// Get returns the account snapshot.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid account id")
	}
	account, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(accountResponse{
		ID:        account.ID,
		FullName:  account.FullName,
		Email:     account.Email,
		Balance:   account.Balance,
		Currency:  account.Currency,
		CreatedAt: account.CreatedAt,
	})
}
