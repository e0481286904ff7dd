package balance

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tally-ledger/tally/internal/forecast"
	"github.com/tally-ledger/tally/internal/ledger"
)

// Handler exposes the balance endpoint.
type Handler struct {
	service *Service
}

// NewHandler builds a balance HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get computes the balance of an account over the from/to window.
func (h *Handler) Get(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid account id")
	}
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "from must be an RFC 3339 timestamp")
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "to must be an RFC 3339 timestamp")
	}

	res, err := h.service.Calculate(c.UserContext(), Query{AccountID: accountID, From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrAccountNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidTimestampRange), errors.Is(err, forecast.ErrEmptyHistory):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"account_id": res.AccountID,
		"balance":    res.Balance,
		"source":     res.Source,
	})
}
