package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tally-ledger/tally/internal/accounts"
	"github.com/tally-ledger/tally/internal/balance"
)

// RegisterAccountRoutes wires account and balance endpoints.
func RegisterAccountRoutes(r fiber.Router, h *accounts.Handler, balances *balance.Handler) {
	r.Post("/accounts", h.Create)
	r.Get("/accounts/:accountId", h.Get)
	r.Get("/accounts/:accountId/balance", balances.Get)
}
