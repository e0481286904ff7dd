package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tally-ledger/tally/internal/transactions"
)

// RegisterTransactionRoutes wires the posting endpoint behind the optional
// guards.
func RegisterTransactionRoutes(r fiber.Router, h *transactions.Handler, guards ...fiber.Handler) {
	handlers := append(guards, h.Add)
	r.Post("/transactions/:accountId", handlers...)
}
