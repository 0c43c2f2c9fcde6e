// Package payment exposes the payment flow over HTTP. The GET /pay route
// is the server-side twin of the mobile deep-link listener: the banking
// app calls back into it with the token and transaction id.
package payment

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/pkg/deeplink"
	"github.com/laokitchen/payflow/pkg/middleware"
	paymentsvc "github.com/laokitchen/payflow/pkg/service/payment"
	"github.com/laokitchen/payflow/webapi/common"
)

// Routes registers HTTP routes for payment operations.
func Routes(
	app *fiber.App,
	svc *paymentsvc.Service,
	cfg *config.App,
) {
	app.Post("/payments", middleware.JwtProtected(cfg.Auth.Jwt), Initiate(svc))
	app.Post("/payments/:id/redirected", middleware.JwtProtected(cfg.Auth.Jwt), Redirected(svc))
	app.Get("/payments/:id", middleware.JwtProtected(cfg.Auth.Jwt), GetPayment(svc))
	// Unprotected: the banking app holds no user JWT.
	app.Get("/pay", Callback(svc))
}

// Initiate returns a Fiber handler that starts a new payment attempt.
// @Summary Initiate a payment
// @Description Creates a transaction, obtains a gateway session and returns the banking-app redirect URL.
// @Tags payment
// @Accept json
// @Produce json
// @Success 201 {object} common.Response "Payment flow created"
// @Failure 400 {object} common.ProblemDetails "Invalid amount"
// @Failure 502 {object} common.ProblemDetails "Gateway setup failed"
// @Router /payments [post]
// @Security Bearer
func Initiate(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := common.BindAndValidate[InitiateRequest](c)
		if err != nil {
			return nil
		}

		flow, err := svc.Begin(c.Context(), paymentsvc.BeginParams{
			Amount:   req.Amount,
			Category: req.Category,
		})
		if err != nil {
			log.Errorf("Failed to initiate payment: %v", err)
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to initiate payment", err.Error())
		}

		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Payment flow created", flowDTO(flow))
	}
}

// Redirected returns a Fiber handler recording the banking-app hand-off.
// When the app could not be opened, the platform store URL is returned and
// the flow stays READY with no polling.
// @Summary Report the banking-app hand-off result
// @Tags payment
// @Accept json
// @Produce json
// @Success 200 {object} common.Response "Hand-off recorded"
// @Failure 404 {object} common.ProblemDetails "Unknown transaction"
// @Failure 409 {object} common.ProblemDetails "Flow not ready"
// @Router /payments/{id}/redirected [post]
// @Security Bearer
func Redirected(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		flow, ok := svc.Flow(c.Params("id"))
		if !ok {
			return common.ErrorResponseJSON(c,
				fiber.StatusNotFound, "Unknown transaction", c.Params("id"))
		}

		req, err := common.BindAndValidate[RedirectedRequest](c)
		if err != nil {
			return nil
		}

		if !*req.Opened {
			dto := flowDTO(flow)
			dto.StoreURL = flow.StoreURL(req.Platform)
			return common.SuccessResponseJSON(c,
				fiber.StatusOK, "Banking app not installed", dto)
		}

		if err := flow.MarkRedirected(); err != nil {
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to record redirect", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Awaiting result", flowDTO(flow))
	}
}

// Callback returns a Fiber handler for the banking-app deep-link callback.
// The inbound URL is parsed exactly like the mobile deep-link event; links
// with an unrecognized path are ignored.
// @Summary Banking app payment callback
// @Tags payment
// @Produce json
// @Success 200 {object} common.Response "Callback processed"
// @Failure 404 {object} common.ProblemDetails "Unknown transaction"
// @Router /pay [get]
func Callback(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		link, err := deeplink.Parse(strings.TrimPrefix(c.OriginalURL(), "/"))
		if err != nil {
			if errors.Is(err, deeplink.ErrNotApplicable) {
				return common.SuccessResponseJSON(c, fiber.StatusOK, "Ignored", nil)
			}
			return common.ErrorResponseJSON(c,
				fiber.StatusBadRequest, "Invalid callback", err.Error())
		}

		if err := svc.HandleDeepLink(c.Context(), link); err != nil {
			log.Errorf("Failed to process payment callback: %v", err)
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to process callback", err.Error())
		}

		var data *FlowDTO
		if id := link.Params[deeplink.ParamTransactionID]; id != "" {
			if flow, ok := svc.Flow(id); ok {
				data = flowDTO(flow)
			}
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Callback processed", data)
	}
}

// GetPayment returns a Fiber handler reading the current flow state.
// @Summary Get payment state
// @Tags payment
// @Produce json
// @Success 200 {object} common.Response "Payment state"
// @Failure 404 {object} common.ProblemDetails "Unknown transaction"
// @Router /payments/{id} [get]
// @Security Bearer
func GetPayment(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		flow, ok := svc.Flow(c.Params("id"))
		if !ok {
			return common.ErrorResponseJSON(c,
				fiber.StatusNotFound, "Unknown transaction", c.Params("id"))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment state", flowDTO(flow))
	}
}

func flowDTO(flow *paymentsvc.Flow) *FlowDTO {
	dto := &FlowDTO{
		TransactionID: flow.ID(),
		State:         flow.State(),
		RedirectURL:   flow.RedirectURL(),
	}
	if result := flow.Result(); result != nil {
		dto.Status = result.Status
		dto.Amount = result.DisplayAmount
		dto.Currency = result.Currency
		dto.Recipient = result.Recipient
		dto.FinishedAt = result.FinishedAt
	}
	return dto
}
