package rentlens

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// GuardMiddleware applies guard decisions as HTTP redirects. It is the
// server-side twin of the client guard: every request is re-evaluated against
// the current auth state, and the decision depends on nothing else.
func GuardMiddleware(machine *Machine, routes GuardRoutes) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route := routes.ParseRoute(c.Path())

		if redirect := routes.Decide(machine.CurrentState(), route); redirect != nil {
			return c.Redirect(redirect.Target, fiber.StatusSeeOther)
		}

		return c.Next()
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func renderError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := ""

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		code = richErr.TextCode
		if richErr.Code > 0 {
			status = richErr.Code
		} else {
			switch richErr.Category {
			case goerrors.CategoryValidation, goerrors.CategoryBadInput:
				status = fiber.StatusBadRequest
			case goerrors.CategoryAuth:
				status = fiber.StatusUnauthorized
			case goerrors.CategoryAuthz:
				status = fiber.StatusForbidden
			case goerrors.CategoryNotFound:
				status = fiber.StatusNotFound
			case goerrors.CategoryConflict:
				status = fiber.StatusConflict
			case goerrors.CategoryRateLimit:
				status = fiber.StatusTooManyRequests
			}
		}
	}

	return c.Status(status).JSON(errorResponse{
		Error: errorMessage(err),
		Code:  code,
	})
}
