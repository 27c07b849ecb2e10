package rentlens

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminController exposes the moderation surface. The guard middleware keeps
// non-admins out of the /admin prefix; handlers only translate HTTP to
// AdminService calls.
type AdminController struct {
	Logger  Logger
	Service *AdminService
	Repo    RepositoryManager
}

func NewAdminController(service *AdminService, repo RepositoryManager) *AdminController {
	if service == nil || repo == nil {
		panic("Missing AdminService or RepositoryManager in admin controller...")
	}

	return &AdminController{
		Logger:  defLogger{},
		Service: service,
		Repo:    repo,
	}
}

// RegisterAdminRoutes mounts the moderation endpoints under /admin.
func RegisterAdminRoutes(app *fiber.App, service *AdminService, repo RepositoryManager) *AdminController {
	controller := NewAdminController(service, repo)

	grp := app.Group("/admin")
	grp.Post("/users/:id/ban", controller.BanUserPost).Name("admin.ban.post")
	grp.Post("/users/:id/unban", controller.UnbanUserPost).Name("admin.unban.post")
	grp.Get("/reports", controller.ReportsGet).Name("admin.reports.get")
	grp.Post("/reports/:id/resolve", controller.ResolveReportPost).Name("admin.resolve.post")
	grp.Post("/reports/:id/dismiss", controller.DismissReportPost).Name("admin.dismiss.post")

	return controller
}

// BanRequest payload
type BanRequest struct {
	Reason string `form:"reason" json:"reason"`
}

// Validate will run validation rules
func (r BanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.Length(1, 500)),
	)
}

func (a *AdminController) BanUserPost(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid user id"})
	}

	payload := new(BanRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}

	result := a.Service.BanUser(c.Context(), id, payload.Reason)
	if !result.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}

	return c.JSON(result)
}

func (a *AdminController) UnbanUserPost(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid user id"})
	}

	result := a.Service.UnbanUser(c.Context(), id)
	if !result.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}

	return c.JSON(result)
}

func (a *AdminController) ReportsGet(c *fiber.Ctx) error {
	records, err := a.Repo.Reports().ListOpen(c.Context())
	if err != nil {
		a.Logger.Error("list open reports: %v", err)
		return renderError(c, err)
	}

	return c.JSON(fiber.Map{"reports": records})
}

// ResolutionRequest payload
type ResolutionRequest struct {
	Resolution string `form:"resolution" json:"resolution"`
}

// Validate will run validation rules
func (r ResolutionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Resolution, validation.Required, validation.Length(1, 1000)),
	)
}

func (a *AdminController) ResolveReportPost(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid report id"})
	}

	payload := new(ResolutionRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}

	result := a.Service.ResolveReport(c.Context(), id, payload.Resolution)
	if !result.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}

	return c.JSON(result)
}

func (a *AdminController) DismissReportPost(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid report id"})
	}

	result := a.Service.DismissReport(c.Context(), id)
	if !result.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}

	return c.JSON(result)
}
