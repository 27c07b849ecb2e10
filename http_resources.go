package rentlens

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ResourceController serves the user-facing marketplace reads and the
// payment-proof upload. Every user-scoped query is filtered by the current
// identity before it reaches the repository.
type ResourceController struct {
	Logger  Logger
	Machine *Machine
	Repo    RepositoryManager
	Buckets *BucketClient
}

func NewResourceController(machine *Machine, repo RepositoryManager, buckets *BucketClient) *ResourceController {
	if machine == nil || repo == nil {
		panic("Missing Machine or RepositoryManager in resource controller...")
	}

	return &ResourceController{
		Logger:  defLogger{},
		Machine: machine,
		Repo:    repo,
		Buckets: buckets,
	}
}

// RegisterResourceRoutes mounts the marketplace endpoints.
func RegisterResourceRoutes(app *fiber.App, machine *Machine, repo RepositoryManager, buckets *BucketClient) *ResourceController {
	controller := NewResourceController(machine, repo, buckets)

	grp := app.Group("/home")
	grp.Get("/products", controller.ProductsGet).Name("products.get")
	grp.Get("/listings", controller.MyListingsGet).Name("listings.get")
	grp.Get("/bookings", controller.MyBookingsGet).Name("bookings.get")
	grp.Post("/bookings/:id/proof", controller.PaymentProofPost).Name("bookings.proof.post")

	return controller
}

func (a *ResourceController) ProductsGet(c *fiber.Ctx) error {
	records, err := a.Repo.Products().ListListed(c.Context())
	if err != nil {
		a.Logger.Error("list products: %v", err)
		return renderError(c, err)
	}

	return c.JSON(fiber.Map{"products": records})
}

func (a *ResourceController) MyListingsGet(c *fiber.Ctx) error {
	ownerID, err := a.currentUser()
	if err != nil {
		return renderError(c, err)
	}

	records, err := a.Repo.Products().ListByOwner(c.Context(), ownerID)
	if err != nil {
		a.Logger.Error("list listings for %s: %v", ownerID, err)
		return renderError(c, err)
	}

	return c.JSON(fiber.Map{"products": records})
}

func (a *ResourceController) MyBookingsGet(c *fiber.Ctx) error {
	renterID, err := a.currentUser()
	if err != nil {
		return renderError(c, err)
	}

	records, err := a.Repo.Bookings().ListByRenter(c.Context(), renterID)
	if err != nil {
		a.Logger.Error("list bookings for %s: %v", renterID, err)
		return renderError(c, err)
	}

	return c.JSON(fiber.Map{"bookings": records})
}

// PaymentProofPost uploads the proof image and attaches its public URL to the
// booking. Only the renter who owns the booking may attach a proof.
func (a *ResourceController) PaymentProofPost(c *fiber.Ctx) error {
	renterID, err := a.currentUser()
	if err != nil {
		return renderError(c, err)
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid booking id"})
	}

	booking, err := a.Repo.Bookings().GetByID(c.Context(), bookingID.String())
	if err != nil {
		return renderError(c, err)
	}

	if booking.RenterID != renterID {
		return c.Status(fiber.StatusForbidden).JSON(errorResponse{Error: "booking belongs to another user"})
	}

	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "proof image is required"})
	}

	objectPath := fmt.Sprintf("%s/%d", bookingID, time.Now().UnixNano())
	proofURL, err := a.Buckets.Upload(c.Context(), BucketPaymentProofs, objectPath, c.Get(fiber.HeaderContentType), body)
	if err != nil {
		a.Logger.Error("upload payment proof for %s: %v", bookingID, err)
		return renderError(c, err)
	}

	updated, err := a.Repo.Bookings().AttachPaymentProof(c.Context(), bookingID, proofURL)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(fiber.Map{"booking": updated})
}

func (a *ResourceController) currentUser() (uuid.UUID, error) {
	state := a.Machine.CurrentState()

	user, ok := state.User()
	if !ok {
		return uuid.Nil, ErrSessionNotFound
	}

	id, err := uuid.Parse(user.ID())
	if err != nil {
		return uuid.Nil, ErrSessionNotFound
	}

	return id, nil
}
