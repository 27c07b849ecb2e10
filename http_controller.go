package rentlens

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

// AuthController exposes the auth lifecycle over HTTP. Every handler
// delegates to the machine; the controller never mutates state itself.
type AuthController struct {
	Logger  Logger
	Machine *Machine
	Routes  *AuthControllerRoutes
}

type AuthControllerRoutes struct {
	Login    string
	Logout   string
	Register string
	Me       string
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func NewAuthController(machine *Machine, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:  defLogger{},
		Machine: machine,
		Routes: &AuthControllerRoutes{
			Login:    "/auth/login",
			Logout:   "/auth/logout",
			Register: "/auth/register",
			Me:       "/auth/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Machine == nil {
		panic("Missing Machine in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the auth endpoints on the app.
func RegisterAuthRoutes(app *fiber.App, machine *Machine, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(machine, opts...)

	app.Post(controller.Routes.Login, controller.LoginPost).Name("sign-in.post")
	app.Post(controller.Routes.Logout, controller.LogoutPost).Name("sign-out.post")
	app.Post(controller.Routes.Register, controller.RegisterPost).Name("register.post")
	app.Get(controller.Routes.Me, controller.MeGet).Name("me.get")

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: err.Error(),
		})
	}

	if err := a.Machine.SignIn(c.Context(), payload.Identifier, payload.Password); err != nil {
		a.Logger.Warn("sign-in failed for %s: %v", payload.Identifier, err)
		return renderError(c, err)
	}

	return a.MeGet(c)
}

func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	if err := a.Machine.SignOut(c.Context()); err != nil {
		a.Logger.Warn("sign-out: %v", err)
	}

	return c.JSON(fiber.Map{"signed_out": true})
}

// RegisterRequest payload
type RegisterRequest struct {
	DisplayName string `form:"display_name" json:"display_name"`
	Username    string `form:"username" json:"username"`
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 100)),
	)
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: "failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: err.Error(),
		})
	}

	msg := RegisterUserMessage{
		DisplayName: payload.DisplayName,
		Username:    payload.Username,
		Email:       payload.Email,
		Password:    payload.Password,
	}

	if err := a.Machine.SignUp(c.Context(), msg); err != nil {
		if IsConfirmationRequired(err) {
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"registered":            true,
				"confirmation_required": true,
			})
		}
		a.Logger.Warn("registration failed for %s: %v", payload.Email, err)
		return renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"registered": true,
	})
}

func (a *AuthController) MeGet(c *fiber.Ctx) error {
	state := a.Machine.CurrentState()

	user, ok := state.User()
	if !ok {
		return renderError(c, ErrSessionNotFound)
	}

	return c.JSON(fiber.Map{
		"id":           user.ID(),
		"username":     user.Username(),
		"email":        user.Email(),
		"display_name": user.DisplayName(),
		"role":         user.Role(),
		"created_at":   user.CreatedAt(),
	})
}
