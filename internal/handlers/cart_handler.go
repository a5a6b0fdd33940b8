package handlers

import (
	"zencart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles cart updates.
type CartHandler struct {
	userService *services.UserService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(userService *services.UserService) *CartHandler {
	return &CartHandler{userService: userService}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/cart/:userId/add", h.HandleAddToCart)
}

// HandleAddToCart adds a product to a user's cart and returns the user.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var in services.CartItemInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}

	user, err := h.userService.AddToCart(c.UserContext(), c.Params("userId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product added to cart",
		"user":    user,
	})
}
