package handlers

import (
	"errors"
	"strconv"
	"strings"

	"zencart/internal/services"
	"zencart/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	images  storage.ImageStore
}

// NewProductHandler creates a new ProductHandler. Uploaded images are kept in
// images; a nil store rejects uploads.
func NewProductHandler(service *services.ProductService, images storage.ImageStore) *ProductHandler {
	if images == nil {
		images = storage.URLStore{}
	}
	return &ProductHandler{service: service, images: images}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/categories", h.HandleGetCategories)
	productRoutes.Get("/details/:id", h.HandleGetProductByID)
	productRoutes.Get("/suggestions", h.HandleGetSuggestions)
	productRoutes.Post("/create", h.HandleCreateProduct)
	productRoutes.Put("/update/:id", h.HandleUpdateProduct)
	productRoutes.Put("/edit/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/delete/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists products, optionally filtered by ?category=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	list, err := h.service.ListProducts(c.UserContext(), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// HandleGetCategories lists the distinct categories.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleGetSuggestions returns products whose name contains ?query=.
func (h *ProductHandler) HandleGetSuggestions(c *fiber.Ctx) error {
	products, err := h.service.SuggestProducts(c.UserContext(), c.Query("query"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in, ok, err := h.parseInput(c)
	if !ok {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces every client-settable field of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	in, ok, err := h.parseInput(c)
	if !ok {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// parseInput decodes a product from a JSON or multipart body. When ok is
// false the response has already been written and err is the result of
// writing it.
func (h *ProductHandler) parseInput(c *fiber.Ctx) (in services.ProductInput, ok bool, err error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&in); err != nil {
			return in, false, badBody(c, err)
		}
		return in, true, nil
	}

	in = services.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Image:       c.FormValue("image"),
		Category:    c.FormValue("category"),
		Company:     c.FormValue("company"),
		Seller:      c.FormValue("seller"),
	}
	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, false, respondError(c, &services.ValidationError{
				Fields: map[string]string{"price": "price must be a number"},
			})
		}
		in.Price = price
	}

	file, err := c.FormFile("image")
	if err != nil {
		// No file part: the image field is a plain reference.
		return in, true, nil
	}
	// Rejected requests must leave no stored file behind.
	check := in
	check.Image = file.Filename
	if err := h.service.ValidateInput(check); err != nil {
		return in, false, respondError(c, err)
	}
	ref, err := h.images.Save(file)
	if errors.Is(err, storage.ErrUploadsDisabled) {
		return in, false, respondError(c, &services.ValidationError{
			Fields: map[string]string{"image": "image uploads are disabled, send an image URL"},
		})
	}
	if err != nil {
		return in, false, respondError(c, err)
	}
	in.Image = ref
	return in, true, nil
}
