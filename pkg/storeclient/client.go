// Package storeclient is a typed HTTP client for the storefront API.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"zencart/internal/models"
	"zencart/internal/services"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("storefront API returned status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Image is a file to upload with a product form.
type Image struct {
	Filename string
	Body     io.Reader
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Client calls the storefront API. The zero value is not usable; create
// one with New.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	token      string
}

// New creates a Client for the API served at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of c that authenticates as the holder of token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// ListProducts returns every product, or those in category when it is set.
func (c *Client) ListProducts(ctx context.Context, category string) (*services.ProductList, error) {
	path := "/products"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var list services.ProductList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Categories returns each category with a representative image.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ProductDetails fetches one product.
func (c *Client) ProductDetails(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/details/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Suggestions returns products whose name contains query.
func (c *Client) Suggestions(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products/suggestions?query="+url.QueryEscape(query), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct creates a product from a JSON body.
func (c *Client) CreateProduct(ctx context.Context, in services.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPost, "/products/create", in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product from a JSON body.
func (c *Client) UpdateProduct(ctx context.Context, id string, in services.ProductInput) (*models.Product, error) {
	var resp struct {
		Product models.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPut, "/products/update/"+url.PathEscape(id), in, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// CreateProductWithImage creates a product from a multipart form carrying
// the image file.
func (c *Client) CreateProductWithImage(ctx context.Context, in services.ProductInput, image Image) (*models.Product, error) {
	var product models.Product
	if err := c.doForm(ctx, http.MethodPost, "/products/create", in, image, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// EditProductWithImage replaces a product from a multipart form carrying
// the new image file.
func (c *Client) EditProductWithImage(ctx context.Context, id string, in services.ProductInput, image Image) (*models.Product, error) {
	var resp struct {
		Product models.Product `json:"product"`
	}
	if err := c.doForm(ctx, http.MethodPut, "/products/edit/"+url.PathEscape(id), in, image, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/delete/"+url.PathEscape(id), nil, nil)
}

// Register signs a new user up.
func (c *Client) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/register", in, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login exchanges credentials for a token and the user record.
func (c *Client) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	body := map[string]string{"login": login, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UserDetails fetches a user with their cart.
func (c *Client) UserDetails(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/details/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AddToCart adds quantity units of a product to the user's cart and returns
// the updated user.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int) (*models.User, error) {
	body := services.CartItemInput{ProductID: productID, Quantity: quantity}
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/cart/"+url.PathEscape(userID)+"/add", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CreateOrder places an order. The client must carry a token.
func (c *Client) CreateOrder(ctx context.Context, req services.OrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders lists the token holder's orders.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) doForm(ctx context.Context, method, path string, in services.ProductInput, image Image, out interface{}) error {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := [][2]string{
		{"name", in.Name},
		{"description", in.Description},
		{"price", strconv.FormatFloat(in.Price, 'f', -1, 64)},
		{"category", in.Category},
		{"company", in.Company},
		{"seller", in.Seller},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("failed to encode form: %w", err)
		}
	}
	part, err := w.CreateFormFile("image", image.Filename)
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	if _, err := io.Copy(part, image.Body); err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call storefront API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil {
			apiErr.Message = body.Message
			apiErr.Fields = body.Errors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
