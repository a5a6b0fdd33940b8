// Package storefront holds the view logic of the shop front end: what each
// screen loads, how it groups and prices products and how forms are
// submitted. Rendering is left to the caller.
package storefront

import (
	"context"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"

	"zencart/internal/models"
	"zencart/internal/pricing"
	"zencart/internal/services"
	"zencart/pkg/storeclient"
)

// ErrNotLoggedIn is returned by actions that need a signed-in user.
var ErrNotLoggedIn = errors.New("please log in first")

// OtherGroup collects products that have no value for the grouping field.
const OtherGroup = "Other"

// Storefront drives the screens for one visitor.
type Storefront struct {
	client  *storeclient.Client
	Session *Session
}

// New creates a Storefront for a signed-out visitor.
func New(client *storeclient.Client) *Storefront {
	return &Storefront{client: client, Session: NewSession()}
}

func (s *Storefront) authed() *storeclient.Client {
	return s.client.WithToken(s.Session.Token)
}

// Login validates the form, signs in and starts the session.
func (s *Storefront) Login(ctx context.Context, form LoginForm) error {
	if err := form.Validate(false); err != nil {
		return err
	}
	result, err := s.client.Login(ctx, strings.TrimSpace(form.Login), form.Password)
	if err != nil {
		return apiFormError(err)
	}
	s.Session.signIn(result.Token, result.User.ID, result.User.Name)
	return nil
}

// Register signs a new user up and logs them in.
func (s *Storefront) Register(ctx context.Context, form LoginForm) error {
	if err := form.Validate(true); err != nil {
		return err
	}
	_, err := s.client.Register(ctx, services.RegisterInput{
		Name:            strings.TrimSpace(form.Name),
		Login:           strings.TrimSpace(form.Login),
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		return apiFormError(err)
	}
	return s.Login(ctx, form)
}

// Logout ends the session.
func (s *Storefront) Logout() {
	s.Session.signOut()
}

// Home returns the categories shown on the landing page. A failed request
// shows an empty list.
func (s *Storefront) Home(ctx context.Context) []models.Category {
	categories, err := s.client.Categories(ctx)
	if err != nil {
		log.Printf("Failed to load categories: %v", err)
		return []models.Category{}
	}
	return categories
}

// ProductGroup is one section of the catalog screen.
type ProductGroup struct {
	Name     string
	Products []models.Product
}

// GroupProducts buckets products by the JSON field named field, keeping the
// order in which groups first appear. Products with an empty value go to
// OtherGroup.
func GroupProducts(products []models.Product, field string) []ProductGroup {
	var groups []ProductGroup
	index := map[string]int{}
	for _, p := range products {
		key := fieldValue(p, field)
		if key == "" {
			key = OtherGroup
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ProductGroup{Name: key})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

func fieldValue(p models.Product, field string) string {
	v := reflect.ValueOf(p)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != field {
			continue
		}
		if f := v.Field(i); f.Kind() == reflect.String {
			return f.String()
		}
		return ""
	}
	return ""
}

// Catalog is the product listing screen.
type Catalog struct {
	Count  int
	Groups []ProductGroup
}

// Catalog loads the products of category (all when empty) grouped by the
// product field groupBy, for example "company".
func (s *Storefront) Catalog(ctx context.Context, category, groupBy string) (*Catalog, error) {
	list, err := s.client.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	return &Catalog{Count: list.Count, Groups: GroupProducts(list.Data, groupBy)}, nil
}

// Pricing is the price panel of the details screen, already formatted.
type Pricing struct {
	Price         string // list price
	OriginalPrice string // struck through
	Saved         string
	Extra         string
	SalePercent   string
	ExtraPercent  string
}

// PricingFor formats the price panel for a list price.
func PricingFor(price float64) Pricing {
	q := pricing.QuoteFor(price)
	return Pricing{
		Price:         FormatINR(q.List),
		OriginalPrice: FormatINR(q.Original),
		Saved:         FormatINR(q.Saved),
		Extra:         FormatINR(q.Extra),
		SalePercent:   pricing.SaleRate.String() + "% off",
		ExtraPercent:  "Extra " + pricing.ExtraRate.String() + "% off",
	}
}

// ProductView is the details screen. Error is set, and Product nil, when
// the product could not be loaded.
type ProductView struct {
	Product *models.Product
	Pricing Pricing
	InCart  bool
	Error   string
}

// Details loads a product and whether it already sits in the signed-in
// user's cart.
func (s *Storefront) Details(ctx context.Context, id string) ProductView {
	product, err := s.client.ProductDetails(ctx, id)
	if err != nil {
		if storeclient.IsNotFound(err) {
			return ProductView{Error: "Product not found"}
		}
		log.Printf("Failed to load product %s: %v", id, err)
		return ProductView{Error: "Could not load the product, please try again"}
	}

	view := ProductView{Product: product, Pricing: PricingFor(product.Price)}
	if s.Session.LoggedIn() {
		user, err := s.client.UserDetails(ctx, s.Session.UserID)
		if err != nil {
			log.Printf("Failed to load cart of user %s: %v", s.Session.UserID, err)
			return view
		}
		for _, item := range user.Cart {
			if item.ProductID == product.ID {
				view.InCart = true
				break
			}
		}
	}
	return view
}

// FormMode selects what SubmitProduct does.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

// SubmitProduct validates the form and creates the product, or replaces
// product id in ModeEdit. A form carrying a file is sent as multipart.
func (s *Storefront) SubmitProduct(ctx context.Context, mode FormMode, id string, form ProductForm) (*models.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	in := form.Input()

	var (
		product *models.Product
		err     error
	)
	switch {
	case mode == ModeEdit && form.ImageFile != nil:
		product, err = s.client.EditProductWithImage(ctx, id, in, *form.ImageFile)
	case mode == ModeEdit:
		product, err = s.client.UpdateProduct(ctx, id, in)
	case form.ImageFile != nil:
		product, err = s.client.CreateProductWithImage(ctx, in, *form.ImageFile)
	default:
		product, err = s.client.CreateProduct(ctx, in)
	}
	if err != nil {
		return nil, apiFormError(err)
	}
	return product, nil
}

// Delete removes a product.
func (s *Storefront) Delete(ctx context.Context, id string) error {
	return s.client.DeleteProduct(ctx, id)
}

// AddToCart puts one unit of a product in the signed-in user's cart.
func (s *Storefront) AddToCart(ctx context.Context, productID string) (*models.User, error) {
	if !s.Session.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return s.client.AddToCart(ctx, s.Session.UserID, productID, 1)
}

// OrderSnapshot is the checkout summary built by BuyNow.
type OrderSnapshot struct {
	OrderName  string
	OrderImage string
	TotalPrice string
	SavedPrice string
	Price      string
}

// BuyNow summarises a single-unit purchase of product for the checkout
// screen.
func (s *Storefront) BuyNow(product models.Product) OrderSnapshot {
	q := pricing.QuoteFor(product.Price)
	return OrderSnapshot{
		OrderName:  product.Name,
		OrderImage: product.Image,
		TotalPrice: FormatINR(q.Sale),
		SavedPrice: FormatINR(q.Saved),
		Price:      FormatINR(q.List),
	}
}

// Checkout places an order for quantity units of a product.
func (s *Storefront) Checkout(ctx context.Context, productID string, quantity int) (*models.Order, error) {
	if !s.Session.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	order, err := s.authed().CreateOrder(ctx, services.OrderRequest{
		Items: []services.OrderItemInput{{ProductID: productID, Quantity: quantity}},
	})
	if err != nil {
		var apiErr *storeclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			s.Logout()
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	return order, nil
}

// apiFormError turns a 400 with field messages into a *FormError so the
// screen can show them next to the inputs.
func apiFormError(err error) error {
	var apiErr *storeclient.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		return &FormError{Fields: apiErr.Fields}
	}
	return err
}
