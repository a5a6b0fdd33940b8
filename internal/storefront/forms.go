package storefront

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"zencart/internal/services"
	"zencart/pkg/storeclient"

	"github.com/go-playground/validator/v10"
)

var (
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
	validate      = validator.New()
)

// FormError carries per-field messages for a form that failed client-side
// checks or was rejected by the API.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return "invalid form: " + strings.Join(msgs, "; ")
}

func formError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &FormError{Fields: fields}
}

// ProductForm is the create/edit product form. Price is kept as typed.
type ProductForm struct {
	Name        string
	Description string
	Price       string
	Image       string
	ImageFile   *storeclient.Image
	Category    string
	Company     string
	Seller      string
}

// Validate applies the same required-field rules as the API.
func (f ProductForm) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(f.Description) == "" {
		fields["description"] = "description is required"
	}
	if price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64); err != nil {
		fields["price"] = "price must be a number"
	} else if price <= 0 {
		fields["price"] = "price must be greater than 0"
	}
	if strings.TrimSpace(f.Image) == "" && f.ImageFile == nil {
		fields["image"] = "image is required"
	}
	return formError(fields)
}

// Input converts a validated form to the API payload.
func (f ProductForm) Input() services.ProductInput {
	price, _ := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	return services.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Price:       price,
		Image:       strings.TrimSpace(f.Image),
		Category:    strings.TrimSpace(f.Category),
		Company:     strings.TrimSpace(f.Company),
		Seller:      strings.TrimSpace(f.Seller),
	}
}

// LoginForm backs both the sign-in and sign-up screens.
type LoginForm struct {
	Name            string
	Login           string
	Password        string
	ConfirmPassword string
}

// Validate checks the form. Sign-up additionally needs a name and a
// matching password confirmation.
func (f LoginForm) Validate(newUser bool) error {
	fields := map[string]string{}
	login := strings.TrimSpace(f.Login)
	switch {
	case login == "":
		fields["login"] = "email or mobile number is required"
	case !mobilePattern.MatchString(login) && validate.Var(login, "email") != nil:
		fields["login"] = "enter a valid email or 10-digit mobile number"
	}
	if f.Password == "" {
		fields["password"] = "password is required"
	}
	if newUser {
		if strings.TrimSpace(f.Name) == "" {
			fields["name"] = "name is required"
		}
		switch {
		case f.ConfirmPassword == "":
			fields["confirmPassword"] = "please confirm your password"
		case f.ConfirmPassword != f.Password:
			fields["confirmPassword"] = "passwords do not match"
		}
	}
	return formError(fields)
}
