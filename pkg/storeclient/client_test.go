package storeclient_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"zencart/internal/services"
	"zencart/internal/storage"
	"zencart/internal/testutil"
	"zencart/pkg/storeclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func penInput() services.ProductInput {
	return services.ProductInput{
		Name:        "Pen",
		Description: "Blue ink",
		Price:       10,
		Image:       "pen.png",
		Category:    "Stationery",
	}
}

func TestClient_ProductScenario(t *testing.T) {
	srv, _ := testutil.NewAPIServer(t, nil)
	client := storeclient.New(srv.URL + "/")
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, penInput())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := client.ProductDetails(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pen", got.Name)

	in := penInput()
	in.Price = 12
	updated, err := client.UpdateProduct(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.Price)

	list, err := client.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 12.0, list.Data[0].Price)

	list, err = client.ListProducts(ctx, "Stationery & Office")
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count)

	categories, err := client.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Stationery", categories[0].Name)

	suggestions, err := client.Suggestions(ctx, "pe")
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)

	require.NoError(t, client.DeleteProduct(ctx, created.ID))
	_, err = client.ProductDetails(ctx, created.ID)
	assert.True(t, storeclient.IsNotFound(err))
	assert.True(t, storeclient.IsNotFound(client.DeleteProduct(ctx, created.ID)))
}

func TestClient_ValidationError(t *testing.T) {
	srv, _ := testutil.NewAPIServer(t, nil)
	client := storeclient.New(srv.URL)

	in := penInput()
	in.Price = 0
	_, err := client.CreateProduct(context.Background(), in)

	var apiErr *storeclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Fields, "price")
	assert.False(t, storeclient.IsNotFound(err))
}

func TestClient_UploadImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := storage.NewDiskStore(dir)
	require.NoError(t, err)
	srv, _ := testutil.NewAPIServer(t, store)
	client := storeclient.New(srv.URL)
	ctx := context.Background()

	in := penInput()
	in.Image = ""
	created, err := client.CreateProductWithImage(ctx, in, storeclient.Image{Filename: "pen.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(created.Image, "-pen.png"), created.Image)

	edited, err := client.EditProductWithImage(ctx, created.ID, in, storeclient.Image{Filename: "gel.png", Body: strings.NewReader("gel")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(edited.Image, "-gel.png"), edited.Image)
	assert.Equal(t, created.ID, edited.ID)
}

func TestClient_UsersCartAndOrders(t *testing.T) {
	srv, _ := testutil.NewAPIServer(t, nil)
	client := storeclient.New(srv.URL)
	ctx := context.Background()

	product, err := client.CreateProduct(ctx, penInput())
	require.NoError(t, err)

	user, err := client.Register(ctx, services.RegisterInput{
		Name: "Asha", Login: "9876543210", Password: "secret123", ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	_, err = client.Login(ctx, "9876543210", "wrong-password")
	var apiErr *storeclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	session, err := client.Login(ctx, "9876543210", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.User.ID)

	withCart, err := client.AddToCart(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, withCart.Cart, 1)
	assert.Equal(t, 2, withCart.Cart[0].Quantity)

	details, err := client.UserDetails(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, details.Cart, 1)

	_, err = client.CreateOrder(ctx, services.OrderRequest{Items: []services.OrderItemInput{{ProductID: product.ID, Quantity: 1}}})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	authed := client.WithToken(session.Token)
	order, err := authed.CreateOrder(ctx, services.OrderRequest{Items: []services.OrderItemInput{{ProductID: product.ID, Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, 7.0, order.TotalPrice)

	orders, err := authed.Orders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestClient_Cancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := storeclient.New(srv.URL).ListProducts(ctx, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := storeclient.New(srv.URL).Categories(context.Background())
	var apiErr *storeclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "502")
}
