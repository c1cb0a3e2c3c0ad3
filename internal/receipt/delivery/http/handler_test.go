package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepetdeal/marketplace/internal/identity"
	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/internal/receipt/domain"
	"github.com/cepetdeal/marketplace/internal/receipt/usecase/command"
	"github.com/cepetdeal/marketplace/internal/receipt/usecase/query"
	"github.com/cepetdeal/marketplace/internal/testutil/memstore"
	userquery "github.com/cepetdeal/marketplace/internal/user/usecase/query"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/auth"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

type testEnv struct {
	router *mux.Router
	store  *memstore.Store
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	reg := prometheus.NewRegistry()

	commands := command.Handlers{
		Create: command.NewCreateReceiptHandler(store.Listings(), store.Receipts(), kafka.NopPublisher{}, metrics.NewDomainMetrics(reg)),
	}
	queries := query.Handlers{
		Get:      query.NewGetReceiptHandler(store.Receipts()),
		List:     query.NewListReceiptsHandler(store.Receipts()),
		Document: query.NewDocumentHandler(store.Receipts(), store.Users(), store.Dealers()),
	}
	authn := identity.NewAuthenticator(tokens, userquery.NewGetUserHandler(store.Users()).LookupPrincipal)
	h := NewReceiptHandler(commands, queries, authn, metrics.NewHTTPMetrics(reg))

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return &testEnv{router: router, store: store, tokens: tokens}
}

func (e *testEnv) token(t *testing.T, userID uint, username string, role identity.Role) string {
	t.Helper()
	token, err := e.tokens.GenerateToken(userID, username, string(role))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) activeListing(t *testing.T, ownerID uint, price int64) *listingdomain.Listing {
	t.Helper()
	l := &listingdomain.Listing{
		Title:     "Suzuki Ertiga GX 2020",
		Slug:      "suzuki-ertiga-gx-2020-1",
		Year:      2020,
		Condition: listingdomain.ConditionUsed,
		Price:     price,
		Status:    listingdomain.StatusActive,
		OwnerID:   ownerID,
	}
	require.NoError(t, e.store.Listings().Create(t.Context(), l))
	return l
}

func TestCreditReceiptWithMarkSold(t *testing.T) {
	env := newTestEnv(t)
	seller := env.store.SeedUser("penjual", identity.RoleSeller)
	l := env.activeListing(t, seller.ID, 300_000_000)
	token := env.token(t, seller.ID, seller.Username, seller.Role)

	body := `{"listingId": ` + jsonUint(l.ID) + `, "buyerName": "Andi", "buyerAddress": "Jl. Thamrin 2",
		"paymentMethod": "CREDIT", "downPayment": 100000000, "tandaJadi": "5000000", "markAsSold": true}`
	rec := env.do(t, http.MethodPost, "/receipts", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var receipt domain.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, int64(105_000_000), receipt.TotalPaid)
	assert.Equal(t, int64(195_000_000), receipt.Remaining)
	assert.Regexp(t, `^CD-\d{8}-[0-9A-F]{8}$`, receipt.ReceiptNumber)

	got, err := env.store.Listings().FindByID(t.Context(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, listingdomain.StatusSold, got.Status)

	// a second sale of the same car fails as a whole
	rec = env.do(t, http.MethodPost, "/receipts", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, listingdomain.CodeNotActive, errBody.Code)

	rec = env.do(t, http.MethodGet, "/receipts", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page query.ReceiptPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Total)
}

func TestReceiptAmountMustBeWhole(t *testing.T) {
	env := newTestEnv(t)
	seller := env.store.SeedUser("penjual", identity.RoleSeller)
	l := env.activeListing(t, seller.ID, 100_000_000)
	token := env.token(t, seller.ID, seller.Username, seller.Role)

	body := `{"listingId": ` + jsonUint(l.ID) + `, "buyerName": "Andi", "buyerAddress": "Jakarta",
		"paymentMethod": "CASH", "tandaJadi": 1500.5}`
	rec := env.do(t, http.MethodPost, "/receipts", token, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errBody httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "tandaJadi", errBody.Field)
}

func TestReceiptRejectsOversizedTandaJadi(t *testing.T) {
	env := newTestEnv(t)
	seller := env.store.SeedUser("penjual", identity.RoleSeller)
	l := env.activeListing(t, seller.ID, 300_000_000)
	token := env.token(t, seller.ID, seller.Username, seller.Role)

	body := `{"listingId": ` + jsonUint(l.ID) + `, "buyerName": "Andi", "buyerAddress": "Jakarta",
		"paymentMethod": "CREDIT", "downPayment": 1, "tandaJadi": "9223372036854775807"}`
	rec := env.do(t, http.MethodPost, "/receipts", token, body)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var errBody httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "tandaJadi", errBody.Field)

	rec = env.do(t, http.MethodGet, "/receipts", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page query.ReceiptPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Zero(t, page.Total)
}

func TestPrintReceiptAccess(t *testing.T) {
	env := newTestEnv(t)
	seller := env.store.SeedUser("penjual", identity.RoleSeller)
	buyer := env.store.SeedUser("pembeli", identity.RoleBuyer)
	admin := env.store.SeedUser("admin", identity.RoleAdmin)
	l := env.activeListing(t, seller.ID, 100_000_000)

	receipt := &domain.Receipt{
		ReceiptNumber: "CD-20260101-0000000A",
		ListingID:     l.ID,
		SellerID:      seller.ID,
		CreatedByID:   seller.ID,
		ListingTitle:  l.Title,
		BuyerName:     "Andi",
		BuyerAddress:  "Jakarta",
		PaymentMethod: domain.PaymentCash,
		TotalPrice:    100_000_000,
		Remaining:     100_000_000,
	}
	require.NoError(t, env.store.Receipts().Create(t.Context(), receipt, false))
	path := "/receipts/" + jsonUint(receipt.ID) + "/pdf"

	rec := env.do(t, http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, path, env.token(t, buyer.ID, buyer.Username, buyer.Role), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/receipts/999/pdf", env.token(t, admin.ID, admin.Username, admin.Role), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, path, env.token(t, seller.ID, seller.Username, seller.Role), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "Rp 100.000.000")
	assert.Contains(t, rec.Body.String(), "window.print()")
}

func TestReceiptOutlivesDeletedListing(t *testing.T) {
	env := newTestEnv(t)
	seller := env.store.SeedUser("penjual", identity.RoleSeller)
	admin := env.store.SeedUser("admin", identity.RoleAdmin)
	l := env.activeListing(t, seller.ID, 150_000_000)
	token := env.token(t, seller.ID, seller.Username, seller.Role)

	body := `{"listingId": ` + jsonUint(l.ID) + `, "buyerName": "Andi", "buyerAddress": "Jl. Thamrin 2",
		"paymentMethod": "CASH", "markAsSold": true}`
	rec := env.do(t, http.MethodPost, "/receipts", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var receipt domain.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))

	require.NoError(t, env.store.Listings().Delete(t.Context(), l.ID))

	rec = env.do(t, http.MethodGet, "/receipts/"+jsonUint(receipt.ID), env.token(t, admin.ID, admin.Username, admin.Role), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var kept domain.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kept))
	assert.Equal(t, l.ID, kept.ListingID)
	assert.Equal(t, l.Title, kept.ListingTitle)

	rec = env.do(t, http.MethodGet, "/receipts/"+jsonUint(receipt.ID)+"/pdf", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Suzuki Ertiga GX 2020")
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
