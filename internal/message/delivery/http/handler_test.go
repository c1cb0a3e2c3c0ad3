package http

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	"github.com/cepetdeal/marketplace/internal/message/domain"
	"github.com/cepetdeal/marketplace/internal/message/usecase/command"
	"github.com/cepetdeal/marketplace/internal/message/usecase/query"
	"github.com/cepetdeal/marketplace/internal/testutil/memstore"
	userdomain "github.com/cepetdeal/marketplace/internal/user/domain"
	userquery "github.com/cepetdeal/marketplace/internal/user/usecase/query"
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

	messages, listings, users := store.Messages(), store.Listings(), store.Users()
	commands := command.Handlers{
		Send:     command.NewSendMessageHandler(messages, listings, users),
		MarkRead: command.NewMarkReadHandler(messages),
	}
	queries := query.Handlers{
		Inbox:        query.NewInboxHandler(messages, listings, users),
		Conversation: query.NewConversationHandler(messages),
		Unread:       query.NewUnreadCountHandler(messages),
	}
	authn := identity.NewAuthenticator(tokens, userquery.NewGetUserHandler(users).LookupPrincipal)
	h := NewMessageHandler(commands, queries, authn, metrics.NewHTTPMetrics(prometheus.NewRegistry()))

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return &testEnv{router: router, store: store, tokens: tokens}
}

func (e *testEnv) token(t *testing.T, u *userdomain.User) string {
	t.Helper()
	token, err := e.tokens.GenerateToken(u.ID, u.Username, string(u.Role))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) listing(t *testing.T, ownerID uint, status listingdomain.Status) *listingdomain.Listing {
	t.Helper()
	l := &listingdomain.Listing{Title: "Daihatsu Xenia 2018", Slug: fmt.Sprintf("daihatsu-xenia-2018-%d", ownerID), Price: 95_000_000, Status: status, OwnerID: ownerID}
	require.NoError(t, e.store.Listings().Create(t.Context(), l))
	return l
}

func TestBuyerSellerConversation(t *testing.T) {
	env := newTestEnv(t)
	seller := env.store.SeedUser("penjual", identity.RoleSeller)
	buyer := env.store.SeedUser("pembeli", identity.RoleBuyer)
	l := env.listing(t, seller.ID, listingdomain.StatusActive)

	// the buyer's receiverId is ignored, the owner always receives
	rec := env.do(t, http.MethodPost, "/messages", env.token(t, buyer), map[string]interface{}{
		"listingId": l.ID, "receiverId": 999, "content": "Masih ada, gan?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var msg domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, seller.ID, msg.ReceiverID)

	rec = env.do(t, http.MethodGet, "/messages/unread-count", env.token(t, seller), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unread UnreadCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unread))
	assert.EqualValues(t, 1, unread.Count)

	rec = env.do(t, http.MethodGet, "/messages/inbox", env.token(t, seller), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox []query.ConversationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inbox))
	require.Len(t, inbox, 1)
	assert.Equal(t, "pembeli", inbox[0].With.Username)
	assert.Equal(t, l.Title, inbox[0].ListingTitle)
	assert.Equal(t, 1, inbox[0].UnreadCount)

	// the owner must say who they answer
	rec = env.do(t, http.MethodPost, "/messages", env.token(t, seller), map[string]interface{}{
		"listingId": l.ID, "content": "Masih, silakan cek",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/messages", env.token(t, seller), map[string]interface{}{
		"listingId": l.ID, "receiverId": buyer.ID, "content": "Masih, silakan cek",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	path := fmt.Sprintf("/messages/conversation?listingId=%d&userId=%d", l.ID, buyer.ID)
	rec = env.do(t, http.MethodGet, path, env.token(t, seller), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var thread []domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thread))
	require.Len(t, thread, 2)
	assert.Equal(t, buyer.ID, thread[0].SenderID)

	n, err := env.store.Messages().CountUnread(t.Context(), seller.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSendMessageRules(t *testing.T) {
	env := newTestEnv(t)
	seller := env.store.SeedUser("penjual", identity.RoleSeller)
	buyer := env.store.SeedUser("pembeli", identity.RoleBuyer)
	pending := env.listing(t, seller.ID, listingdomain.StatusPending)
	active := env.listing(t, seller.ID, listingdomain.StatusActive)

	tests := []struct {
		name   string
		sender *userdomain.User
		body   map[string]interface{}
		status int
		field  string
	}{
		{"empty content", buyer, map[string]interface{}{"listingId": active.ID, "content": "   "}, http.StatusBadRequest, "content"},
		{"too long", buyer, map[string]interface{}{"listingId": active.ID, "content": strings.Repeat("a", 2001)}, http.StatusBadRequest, "content"},
		{"pending listing", buyer, map[string]interface{}{"listingId": pending.ID, "content": "halo"}, http.StatusNotFound, ""},
		{"owner to self", seller, map[string]interface{}{"listingId": active.ID, "receiverId": seller.ID, "content": "halo"}, http.StatusBadRequest, "receiverId"},
		{"unknown receiver", seller, map[string]interface{}{"listingId": active.ID, "receiverId": 4242, "content": "halo"}, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/messages", env.token(t, tt.sender), tt.body)
			assert.Equal(t, tt.status, rec.Code)
			if tt.field != "" {
				var body httpx.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.field, body.Field)
			}
		})
	}
}

func TestMarkReadReceiverOnly(t *testing.T) {
	env := newTestEnv(t)
	seller := env.store.SeedUser("penjual", identity.RoleSeller)
	buyer := env.store.SeedUser("pembeli", identity.RoleBuyer)
	l := env.listing(t, seller.ID, listingdomain.StatusActive)

	msg := &domain.Message{ListingID: l.ID, SenderID: buyer.ID, ReceiverID: seller.ID, Content: "halo"}
	require.NoError(t, env.store.Messages().Create(t.Context(), msg))
	path := fmt.Sprintf("/messages/%d/read", msg.ID)

	rec := env.do(t, http.MethodPut, path, env.token(t, buyer), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/messages/404/read", env.token(t, seller), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, path, env.token(t, seller), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	got, err := env.store.Messages().FindByID(t.Context(), msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.NotNil(t, got.ReadAt)
}
