package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/testutil/memstore"
	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/auth"
)

func registerUser(t *testing.T, store *memstore.Store, username, role string) *domain.User {
	t.Helper()
	u, err := NewRegisterUserHandler(store.Users()).Handle(context.Background(), RegisterUserCommand{
		Username: username,
		Email:    username + "@example.com",
		Password: "rahasia123",
		FullName: "Test " + username,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterDefaultsToBuyer(t *testing.T) {
	store := memstore.New()
	u := registerUser(t, store, "budi", "")

	assert.Equal(t, identity.RoleBuyer, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "rahasia123", u.Password)
}

func TestRegisterRejects(t *testing.T) {
	store := memstore.New()
	registerUser(t, store, "budi", "SELLER")
	h := NewRegisterUserHandler(store.Users())

	tests := []struct {
		name  string
		cmd   RegisterUserCommand
		kind  apperror.Kind
		field string
	}{
		{"admin role", RegisterUserCommand{Username: "ani", Email: "ani@example.com", Password: "secret1", FullName: "Ani", Role: "ADMIN"}, apperror.KindValidation, "role"},
		{"short password", RegisterUserCommand{Username: "ani", Email: "ani@example.com", Password: "123", FullName: "Ani"}, apperror.KindValidation, "password"},
		{"bad email", RegisterUserCommand{Username: "ani", Email: "ani-at-example", Password: "secret1", FullName: "Ani"}, apperror.KindValidation, "email"},
		{"duplicate username", RegisterUserCommand{Username: "budi", Email: "other@example.com", Password: "secret1", FullName: "Budi"}, apperror.KindConflict, ""},
		{"duplicate email", RegisterUserCommand{Username: "budi2", Email: "BUDI@example.com", Password: "secret1", FullName: "Budi"}, apperror.KindConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestLogin(t *testing.T) {
	store := memstore.New()
	u := registerUser(t, store, "sari", "SELLER")
	tokens := auth.NewTokenManager("secret", time.Hour)
	h := NewLoginUserHandler(store.Users(), tokens)

	resp, err := h.Handle(context.Background(), LoginUserCommand{Username: "sari", Password: "rahasia123"})
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "SELLER", claims.Role)

	_, err = h.Handle(context.Background(), LoginUserCommand{Username: "sari", Password: "wrong-password"})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = NewToggleActiveHandler(store.Users()).Handle(context.Background(), ToggleActiveCommand{ActorID: 99, UserID: u.ID, IsActive: false})
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), LoginUserCommand{Username: "sari", Password: "rahasia123"})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestChangeUsernameCooldown(t *testing.T) {
	store := memstore.New()
	registered := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return registered }
	u := registerUser(t, store, "joko", "")

	now := registered.Add(10 * 24 * time.Hour)
	h := NewChangeUsernameHandler(store.Users()).WithClock(func() time.Time { return now })

	_, err := h.Handle(context.Background(), ChangeUsernameCommand{UserID: u.ID, Username: "joko_baru"})
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindRateLimited, appErr.Kind)
	assert.Equal(t, CodeUsernameChangeTooSoon, appErr.Code)
	assert.Contains(t, appErr.Message, "20 days")

	now = registered.Add(30 * 24 * time.Hour)
	updated, err := h.Handle(context.Background(), ChangeUsernameCommand{UserID: u.ID, Username: "joko_baru"})
	require.NoError(t, err)
	assert.Equal(t, "joko_baru", updated.Username)
	require.NotNil(t, updated.UsernameChangedAt)

	// the next change counts from the last change
	now = now.Add(29*24*time.Hour + time.Minute)
	_, err = h.Handle(context.Background(), ChangeUsernameCommand{UserID: u.ID, Username: "joko3"})
	appErr, ok = apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Message, "1 days")
}

func TestChangeRole(t *testing.T) {
	store := memstore.New()
	u := registerUser(t, store, "rina", "")
	h := NewChangeRoleHandler(store.Users())

	updated, err := h.Handle(context.Background(), ChangeRoleCommand{ActorID: 100, UserID: u.ID, Role: "dealer"})
	require.NoError(t, err)
	assert.Equal(t, identity.RoleDealer, updated.Role)

	_, err = h.Handle(context.Background(), ChangeRoleCommand{ActorID: 100, UserID: u.ID, Role: "owner"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = h.Handle(context.Background(), ChangeRoleCommand{ActorID: u.ID, UserID: u.ID, Role: "ADMIN"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestDealerApplicationAndVerification(t *testing.T) {
	store := memstore.New()
	u := registerUser(t, store, "mobilku", "SELLER")
	apply := NewApplyDealerHandler(store.Users(), store.Dealers())

	dealer, err := apply.Handle(context.Background(), ApplyDealerCommand{
		UserID:       u.ID,
		BusinessName: "Mobilku Motor",
		Address:      "Jl. Sudirman 1",
		City:         "Jakarta",
		Phone:        "0812000000",
	})
	require.NoError(t, err)
	assert.False(t, dealer.IsVerified)

	_, err = apply.Handle(context.Background(), ApplyDealerCommand{
		UserID: u.ID, BusinessName: "Again", Address: "x", City: "y", Phone: "z",
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	verify := NewVerifyDealerHandler(store.Dealers())
	verified, err := verify.Handle(context.Background(), VerifyDealerCommand{ActorID: 1, DealerID: dealer.ID, Verified: true})
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.NotNil(t, verified.VerifiedAt)

	owner, err := store.Users().FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleDealer, owner.Role)

	_, err = verify.Handle(context.Background(), VerifyDealerCommand{ActorID: 1, DealerID: dealer.ID, Verified: false})
	require.NoError(t, err)
	owner, err = store.Users().FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleSeller, owner.Role)
}
