package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepetdeal/marketplace/internal/catalog/domain"
	"github.com/cepetdeal/marketplace/internal/catalog/usecase/command"
	"github.com/cepetdeal/marketplace/internal/testutil/memstore"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

func TestResolveIsCaseInsensitive(t *testing.T) {
	store := memstore.New()
	store.SeedCatalog("Toyota", "Avanza", "Innova")
	r := NewResolver(store.Catalog())

	brand, model, err := r.Resolve(context.Background(), "toyota", " AVANZA ")
	require.NoError(t, err)
	assert.Equal(t, "Toyota", brand.Name)
	assert.Equal(t, "Avanza", model.Name)
}

func TestResolveUnknownNames(t *testing.T) {
	store := memstore.New()
	store.SeedCatalog("Honda", "Jazz")
	r := NewResolver(store.Catalog())

	_, _, err := r.Resolve(context.Background(), "Suzuki", "Ertiga")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "brand", appErr.Field)

	_, _, err = r.Resolve(context.Background(), "Honda", "Civic")
	appErr, ok = apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "model", appErr.Field)
}

type countingCache struct {
	data map[string][]domain.Brand
	sets int
}

func (c *countingCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.data[key]
	if ok {
		*(dest.(*[]domain.Brand)) = v
	}
	return ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.sets++
	c.data[key] = value.([]domain.Brand)
	return nil
}

func (c *countingCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestListBrandsCachesUntilNewBrand(t *testing.T) {
	store := memstore.New()
	store.SeedCatalog("Daihatsu", "Xenia")
	c := &countingCache{data: map[string][]domain.Brand{}}
	list := NewListBrandsHandler(store.Catalog(), c, time.Minute)

	brands, err := list.Handle(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 1)
	_, err = list.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)

	_, err = command.NewCreateBrandHandler(store.Catalog(), c).Handle(context.Background(), command.CreateBrandCommand{Name: "Mitsubishi"})
	require.NoError(t, err)

	brands, err = list.Handle(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 2)
	assert.Equal(t, 2, c.sets)
}
