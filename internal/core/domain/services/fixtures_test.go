package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

func newActor(t *testing.T, role actor.Role) *actor.Actor {
	t.Helper()
	a, err := actor.NewActor(kernel.NewUUID(), role.String()+" user", role)
	require.NoError(t, err)
	return a
}

func newProduct(t *testing.T, vendorID kernel.UUID, price string, stock int) *product.Product {
	t.Helper()
	m, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	p, err := product.NewProduct(kernel.NewUUID(), "product", vendorID, m, stock)
	require.NoError(t, err)
	return p
}

func catalogue(products ...*product.Product) map[kernel.UUID]*product.Product {
	out := make(map[kernel.UUID]*product.Product, len(products))
	for _, p := range products {
		out[p.ID()] = p
	}
	return out
}

func newEngine(t *testing.T) *services.LifecycleEngine {
	t.Helper()
	policy, err := services.NewAccessPolicy(services.DefaultCapabilities())
	require.NoError(t, err)
	engine, err := services.NewLifecycleEngine(policy)
	require.NoError(t, err)
	return engine
}
