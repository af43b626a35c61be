package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/pkg/errs"
)

type SeedCatalogueCommandHandler struct {
	uowFactory CatalogueUoWFactory
}

func NewSeedCatalogueCommandHandler(uowFactory CatalogueUoWFactory) SeedCatalogueCommandHandler {
	return SeedCatalogueCommandHandler{uowFactory: uowFactory}
}

// Handle stores the whole catalogue or nothing. Every product's vendor must
// be a registered actor with the Vendor role.
func (h SeedCatalogueCommandHandler) Handle(ctx context.Context, cmd SeedCatalogueCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actorRepo := uow.ActorRepository()
	for _, a := range cmd.Actors() {
		if err := actorRepo.Add(ctx, a); err != nil {
			return err
		}
	}

	for _, w := range cmd.Warehouses() {
		if err := uow.WarehouseRepository().Add(ctx, w); err != nil {
			return err
		}
	}

	for _, p := range cmd.Products() {
		vendor, err := actorRepo.Get(ctx, p.VendorID())
		if err != nil {
			return err
		}
		if !vendor.Is(actor.Vendor) {
			return errs.NewValueIsInvalidErrorWithCause("vendor is invalid",
				fmt.Errorf("actor %s is a %s, not a vendor", vendor.ID(), vendor.Role()))
		}
		if err = uow.ProductRepository().Add(ctx, p); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
