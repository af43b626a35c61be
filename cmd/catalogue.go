package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/warehouse"

	"github.com/spf13/viper"
)

// CatalogueFile is the layout of the file read by the seed command.
//
//	actors:
//	  - id: 7d1c...
//	    name: Vera
//	    role: Vendor
//	warehouses:
//	  - id: 2b9e...
//	    name: North Hub
//	    location: Lille
//	    capacity: 25
//	products:
//	  - id: 51fa...
//	    name: Mug
//	    vendor_id: 7d1c...
//	    price: "10.00"
//	    stock: 100
type CatalogueFile struct {
	Actors []struct {
		ID   string `mapstructure:"id"`
		Name string `mapstructure:"name"`
		Role string `mapstructure:"role"`
	} `mapstructure:"actors"`
	Warehouses []struct {
		ID       string `mapstructure:"id"`
		Name     string `mapstructure:"name"`
		Location string `mapstructure:"location"`
		Capacity int    `mapstructure:"capacity"`
	} `mapstructure:"warehouses"`
	Products []struct {
		ID       string `mapstructure:"id"`
		Name     string `mapstructure:"name"`
		VendorID string `mapstructure:"vendor_id"`
		Price    string `mapstructure:"price"`
		Stock    int    `mapstructure:"stock"`
	} `mapstructure:"products"`
}

// LoadCatalogue reads path (format taken from its extension) into a
// SeedCatalogueCommand. Every malformed entry is reported.
func LoadCatalogue(path string) (commands.SeedCatalogueCommand, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return commands.SeedCatalogueCommand{}, fmt.Errorf("failed to read catalogue: %w", err)
	}

	var file CatalogueFile
	if err := v.Unmarshal(&file); err != nil {
		return commands.SeedCatalogueCommand{}, fmt.Errorf("failed to decode catalogue: %w", err)
	}

	var (
		errs       error
		actors     = make([]*actor.Actor, 0, len(file.Actors))
		warehouses = make([]*warehouse.Warehouse, 0, len(file.Warehouses))
		products   = make([]*product.Product, 0, len(file.Products))
	)

	for i, a := range file.Actors {
		id, err := kernel.UUIDFromString(a.ID)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("actor %d: %w", i, err))
			continue
		}
		role, err := actor.RoleFromString(a.Role)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("actor %d: %w", i, err))
			continue
		}
		created, err := actor.NewActor(id, a.Name, role)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("actor %d: %w", i, err))
			continue
		}
		actors = append(actors, created)
	}

	for i, w := range file.Warehouses {
		id, err := kernel.UUIDFromString(w.ID)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("warehouse %d: %w", i, err))
			continue
		}
		created, err := warehouse.NewWarehouse(id, w.Name, w.Location, w.Capacity)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("warehouse %d: %w", i, err))
			continue
		}
		warehouses = append(warehouses, created)
	}

	for i, p := range file.Products {
		created, err := newCatalogueProduct(p.ID, p.Name, p.VendorID, p.Price, p.Stock)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("product %d: %w", i, err))
			continue
		}
		products = append(products, created)
	}

	if errs != nil {
		return commands.SeedCatalogueCommand{}, errs
	}
	return commands.NewSeedCatalogueCommand(actors, warehouses, products)
}

func newCatalogueProduct(rawID, name, rawVendorID, rawPrice string, stock int) (*product.Product, error) {
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromString(rawVendorID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.MoneyFromString(rawPrice)
	if err != nil {
		return nil, err
	}
	return product.NewProduct(id, name, vendorID, price, stock)
}

func seed(ctx context.Context, envFile string, path string, log *slog.Logger) error {
	cmd, err := LoadCatalogue(path)
	if err != nil {
		return err
	}

	config, db, err := connect(envFile)
	if err != nil {
		return err
	}
	root, err := NewCompositionRoot(config, db, log)
	if err != nil {
		return err
	}

	if err = root.CreateSeedCatalogueCommandHandler().Handle(ctx, cmd); err != nil {
		return err
	}
	log.InfoContext(ctx, "catalogue seeded",
		"actors", len(cmd.Actors()),
		"warehouses", len(cmd.Warehouses()),
		"products", len(cmd.Products()),
	)
	return nil
}
