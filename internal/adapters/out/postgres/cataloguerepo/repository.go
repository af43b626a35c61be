package cataloguerepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/warehouse"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormActorRepository struct {
	db *gorm.DB
}

func NewGormActorRepository(db *gorm.DB) *GormActorRepository {
	return &GormActorRepository{db: db}
}

func (r *GormActorRepository) Add(ctx context.Context, a *actor.Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	dto := actorFromDomain(a)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormActorRepository) Get(ctx context.Context, id kernel.UUID) (*actor.Actor, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ActorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("actor", id.String())
		}
		return nil, err
	}
	return actorToDomain(dto)
}

type GormWarehouseRepository struct {
	db *gorm.DB
}

func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

func (r *GormWarehouseRepository) Add(ctx context.Context, w *warehouse.Warehouse) error {
	if err := w.Validate(); err != nil {
		return err
	}
	dto := warehouseFromDomain(w)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormWarehouseRepository) Get(ctx context.Context, id kernel.UUID) (*warehouse.Warehouse, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WarehouseDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("warehouse", id.String())
		}
		return nil, err
	}
	return warehouseToDomain(dto)
}
