package repository

import (
	"context"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// ProductionRepository persiste producciones con materiales e ítems.
type ProductionRepository interface {
	Create(ctx context.Context, production *entity.Production) error
	// GetForUpdate carga la producción con ítems y materiales, bloqueando la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Production, error)
	// SaveCompletion guarda estado, costo total, costos por material y por ítem.
	SaveCompletion(ctx context.Context, production *entity.Production) error
	List(ctx context.Context, limit, offset int) ([]*entity.Production, error)
}
