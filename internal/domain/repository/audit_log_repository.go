package repository

import (
	"context"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// AuditLogRepository sumidero de auditoría; no se lee desde este servicio.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}
