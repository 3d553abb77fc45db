package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
	"github.com/jhoicas/lotes-erp/pkg/logger"
)

// Acciones de auditoría.
const (
	AuditStockDeducted       = "STOCK_DEDUCTED"
	AuditBatchesMerged       = "BATCHES_MERGED"
	AuditProductConsolidated = "PRODUCT_CONSOLIDATED"
	AuditProductionCreated   = "PRODUCTION_CREATED"
	AuditProductionCompleted = "PRODUCTION_COMPLETED"
	AuditDisposalCreated     = "DISPOSAL_CREATED"
	AuditProcurementReceived = "PROCUREMENT_RECEIVED"
	AuditSaleCreated         = "SALE_CREATED"
)

// NopAuditSink descarta las entradas.
type NopAuditSink struct{}

func (NopAuditSink) Record(context.Context, *entity.AuditLog) error { return nil }

// MultiAuditSink reenvía cada entrada a todos los destinos y junta los errores.
type MultiAuditSink []AuditSink

func (m MultiAuditSink) Record(ctx context.Context, entry *entity.AuditLog) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RepositoryAuditSink guarda las entradas en la tabla audit_logs.
type RepositoryAuditSink struct {
	repo repository.AuditLogRepository
}

// NewRepositoryAuditSink adapta un AuditLogRepository a AuditSink.
func NewRepositoryAuditSink(repo repository.AuditLogRepository) *RepositoryAuditSink {
	return &RepositoryAuditSink{repo: repo}
}

func (s *RepositoryAuditSink) Record(ctx context.Context, entry *entity.AuditLog) error {
	return s.repo.Create(ctx, entry)
}

// auditor arma y envía entradas de auditoría; los fallos solo se registran en el log.
type auditor struct {
	sink AuditSink
	log  *logger.Logger
}

func newAuditor(sink AuditSink, log *logger.Logger) auditor {
	if sink == nil {
		sink = NopAuditSink{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return auditor{sink: sink, log: log}
}

func (a auditor) record(ctx context.Context, userID, action string, details any) {
	raw, err := json.Marshal(details)
	if err != nil {
		a.log.Warn().Err(err).Str("action", action).Msg("auditoría: no se pudo serializar el detalle")
		return
	}
	entry := &entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   raw,
		Timestamp: time.Now().UTC(),
	}
	if err := a.sink.Record(ctx, entry); err != nil {
		a.log.Warn().Err(err).Str("action", action).Str("user_id", userID).Msg("auditoría: no se pudo registrar")
	}
}
