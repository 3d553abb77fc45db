package inventorytest

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// Dec atajo para decimales en tests; entra en pánico si s no es un número.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedCategory agrega una categoría y devuelve su id.
func (s *Store) SeedCategory(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.st.categories[id] = entity.Category{ID: id, Name: name, Type: entity.CategoryTypeRawMaterial, CreatedAt: time.Now().UTC()}
	return id
}

// SeedProduct agrega un producto con stock y precio promedio dados.
func (s *Store) SeedProduct(categoryID, name, stock, avgPrice string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	now := time.Now().UTC()
	s.st.products[id] = entity.Product{
		ID:                   id,
		CategoryID:           categoryID,
		Name:                 name,
		Unit:                 entity.UnitKG,
		CurrentStock:         Dec(stock),
		AveragePurchasePrice: Dec(avgPrice),
		MinStock:             decimal.Zero,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	return id
}

// SetMinStock fija el stock mínimo de un producto.
func (s *Store) SetMinStock(productID, minStock string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.st.products[productID]
	p.MinStock = Dec(minStock)
	s.st.products[productID] = p
}

// SeedBatch agrega un lote sin tocar el stock agregado del producto.
func (s *Store) SeedBatch(productID, quantity, price string, createdAt time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.st.batches[id] = entity.Batch{
		ID:                id,
		ProductID:         productID,
		InitialQuantity:   Dec(quantity),
		RemainingQuantity: Dec(quantity),
		PricePerUnit:      Dec(price),
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
	return id
}

// SeedProcurementPrice registra una compra histórica del producto (sin lote) para el precio de respaldo.
func (s *Store) SeedProcurementPrice(productID, price string, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	procID := uuid.New().String()
	s.st.procurements = append(s.st.procurements, entity.Procurement{
		ID:            procID,
		Supplier:      "histórico",
		PaymentSource: entity.PaymentSourceCash,
		Status:        entity.ProcurementStatusCompleted,
		Date:          date,
		Items: []entity.ProcurementItem{{
			ID:            uuid.New().String(),
			ProcurementID: procID,
			ProductID:     productID,
			Quantity:      decimal.NewFromInt(1),
			PricePerUnit:  Dec(price),
		}},
	})
}

// Product devuelve una copia del producto; nil si no existe.
func (s *Store) Product(id string) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.products[id]
	if !ok {
		return nil
	}
	return &p
}

// Batch devuelve una copia del lote; nil si no existe (p. ej. eliminado por una fusión).
func (s *Store) Batch(id string) *entity.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.batches[id]
	if !ok {
		return nil
	}
	return &b
}

// BatchesOf lotes del producto (con o sin saldo) ordenados por created_at.
func (s *Store) BatchesOf(productID string) []entity.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Batch
	for _, b := range s.st.batches {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	sortBatches(out)
	return out
}

// Merges historial completo de fusiones en orden de inserción.
func (s *Store) Merges() []entity.BatchMerge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.BatchMerge(nil), s.st.merges...)
}

// Movements movimientos del producto en orden de inserción.
func (s *Store) Movements(productID string) []entity.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.InventoryMovement
	for _, m := range s.st.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// Disposals bajas registradas.
func (s *Store) Disposals() []entity.Disposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Disposal(nil), s.st.disposals...)
}

// Sales ventas registradas.
func (s *Store) Sales() []entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Sale(nil), s.st.sales...)
}

// Production devuelve una copia de la producción; nil si no existe.
func (s *Store) Production(id string) *entity.Production {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.st.productions {
		if p.ID == id {
			c := copyProduction(p)
			return &c
		}
	}
	return nil
}

// AuditLog entradas de auditoría recibidas.
func (s *Store) AuditLog() []entity.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.AuditLog(nil), s.st.audit...)
}

func sortBatches(bs []entity.Batch) {
	sort.Slice(bs, func(i, j int) bool {
		if !bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].CreatedAt.Before(bs[j].CreatedAt)
		}
		return bs[i].ID < bs[j].ID
	})
}
