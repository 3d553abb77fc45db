// Package inventorytest provee un almacén en memoria con semántica transaccional para probar los casos de uso
// de inventario sin PostgreSQL. Run serializa las transacciones y, si fn falla, restaura el estado previo.
package inventorytest

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
)

type state struct {
	categories   map[string]entity.Category
	products     map[string]entity.Product
	batches      map[string]entity.Batch
	procurements []entity.Procurement
	sales        []entity.Sale
	productions  []entity.Production
	disposals    []entity.Disposal
	merges       []entity.BatchMerge
	movements    []entity.InventoryMovement
	audit        []entity.AuditLog
}

func newState() state {
	return state{
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
		batches:    map[string]entity.Batch{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	c.procurements = append([]entity.Procurement(nil), s.procurements...)
	c.sales = append([]entity.Sale(nil), s.sales...)
	c.productions = make([]entity.Production, len(s.productions))
	for i, p := range s.productions {
		c.productions[i] = copyProduction(p)
	}
	c.disposals = append([]entity.Disposal(nil), s.disposals...)
	c.merges = append([]entity.BatchMerge(nil), s.merges...)
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	c.audit = append([]entity.AuditLog(nil), s.audit...)
	return c
}

func copyProduction(p entity.Production) entity.Production {
	p.Items = append([]entity.ProductionItem(nil), p.Items...)
	p.Materials = append([]entity.ProductionMaterial(nil), p.Materials...)
	return p
}

// Store almacén en memoria. Implementa inventory.TxRunner e inventory.AuditSink.
type Store struct {
	mu sync.Mutex
	st state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

var (
	_ inventory.TxRunner  = (*Store)(nil)
	_ inventory.AuditSink = (*Store)(nil)
)

// Run ejecuta fn con repositorios sobre el estado; si fn devuelve error el estado vuelve al previo.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, tx inventory.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, s.tx()); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Record guarda entradas de auditoría para inspección en tests.
func (s *Store) Record(_ context.Context, entry *entity.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.audit = append(s.st.audit, *entry)
	return nil
}

func (s *Store) tx() inventory.Tx {
	return inventory.Tx{
		Products:     productRepo{s},
		Categories:   categoryRepo{s},
		Batches:      batchRepo{s},
		Procurements: procurementRepo{s},
		Sales:        saleRepo{s},
		Productions:  productionRepo{s},
		Disposals:    disposalRepo{s},
		Merges:       mergeRepo{s},
		Movements:    movementRepo{s},
	}
}

// ── Products ────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

var _ repository.ProductRepository = productRepo{}

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	p, ok := r.s.st.products[id]
	if !ok {
		return decimal.Zero, domain.ErrProductNotFound
	}
	p.CurrentStock = p.CurrentStock.Add(delta)
	r.s.st.products[id] = p
	return p.CurrentStock, nil
}

func (r productRepo) UpdateAveragePrice(_ context.Context, id string, price decimal.Decimal) error {
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.AveragePurchasePrice = price
	r.s.st.products[id] = p
	return nil
}

func (r productRepo) ListLowStock(_ context.Context, categoryID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.st.products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if p.IsLowStock() {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Categories ──────────────────────────────────────────────────────────────

type categoryRepo struct{ s *Store }

var _ repository.CategoryRepository = categoryRepo{}

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	c, ok := r.s.st.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ── Batches ─────────────────────────────────────────────────────────────────

type batchRepo struct{ s *Store }

var _ repository.BatchRepository = batchRepo{}

func (r batchRepo) Create(_ context.Context, b *entity.Batch) error {
	if _, ok := r.s.st.batches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.batches[b.ID] = *b
	return nil
}

func (r batchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	b, ok := r.s.st.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r batchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r batchRepo) available(match func(entity.Batch) bool) []*entity.Batch {
	var out []*entity.Batch
	for _, b := range r.s.st.batches {
		if b.HasRemainder() && match(b) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r batchRepo) ListAvailableForUpdate(_ context.Context, productID string) ([]*entity.Batch, error) {
	return r.available(func(b entity.Batch) bool { return b.ProductID == productID }), nil
}

func (r batchRepo) UpdateRemaining(_ context.Context, id string, remaining decimal.Decimal) error {
	b, ok := r.s.st.batches[id]
	if !ok {
		return domain.ErrBatchNotFound
	}
	b.RemainingQuantity = remaining
	r.s.st.batches[id] = b
	return nil
}

func (r batchRepo) UpdateQuantityAndPrice(_ context.Context, id string, remaining, price decimal.Decimal) error {
	b, ok := r.s.st.batches[id]
	if !ok {
		return domain.ErrBatchNotFound
	}
	b.RemainingQuantity = remaining
	b.PricePerUnit = price
	r.s.st.batches[id] = b
	return nil
}

func (r batchRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.st.batches[id]; !ok {
		return domain.ErrBatchNotFound
	}
	delete(r.s.st.batches, id)
	return nil
}

func (r batchRepo) ListAvailable(_ context.Context, f repository.BatchFilter) ([]*entity.BatchView, error) {
	batches := r.available(func(b entity.Batch) bool {
		if f.ProductID != "" {
			return b.ProductID == f.ProductID
		}
		return r.s.st.products[b.ProductID].CategoryID == f.CategoryID
	})
	out := make([]*entity.BatchView, 0, len(batches))
	for _, b := range batches {
		p := r.s.st.products[b.ProductID]
		v := &entity.BatchView{Batch: *b, ProductName: p.Name, Unit: p.Unit, CategoryID: p.CategoryID}
		if b.ProcurementItemID != nil {
			for _, proc := range r.s.st.procurements {
				for _, it := range proc.Items {
					if it.ID == *b.ProcurementItemID {
						id := proc.ID
						v.ProcurementID = &id
						v.Supplier = proc.Supplier
					}
				}
			}
		}
		if b.ProductionItemID != nil {
			for _, prod := range r.s.st.productions {
				for _, it := range prod.Items {
					if it.ID == *b.ProductionItemID {
						id := prod.ID
						v.ProductionID = &id
					}
				}
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// ── Procurements / Sales / Disposals ────────────────────────────────────────

type procurementRepo struct{ s *Store }

var _ repository.ProcurementRepository = procurementRepo{}

func (r procurementRepo) Create(_ context.Context, p *entity.Procurement) error {
	c := *p
	c.Items = append([]entity.ProcurementItem(nil), p.Items...)
	r.s.st.procurements = append(r.s.st.procurements, c)
	return nil
}

func (r procurementRepo) LastPriceForProduct(_ context.Context, productID string) (*decimal.Decimal, error) {
	for i := len(r.s.st.procurements) - 1; i >= 0; i-- {
		items := r.s.st.procurements[i].Items
		for j := len(items) - 1; j >= 0; j-- {
			if items[j].ProductID == productID {
				price := items[j].PricePerUnit
				return &price, nil
			}
		}
	}
	return nil, nil
}

type saleRepo struct{ s *Store }

var _ repository.SaleRepository = saleRepo{}

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	c := *sale
	c.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.st.sales = append(r.s.st.sales, c)
	return nil
}

type disposalRepo struct{ s *Store }

var _ repository.DisposalRepository = disposalRepo{}

func (r disposalRepo) Create(_ context.Context, d *entity.Disposal) error {
	r.s.st.disposals = append(r.s.st.disposals, *d)
	return nil
}

// ── Productions ─────────────────────────────────────────────────────────────

type productionRepo struct{ s *Store }

var _ repository.ProductionRepository = productionRepo{}

func (r productionRepo) Create(_ context.Context, p *entity.Production) error {
	r.s.st.productions = append(r.s.st.productions, copyProduction(*p))
	return nil
}

func (r productionRepo) GetForUpdate(_ context.Context, id string) (*entity.Production, error) {
	for _, p := range r.s.st.productions {
		if p.ID == id {
			c := copyProduction(p)
			return &c, nil
		}
	}
	return nil, nil
}

func (r productionRepo) SaveCompletion(_ context.Context, p *entity.Production) error {
	for i := range r.s.st.productions {
		if r.s.st.productions[i].ID == p.ID {
			r.s.st.productions[i] = copyProduction(*p)
			return nil
		}
	}
	return domain.ErrProductionNotFound
}

func (r productionRepo) List(_ context.Context, limit, offset int) ([]*entity.Production, error) {
	var out []*entity.Production
	for i := len(r.s.st.productions) - 1; i >= 0; i-- {
		c := copyProduction(r.s.st.productions[i])
		out = append(out, &c)
	}
	return page(out, limit, offset), nil
}

// ── Merges / Movements ──────────────────────────────────────────────────────

type mergeRepo struct{ s *Store }

var _ repository.BatchMergeRepository = mergeRepo{}

func (r mergeRepo) Create(_ context.Context, m *entity.BatchMerge) error {
	r.s.st.merges = append(r.s.st.merges, *m)
	return nil
}

func (r mergeRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.BatchMerge, error) {
	var out []*entity.BatchMerge
	for i := len(r.s.st.merges) - 1; i >= 0; i-- {
		if m := r.s.st.merges[i]; m.ProductID == productID {
			out = append(out, &m)
		}
	}
	return page(out, limit, offset), nil
}

type movementRepo struct{ s *Store }

var _ repository.InventoryMovementRepository = movementRepo{}

func (r movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

func (r movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		if m := r.s.st.movements[i]; m.ProductID == productID {
			out = append(out, &m)
		}
	}
	return page(out, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
