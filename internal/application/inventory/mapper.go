package inventory

import (
	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/inventory"
)

func toDeductionLines(rec inventory.DeductionRecord) []dto.DeductionLineDTO {
	lines := make([]dto.DeductionLineDTO, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		lines = append(lines, dto.DeductionLineDTO{BatchID: l.BatchID, Quantity: l.Quantity, Price: l.Price})
	}
	return lines
}

func toDeductionResponse(productID string, rec inventory.DeductionRecord) *dto.DeductionResponse {
	return &dto.DeductionResponse{
		ProductID:       productID,
		Quantity:        rec.Quantity(),
		TotalCost:       rec.TotalCost,
		DeficitQuantity: rec.DeficitQuantity(),
		Lines:           toDeductionLines(rec),
	}
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		InitialQuantity:   b.InitialQuantity,
		RemainingQuantity: b.RemainingQuantity,
		PricePerUnit:      b.PricePerUnit,
		Value:             b.Value(),
		CreatedAt:         b.CreatedAt,
	}
}

func toBatchViewResponse(v *entity.BatchView) dto.BatchResponse {
	r := toBatchResponse(&v.Batch)
	r.ProductName = v.ProductName
	r.Unit = v.Unit
	r.Supplier = v.Supplier
	r.ProcurementID = v.ProcurementID
	r.ProductionID = v.ProductionID
	return r
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                   p.ID,
		CategoryID:           p.CategoryID,
		Name:                 p.Name,
		Unit:                 p.Unit,
		CurrentStock:         p.CurrentStock,
		AveragePurchasePrice: p.AveragePurchasePrice,
		MinStock:             p.MinStock,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		BatchID:       m.BatchID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Note:          m.Note,
		Date:          m.Date,
		CreatedBy:     m.CreatedBy,
	}
}

func toProductionResponse(p *entity.Production) dto.ProductionResponse {
	resp := dto.ProductionResponse{
		ID:            p.ID,
		PerformedBy:   p.PerformedBy,
		Status:        p.Status,
		Note:          p.Note,
		InitialWeight: p.InitialWeight,
		FinalWeight:   p.FinalWeight,
		YieldPercent:  p.YieldPercent(),
		PrepTime:      p.PrepTime,
		DryingTime:    p.DryingTime,
		SmokingTime:   p.SmokingTime,
		BoilingTime:   p.BoilingTime,
		TotalCost:     p.TotalCost,
		Date:          p.Date,
		CompletedAt:   p.CompletedAt,
		Materials:     make([]dto.ProductionMaterialResponse, 0, len(p.Materials)),
		Items:         make([]dto.ProductionItemResponse, 0, len(p.Items)),
	}
	for _, m := range p.Materials {
		resp.Materials = append(resp.Materials, dto.ProductionMaterialResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			QuantityUsed: m.QuantityUsed,
			BatchID:      m.BatchID,
			TotalCost:    m.TotalCost,
			PricePerUnit: m.PricePerUnit,
			Details:      m.Details,
		})
	}
	for _, it := range p.Items {
		resp.Items = append(resp.Items, dto.ProductionItemResponse{
			ID:                    it.ID,
			ProductID:             it.ProductID,
			QuantityProduced:      it.QuantityProduced,
			CalculatedCostPerUnit: it.CalculatedCostPerUnit,
			BatchID:               it.BatchID,
		})
	}
	return resp
}
