package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/application/inventory"
)

// InventoryHandler maneja descuentos, fusiones, bajas y consultas de lotes (protegido).
type InventoryHandler struct {
	deduct    *inventory.DeductStockUseCase
	merge     *inventory.MergeUseCase
	disposal  *inventory.DisposalUseCase
	query     *inventory.QueryUseCase
	replenish *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	deduct *inventory.DeductStockUseCase,
	merge *inventory.MergeUseCase,
	disposal *inventory.DisposalUseCase,
	query *inventory.QueryUseCase,
	replenish *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{deduct: deduct, merge: merge, disposal: disposal, query: query, replenish: replenish}
}

// DeductStock godoc
// @Summary      Descontar stock (FIFO o lote forzado)
// @Description  Consume lotes del más antiguo al más nuevo. Si se indica batch_id, solo ese lote;
//
//	falla con 409 si no alcanza el saldo. El faltante FIFO se costea con el último precio de compra.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductStockRequest  true  "product_id, quantity, batch_id opcional"
// @Success      201   {object}  dto.DeductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/deductions [post]
func (h *InventoryHandler) DeductStock(c *fiber.Ctx) error {
	var in dto.DeductStockRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.deduct.DeductStock(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MergeBatches godoc
// @Summary      Fusionar lotes
// @Description  Mueve saldo del lote origen al destino recalculando el precio por promedio ponderado.
//
//	Sin quantity se fusiona todo el saldo y el origen se elimina.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MergeBatchesRequest  true  "product_id (del destino), source_batch_id, target_batch_id, quantity opcional"
// @Success      200   {object}  dto.MergeBatchesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/merge [post]
func (h *InventoryHandler) MergeBatches(c *fiber.Ctx) error {
	var in dto.MergeBatchesRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.merge.MergeBatches(c.UserContext(), inventory.MergeInput{
		ProductID:     in.ProductID,
		SourceBatchID: in.SourceBatchID,
		TargetBatchID: in.TargetBatchID,
		Quantity:      in.Quantity,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ConsolidateProduct godoc
// @Summary      Consolidar lotes de un producto
// @Description  Fusiona completo cada lote con saldo del producto en el lote destino.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del producto"
// @Param        body  body  dto.ConsolidateProductRequest  true  "target_batch_id"
// @Success      200   {object}  dto.ConsolidateProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/consolidate [post]
func (h *InventoryHandler) ConsolidateProduct(c *fiber.Ctx) error {
	var in dto.ConsolidateProductRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.merge.ConsolidateProduct(c.UserContext(), c.Params("id"), in.TargetBatchID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateDisposal godoc
// @Summary      Registrar baja (merma)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDisposalRequest  true  "product_id, quantity, reason, batch_id opcional"
// @Success      201   {object}  dto.DisposalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/disposals [post]
func (h *InventoryHandler) CreateDisposal(c *fiber.Ctx) error {
	var in dto.CreateDisposalRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.disposal.CreateDisposal(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBatches godoc
// @Summary      Listar lotes con saldo
// @Description  Exactamente uno de product_id o category_id. Orden FIFO.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "ID del producto"
// @Param        category_id  query  string  false  "ID de la categoría"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	var in dto.ListBatchesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	out, err := h.query.ListBatches(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ProductHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Máximo de movimientos (1-100, por defecto 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ProductHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/history [get]
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	if err := validate.Struct(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.query.ProductHistory(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos bajo el stock mínimo
// @Description  Sugiere pedir hasta 1.5 veces el mínimo, costeado al precio promedio.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "Filtrar por categoría"
// @Success      200  {array}   dto.LowStockItemDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.replenish.LowStock(c.UserContext(), c.Query("category_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
