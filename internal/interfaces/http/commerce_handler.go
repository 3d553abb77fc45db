package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/application/inventory"
)

// CommerceHandler compras y ventas; ambas mueven lotes (protegido).
type CommerceHandler struct {
	procurement *inventory.ProcurementUseCase
	sale        *inventory.SaleUseCase
}

// NewCommerceHandler construye el handler.
func NewCommerceHandler(procurement *inventory.ProcurementUseCase, sale *inventory.SaleUseCase) *CommerceHandler {
	return &CommerceHandler{procurement: procurement, sale: sale}
}

// CreateProcurement godoc
// @Summary      Registrar compra
// @Description  Cada ítem crea un lote nuevo y recalcula el precio promedio del producto.
// @Tags         procurements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProcurementRequest  true  "proveedor, medio de pago e ítems"
// @Success      201   {object}  dto.ProcurementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/procurements [post]
func (h *CommerceHandler) CreateProcurement(c *fiber.Ctx) error {
	var in dto.CreateProcurementRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.procurement.ReceiveProcurement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Exige stock suficiente; el costo de mercadería sale del descuento FIFO.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "cliente e ítems"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *CommerceHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.sale.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
