package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/application/inventory"
)

// ProductionHandler maneja órdenes de producción (protegido).
type ProductionHandler struct {
	uc *inventory.ProductionUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *inventory.ProductionUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producción
// @Description  Con status COMPLETED se costea en la misma transacción; por defecto queda IN_PROGRESS.
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionRequest  true  "materiales consumidos y productos obtenidos"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productions [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateProduction(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Complete godoc
// @Summary      Completar producción
// @Description  Descuenta materiales, calcula el costo y crea los lotes de salida. Todo o nada.
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true   "ID de la producción"
// @Param        body  body  dto.CompleteProductionRequest  false  "datos de cierre"
// @Success      200   {object}  dto.ProductionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productions/{id}/complete [post]
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteProductionRequest
	if len(c.Body()) > 0 {
		if ok, err := bindBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.CompleteProduction(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar producciones
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo (1-100, por defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ProductionListResponse
// @Router       /api/productions [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	if err := validate.Struct(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.ListProductions(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
