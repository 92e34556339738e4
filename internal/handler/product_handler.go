package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/internal/service"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts handles retrieving the caller's products with optional filtering
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "list products")
	}

	var filter ports.ProductFilter

	if isActive := c.QueryParam("is_active"); isActive != "" {
		active, err := strconv.ParseBool(isActive)
		if err != nil {
			log.Warn("Invalid is_active parameter", zap.String("value", isActive), zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active must be true or false"})
		}
		filter.IsActive = &active
	}
	filter.Category = c.QueryParam("category")
	if lowStock := c.QueryParam("low_stock"); lowStock != "" {
		low, err := strconv.ParseBool(lowStock)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "low_stock must be true or false"})
		}
		filter.LowStock = low
	}

	products, err := h.products.List(c.Request().Context(), identity.UserID, filter)
	if err != nil {
		return respondError(c, err, "list products")
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "get product")
	}

	product, err := h.products.Get(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return respondError(c, err, "get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "create product")
	}

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product, err := h.products.Create(c.Request().Context(), identity.UserID, req)
	if err != nil {
		return respondError(c, err, "create product")
	}

	log.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "update product")
	}

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product, err := h.products.Update(c.Request().Context(), identity.UserID, id, req)
	if err != nil {
		return respondError(c, err, "update product")
	}

	log.Info("Product updated successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "delete product")
	}

	if err := h.products.Delete(c.Request().Context(), identity.UserID, id); err != nil {
		return respondError(c, err, "delete product")
	}

	logger.FromEcho(c).Info("Product deleted successfully", zap.String("product_id", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) UploadImage(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "upload product image")
	}

	upload, err := readUpload(c)
	if err != nil {
		return respondError(c, err, "upload product image")
	}

	product, err := h.products.UploadImage(c.Request().Context(), identity.UserID, c.Param("id"), upload)
	if err != nil {
		return respondError(c, err, "upload product image")
	}
	return c.JSON(http.StatusOK, product)
}
