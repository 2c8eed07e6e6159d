package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 商品目录的 HTTP 接口
type Handler struct {
	service  ProductService
	importer Importer
}

// NewHandler 创建 HTTP 处理器
func NewHandler(service ProductService, importer Importer) *Handler {
	return &Handler{service: service, importer: importer}
}

// MountRoutes 实现 web.Controller
func (h *Handler) MountRoutes(router gin.IRouter) {
	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.POST("/imports", h.runImport)
	router.GET("/imports/latest", h.latestImport)
}

func (h *Handler) listProducts(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category query parameter is required"})
		return
	}

	products, err := h.service.GetAllFromCategory(c.Request.Context(), category)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) runImport(c *gin.Context) {
	report, err := h.importer.Run(c.Request.Context(), "http")
	if errors.Is(err, ErrImportRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
		return
	}
	c.JSON(http.StatusAccepted, report)
}

func (h *Handler) latestImport(c *gin.Context) {
	report, ok, err := h.importer.Last(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no imports yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.JSON(499, gin.H{"error": err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
