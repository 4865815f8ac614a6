package httppresentation

import (
	"net/http"

	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) handleListCategories(c *gin.Context) {
	cats, err := h.svc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategory(cat))
	}
	writeOK(c, http.StatusOK, "", gin.H{"categories": out})
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) handleCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	cat, err := h.svc.Catalog.CreateCategory(c.Request.Context(), identityOf(c), deref(req.Name), deref(req.Description))
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, "category created", gin.H{"category_id": cat.ID, "category": toCategory(cat)})
}

func (h *Handler) handleUpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	cat, err := h.svc.Catalog.UpdateCategory(c.Request.Context(), identityOf(c), c.Param("id"), catalog.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "category updated", gin.H{"category": toCategory(cat)})
}

func (h *Handler) handleDeleteCategory(c *gin.Context) {
	if err := h.svc.Catalog.DeleteCategory(c.Request.Context(), identityOf(c), c.Param("id")); err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "category deleted", nil)
}

func (h *Handler) handleListProducts(c *gin.Context) {
	f := catalog.ProductFilter{
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
		SortBy:     catalog.SortField(c.Query("sort_by")),
		SortOrder:  catalog.SortOrder(c.Query("sort_order")),
	}
	var err error
	if f.MinPrice, err = priceQuery(c, "min_price"); err != nil {
		h.writeDomainError(c, err)
		return
	}
	if f.MaxPrice, err = priceQuery(c, "max_price"); err != nil {
		h.writeDomainError(c, err)
		return
	}

	views, err := h.svc.Catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	out := make([]productResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toProduct(v))
	}
	writeOK(c, http.StatusOK, "", gin.H{"products": out})
}

func (h *Handler) handleGetProduct(c *gin.Context) {
	d, err := h.svc.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", gin.H{"product": toProductDetail(d)})
}

type productRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	CategoryID  *string          `json:"category_id"`
	ImageURL    *string          `json:"image_url"`
}

func (h *Handler) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if req.Name == nil || req.Price == nil || req.Quantity == nil || req.CategoryID == nil {
		writeError(c, http.StatusBadRequest, "name, price, quantity and category_id are required", apperr.KindValidation)
		return
	}
	p, err := h.svc.Catalog.CreateProduct(c.Request.Context(), identityOf(c), catalog.NewProductInput{
		Name:        *req.Name,
		Description: deref(req.Description),
		Price:       *req.Price,
		Stock:       *req.Quantity,
		CategoryID:  *req.CategoryID,
		ImageURL:    deref(req.ImageURL),
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, "product created", gin.H{"product_id": p.ID})
}

func (h *Handler) handleUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.svc.Catalog.UpdateProduct(c.Request.Context(), identityOf(c), c.Param("id"), catalog.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Quantity,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "product updated", gin.H{"product_id": p.ID})
}

func (h *Handler) handleDeleteProduct(c *gin.Context) {
	if err := h.svc.Catalog.DeleteProduct(c.Request.Context(), identityOf(c), c.Param("id")); err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "product deleted", nil)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) handleSubmitReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.svc.Reviews.SubmitReview(c.Request.Context(), identityOf(c), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	msg := "review updated"
	if res.Created {
		msg = "review added"
	}
	writeOK(c, http.StatusOK, msg, gin.H{"review_id": res.Review.ID, "created": res.Created})
}

func priceQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be a number", key)
	}
	return &d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
