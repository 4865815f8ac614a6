package httppresentation

import (
	"net/http"

	apporder "github.com/Zhima-Mochi/storefront/internal/application/order"
	domorder "github.com/Zhima-Mochi/storefront/internal/domain/order"
	"github.com/gin-gonic/gin"
)

type placeOrderRequest struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

func (h *Handler) handlePlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	cart := make(domorder.Cart, 0, len(req.Items))
	for _, it := range req.Items {
		cart = append(cart, domorder.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	res, err := h.svc.PlaceOrder.Execute(c.Request.Context(), apporder.PlaceOrderInput{
		Identity: identityOf(c),
		Cart:     cart,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, "order placed", gin.H{"order_id": res.OrderID, "total_price": res.Total})
}

func (h *Handler) handleOrderHistory(c *gin.Context) {
	views, err := h.svc.Orders.History(c.Request.Context(), identityOf(c), apporder.HistoryQuery{
		UserID: c.Query("user_id"),
		Status: c.Query("status"),
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	out := make([]orderResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toOrder(v))
	}
	writeOK(c, http.StatusOK, "", gin.H{"orders": out})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	st, err := h.svc.Orders.UpdateStatus(c.Request.Context(), identityOf(c), c.Param("id"), req.Status)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "order status updated", gin.H{"status": st})
}
