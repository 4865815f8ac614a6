package httppresentation

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleListMessages returns the caller's thread, the named thread for managers, or the
// thread index for managers who name none.
func (h *Handler) handleListMessages(c *gin.Context) {
	id, customerID := identityOf(c), c.Query("client_id")
	l, err := h.svc.Chat.ListMessages(c.Request.Context(), id, customerID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if id.IsManager() && customerID == "" {
		out := make([]threadResponse, 0, len(l.Threads))
		for _, t := range l.Threads {
			out = append(out, threadResponse{UserID: t.CustomerID, Username: t.Username, Unread: t.Unread})
		}
		writeOK(c, http.StatusOK, "", gin.H{"clients": out})
		return
	}
	out := make([]messageResponse, 0, len(l.Messages))
	for _, m := range l.Messages {
		out = append(out, toMessage(m))
	}
	writeOK(c, http.StatusOK, "", gin.H{"messages": out})
}

type sendMessageRequest struct {
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
}

func (h *Handler) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	m, err := h.svc.Chat.SendMessage(c.Request.Context(), identityOf(c), req.Message, req.ClientID)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, "message sent", gin.H{"message_id": m.ID})
}
