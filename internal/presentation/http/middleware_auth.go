package httppresentation

import (
	"net/http"
	"strings"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/observability/logctx"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const identityKey = "storefront.identity"

// requireIdentity resolves the bearer token into an account identity or aborts with 401.
func (h *Handler) requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			writeError(c, http.StatusUnauthorized, "authorization token required", apperr.KindUnauthorized)
			return
		}
		id, err := h.svc.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.writeDomainError(c, err)
			return
		}

		ctx := c.Request.Context()
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("enduser.id", id.AccountID),
			attribute.String("enduser.role", string(id.Role)),
		)
		ctx = logctx.Enrich(ctx, h.log,
			observability.F("account_id", id.AccountID),
			observability.F("role", string(id.Role)),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Set(identityKey, id)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func identityOf(c *gin.Context) account.Identity {
	id, _ := c.MustGet(identityKey).(account.Identity)
	return id
}
