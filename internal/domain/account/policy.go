package account

import (
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
)

var ErrForbidden = apperr.New(apperr.KindForbidden, "account: role is not permitted to perform this action")

type Action string

const (
	ActionPlaceOrder        Action = "order.place"
	ActionViewOwnOrders     Action = "order.history.own"
	ActionViewAllOrders     Action = "order.history.all"
	ActionUpdateOrderStatus Action = "order.status.update"
	ActionReviewProduct     Action = "review.submit"
	ActionManageCatalog     Action = "catalog.manage"
	ActionDeleteAccount     Action = "account.delete"
	ActionEditOwnProfile    Action = "account.profile.edit"
	ActionChatOwnThread     Action = "chat.own_thread"
	ActionChatAnyThread     Action = "chat.any_thread"
)

var permissions = map[Role]map[Action]bool{
	RoleCustomer: {
		ActionPlaceOrder:     true,
		ActionViewOwnOrders:  true,
		ActionReviewProduct:  true,
		ActionEditOwnProfile: true,
		ActionChatOwnThread:  true,
	},
	RoleManager: {
		ActionViewOwnOrders:     true,
		ActionViewAllOrders:     true,
		ActionUpdateOrderStatus: true,
		ActionManageCatalog:     true,
		ActionDeleteAccount:     true,
		ActionEditOwnProfile:    true,
		ActionChatAnyThread:     true,
	},
}

func (r Role) Can(a Action) bool {
	return permissions[r][a]
}

// Authorize returns ErrForbidden (wrapped with the action) when id's role lacks a.
func Authorize(id Identity, a Action) error {
	if id.Role.Can(a) {
		return nil
	}
	return fmt.Errorf("%s as %s: %w", a, id.Role, ErrForbidden)
}
