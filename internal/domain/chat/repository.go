package chat

import (
	"context"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
)

type Repository interface {
	Append(ctx context.Context, m *Message) error
	// Thread returns the customer's messages oldest first.
	Thread(ctx context.Context, customerID string) ([]*Message, error)
	// MarkRead flags the listed messages of the customer's thread that sender authored and returns how many changed.
	// Messages outside ids stay untouched even when they are unread.
	MarkRead(ctx context.Context, customerID string, sender account.Role, ids []string) (int, error)
	// Threads lists every customer with at least one message, with their count of unread customer-authored messages.
	Threads(ctx context.Context) ([]ThreadSummary, error)
}
