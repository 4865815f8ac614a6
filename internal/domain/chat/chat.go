package chat

import (
	"strings"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
)

var (
	ErrEmptyBody       = apperr.New(apperr.KindValidation, "chat: message must not be empty")
	ErrMissingTarget   = apperr.New(apperr.KindValidation, "chat: managers must name the customer to write to")
	ErrUnknownCustomer = apperr.New(apperr.KindNotFound, "chat: customer not found")
)

// Message belongs to the thread of CustomerID. ManagerID is empty for customer-authored messages.
// Read only ever moves from false to true.
type Message struct {
	ID         string
	CustomerID string
	ManagerID  string
	SenderRole account.Role
	Body       string
	SentAt     time.Time
	Read       bool
}

func NewFromCustomer(id, customerID, body string) (*Message, error) {
	return newMessage(id, customerID, "", account.RoleCustomer, body)
}

func NewFromManager(id, customerID, managerID, body string) (*Message, error) {
	if customerID == "" {
		return nil, ErrMissingTarget
	}
	return newMessage(id, customerID, managerID, account.RoleManager, body)
}

func newMessage(id, customerID, managerID string, sender account.Role, body string) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}
	return &Message{
		ID:         id,
		CustomerID: customerID,
		ManagerID:  managerID,
		SenderRole: sender,
		Body:       body,
		SentAt:     time.Now().UTC(),
	}, nil
}

// MarkRead flips the read flag if m was authored by sender. It reports whether the flag changed.
func (m *Message) MarkRead(sender account.Role) bool {
	if m.Read || m.SenderRole != sender {
		return false
	}
	m.Read = true
	return true
}

// ThreadSummary is one entry of the manager's thread index.
type ThreadSummary struct {
	CustomerID string
	Username   string
	Unread     int
}
