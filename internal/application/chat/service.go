package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/application"
	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/chat"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

type IDGenerator interface {
	NewID() string
}

type Service struct {
	messages domain.Repository
	accounts account.Repository
	ids      IDGenerator
	tel      observability.Observability
}

func NewService(messages domain.Repository, accounts account.Repository, ids IDGenerator, tel observability.Observability) *Service {
	return &Service{messages: messages, accounts: accounts, ids: ids, tel: tel}
}

// Listing is either a thread's messages or, for a manager without a counterparty, the thread index.
type Listing struct {
	Messages []*domain.Message
	Threads  []domain.ThreadSummary
}

// ListMessages returns the thread as it was before this read, then marks the counterparty's
// messages in it as read.
func (s *Service) ListMessages(ctx context.Context, id account.Identity, customerID string) (_ *Listing, err error) {
	ctx, run := application.Begin(ctx, s.tel, "chat.list", "ListMessages",
		attribute.String("chat.customer_id", customerID))
	defer func() { run.End(err) }()

	var counterparty account.Role
	switch {
	case id.Role.Can(account.ActionChatAnyThread):
		if customerID == "" {
			threads, err := s.messages.Threads(ctx)
			if err != nil {
				return nil, fmt.Errorf("chat: list threads: %w", err)
			}
			return &Listing{Threads: threads}, nil
		}
		counterparty = account.RoleCustomer
	case id.Role.Can(account.ActionChatOwnThread):
		customerID = id.AccountID
		counterparty = account.RoleManager
	default:
		return nil, account.Authorize(id, account.ActionChatOwnThread)
	}

	thread, err := s.messages.Thread(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("chat: load thread: %w", err)
	}
	// Only what this reader was shown gets marked; later arrivals stay unread.
	var unread []string
	for _, m := range thread {
		if !m.Read && m.SenderRole == counterparty {
			unread = append(unread, m.ID)
		}
	}
	marked, err := s.messages.MarkRead(ctx, customerID, counterparty, unread)
	if err != nil {
		return nil, fmt.Errorf("chat: mark read: %w", err)
	}
	run.Annotate(observability.F("messages", len(thread)), observability.F("marked_read", marked))
	return &Listing{Messages: thread}, nil
}

// SendMessage appends to the sender's own thread, or for managers, to the named customer's thread.
func (s *Service) SendMessage(ctx context.Context, id account.Identity, body, customerID string) (_ *domain.Message, err error) {
	ctx, run := application.Begin(ctx, s.tel, "chat.send", "SendMessage")
	defer func() { run.End(err) }()

	var m *domain.Message
	switch {
	case id.Role.Can(account.ActionChatAnyThread):
		if m, err = domain.NewFromManager(s.ids.NewID(), customerID, id.AccountID, body); err != nil {
			return nil, err
		}
		target, err := s.accounts.Get(ctx, customerID)
		if errors.Is(err, account.ErrNotFound) || (err == nil && target.Role != account.RoleCustomer) {
			return nil, domain.ErrUnknownCustomer
		}
		if err != nil {
			return nil, fmt.Errorf("chat: load customer: %w", err)
		}
	case id.Role.Can(account.ActionChatOwnThread):
		if m, err = domain.NewFromCustomer(s.ids.NewID(), id.AccountID, body); err != nil {
			return nil, err
		}
	default:
		return nil, account.Authorize(id, account.ActionChatOwnThread)
	}

	if err := s.messages.Append(ctx, m); err != nil {
		return nil, fmt.Errorf("chat: append: %w", err)
	}
	run.Annotate(observability.F("message_id", m.ID), observability.F("customer_id", m.CustomerID))
	return m, nil
}
