package memory

import (
	"context"
	"sort"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/chat"
)

type ChatRepository struct {
	s *Store
}

var _ chat.Repository = (*ChatRepository)(nil)

func (r *ChatRepository) Append(ctx context.Context, m *chat.Message) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.messages = append(r.s.messages, cloneMessage(m))
	return nil
}

func (r *ChatRepository) Thread(ctx context.Context, customerID string) ([]*chat.Message, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*chat.Message, 0)
	for _, m := range r.s.messages {
		if m.CustomerID == customerID {
			out = append(out, cloneMessage(m))
		}
	}
	return out, nil
}

func (r *ChatRepository) MarkRead(ctx context.Context, customerID string, sender account.Role, ids []string) (int, error) {
	_ = ctx
	if len(ids) == 0 {
		return 0, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, m := range r.s.messages {
		if _, ok := want[m.ID]; !ok || m.CustomerID != customerID {
			continue
		}
		if m.MarkRead(sender) {
			n++
		}
	}
	return n, nil
}

func (r *ChatRepository) Threads(ctx context.Context) ([]chat.ThreadSummary, error) {
	_ = ctx
	r.s.mu.RLock()
	byCustomer := make(map[string]*chat.ThreadSummary)
	for _, m := range r.s.messages {
		t, ok := byCustomer[m.CustomerID]
		if !ok {
			t = &chat.ThreadSummary{CustomerID: m.CustomerID}
			if a, found := r.s.accounts[m.CustomerID]; found {
				t.Username = a.Username
			}
			byCustomer[m.CustomerID] = t
		}
		if m.SenderRole == account.RoleCustomer && !m.Read {
			t.Unread++
		}
	}
	r.s.mu.RUnlock()

	out := make([]chat.ThreadSummary, 0, len(byCustomer))
	for _, t := range byCustomer {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out, nil
}

func cloneMessage(m *chat.Message) *chat.Message {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
