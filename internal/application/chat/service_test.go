package chat

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/chat"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/id"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice   = account.Identity{AccountID: "alice", Username: "alice", Role: account.RoleCustomer}
	manager = account.Identity{AccountID: "mgr", Username: "boss", Role: account.RoleManager}
)

func newService(t *testing.T) *Service {
	t.Helper()
	store := memory.NewStore()
	for _, who := range []account.Identity{alice, manager} {
		a, err := account.New(who.AccountID, who.Username, who.Username+"@example.com", "hash", who.Role)
		require.NoError(t, err)
		require.NoError(t, store.Accounts().Create(context.Background(), a))
	}
	return NewService(store.Chat(), store.Accounts(), id.NewUUIDGenerator(), nil)
}

func readFlags(ms []*domain.Message) []bool {
	out := make([]bool, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Read)
	}
	return out
}

func TestReadFlagsOnlyMoveForward(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.SendMessage(ctx, alice, "is the arm in stock?", "")
	require.NoError(t, err)

	// the manager's thread index does not mark anything
	idx, err := s.ListMessages(ctx, manager, "")
	require.NoError(t, err)
	require.Len(t, idx.Threads, 1)
	assert.Equal(t, domain.ThreadSummary{CustomerID: "alice", Username: "alice", Unread: 1}, idx.Threads[0])
	assert.Empty(t, idx.Messages)

	// first read returns the pre-read state, the second shows the flag flipped
	first, err := s.ListMessages(ctx, manager, "alice")
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, readFlags(first.Messages))
	second, err := s.ListMessages(ctx, manager, "alice")
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, readFlags(second.Messages))

	_, err = s.SendMessage(ctx, manager, "yes, 3 left", "alice")
	require.NoError(t, err)

	// the customer's read leaves their own message read and flips only the manager's
	mine, err := s.ListMessages(ctx, alice, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, readFlags(mine.Messages))
	mine, err = s.ListMessages(ctx, alice, "")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, readFlags(mine.Messages))

	idx, err = s.ListMessages(ctx, manager, "")
	require.NoError(t, err)
	assert.Zero(t, idx.Threads[0].Unread)
}

func TestSendMessageRejections(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.SendMessage(ctx, alice, "  ", "")
	assert.ErrorIs(t, err, domain.ErrEmptyBody)

	_, err = s.SendMessage(ctx, manager, "hello", "")
	assert.ErrorIs(t, err, domain.ErrMissingTarget)

	_, err = s.SendMessage(ctx, manager, "hello", "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownCustomer)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// managers do not have customer threads
	_, err = s.SendMessage(ctx, manager, "hello", "mgr")
	assert.ErrorIs(t, err, domain.ErrUnknownCustomer)
}

// lateReplyRepo appends a manager reply right after the thread is loaded, as a concurrent sender would.
type lateReplyRepo struct {
	domain.Repository
	once bool
}

func (r *lateReplyRepo) Thread(ctx context.Context, customerID string) ([]*domain.Message, error) {
	thread, err := r.Repository.Thread(ctx, customerID)
	if err != nil || r.once {
		return thread, err
	}
	r.once = true
	late, err := domain.NewFromManager("late", customerID, manager.AccountID, "one more thing")
	if err != nil {
		return nil, err
	}
	return thread, r.Repository.Append(ctx, late)
}

func TestMessagesArrivingDuringReadStayUnread(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, who := range []account.Identity{alice, manager} {
		a, err := account.New(who.AccountID, who.Username, who.Username+"@example.com", "hash", who.Role)
		require.NoError(t, err)
		require.NoError(t, store.Accounts().Create(ctx, a))
	}
	s := NewService(&lateReplyRepo{Repository: store.Chat()}, store.Accounts(), id.NewUUIDGenerator(), nil)

	_, err := s.SendMessage(ctx, manager, "your order shipped", "alice")
	require.NoError(t, err)

	first, err := s.ListMessages(ctx, alice, "")
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, readFlags(first.Messages))

	// the reply appended mid-read was never shown, so it is still unread
	second, err := s.ListMessages(ctx, alice, "")
	require.NoError(t, err)
	require.Len(t, second.Messages, 2)
	assert.Equal(t, []bool{true, false}, readFlags(second.Messages))
	assert.Equal(t, "late", second.Messages[1].ID)

	third, err := s.ListMessages(ctx, alice, "")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, readFlags(third.Messages))
}
