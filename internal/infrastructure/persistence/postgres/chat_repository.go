package postgres

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/chat"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

var _ chat.Repository = (*ChatRepository)(nil)

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Append(ctx context.Context, m *chat.Message) error {
	if err := r.db.WithContext(ctx).Create(messageFromDomain(m)).Error; err != nil {
		return fmt.Errorf("postgres: append message: %w", err)
	}
	return nil
}

func (r *ChatRepository) Thread(ctx context.Context, customerID string) ([]*chat.Message, error) {
	var models []chatMessageModel
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("seq ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: load thread: %w", err)
	}
	out := make([]*chat.Message, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

// MarkRead is one UPDATE guarded by is_read = false, so flags only ever move to true.
func (r *ChatRepository) MarkRead(ctx context.Context, customerID string, sender account.Role, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&chatMessageModel{}).
		Where("customer_id = ? AND sender_role = ? AND is_read = ? AND id IN ?", customerID, string(sender), false, ids).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("postgres: mark read: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *ChatRepository) Threads(ctx context.Context) ([]chat.ThreadSummary, error) {
	var rows []struct {
		CustomerID string
		Username   string
		Unread     int
	}
	err := r.db.WithContext(ctx).
		Table("chat_messages AS m").
		Select("m.customer_id, COALESCE(a.username, '') AS username, "+
			"COUNT(*) FILTER (WHERE m.sender_role = ? AND NOT m.is_read) AS unread", string(account.RoleCustomer)).
		Joins("LEFT JOIN accounts AS a ON a.id = m.customer_id").
		Group("m.customer_id, a.username").
		Order("username ASC, m.customer_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: list threads: %w", err)
	}
	out := make([]chat.ThreadSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, chat.ThreadSummary{CustomerID: row.CustomerID, Username: row.Username, Unread: row.Unread})
	}
	return out, nil
}
