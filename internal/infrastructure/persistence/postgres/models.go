package postgres

import (
	"time"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/chat"
	"github.com/Zhima-Mochi/storefront/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/internal/domain/review"
	"github.com/shopspring/decimal"
)

type accountModel struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Username     string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null"`
	Role         string    `gorm:"column:role;type:varchar(16);index;not null"`
	RegisteredAt time.Time `gorm:"column:registered_at;not null"`
}

func (accountModel) TableName() string { return "accounts" }

func accountFromDomain(a *account.Account) *accountModel {
	return &accountModel{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		RegisteredAt: a.RegisteredAt,
	}
}

func (m *accountModel) toDomain() *account.Account {
	return &account.Account{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         account.Role(m.Role),
		RegisteredAt: m.RegisteredAt.UTC(),
	}
}

type categoryModel struct {
	ID          string `gorm:"column:id;type:varchar(36);primaryKey"`
	Name        string `gorm:"column:name;type:varchar(128);uniqueIndex;not null"`
	Description string `gorm:"column:description;type:text"`
}

func (categoryModel) TableName() string { return "categories" }

func categoryFromDomain(c *catalog.Category) *categoryModel {
	return &categoryModel{ID: c.ID, Name: c.Name, Description: c.Description}
}

func (m *categoryModel) toDomain() *catalog.Category {
	return &catalog.Category{ID: m.ID, Name: m.Name, Description: m.Description}
}

type productModel struct {
	ID          string          `gorm:"column:id;type:varchar(36);primaryKey"`
	Name        string          `gorm:"column:name;type:varchar(255);index;not null"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	Stock       int             `gorm:"column:stock;not null;check:stock >= 0"`
	CategoryID  string          `gorm:"column:category_id;type:varchar(36);index;not null"`
	ImageURL    string          `gorm:"column:image_url;type:text"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

func productFromDomain(p *catalog.Product) *productModel {
	return &productModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *productModel) toDomain() *catalog.Product {
	return &catalog.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		CategoryID:  m.CategoryID,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type orderModel struct {
	ID         string           `gorm:"column:id;type:varchar(36);primaryKey"`
	CustomerID string           `gorm:"column:customer_id;type:varchar(36);index;not null"`
	Status     string           `gorm:"column:status;type:varchar(16);index;not null"`
	Total      decimal.Decimal  `gorm:"column:total;type:numeric(14,2);not null"`
	CreatedAt  time.Time        `gorm:"column:created_at;index"`
	UpdatedAt  time.Time        `gorm:"column:updated_at"`
	Lines      []orderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderModel) TableName() string { return "orders" }

// orderLineModel keeps no foreign key to products: lines outlive deleted products.
type orderLineModel struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   string          `gorm:"column:order_id;type:varchar(36);index;not null"`
	Position  int             `gorm:"column:position;not null"`
	ProductID string          `gorm:"column:product_id;type:varchar(36);index;not null"`
	Quantity  int             `gorm:"column:quantity;not null;check:quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
}

func (orderLineModel) TableName() string { return "order_lines" }

func orderFromDomain(o *order.Order) *orderModel {
	m := &orderModel{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Lines:      make([]orderLineModel, 0, len(o.Lines)),
	}
	for i, l := range o.Lines {
		m.Lines = append(m.Lines, orderLineModel{
			OrderID:   o.ID,
			Position:  i,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return m
}

func (m *orderModel) toDomain() *order.Order {
	o := &order.Order{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Status:     order.Status(m.Status),
		Total:      m.Total,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
		Lines:      make([]order.Line, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		o.Lines = append(o.Lines, order.Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return o
}

type reviewModel struct {
	ID         string    `gorm:"column:id;type:varchar(36);primaryKey"`
	CustomerID string    `gorm:"column:customer_id;type:varchar(36);not null;uniqueIndex:idx_reviews_customer_product"`
	ProductID  string    `gorm:"column:product_id;type:varchar(36);not null;uniqueIndex:idx_reviews_customer_product;index"`
	Rating     int       `gorm:"column:rating;not null;check:rating BETWEEN 1 AND 5"`
	Comment    string    `gorm:"column:comment;type:text"`
	ReviewedAt time.Time `gorm:"column:reviewed_at;not null"`
}

func (reviewModel) TableName() string { return "reviews" }

func reviewFromDomain(r *review.Review) *reviewModel {
	return &reviewModel{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		ProductID:  r.ProductID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		ReviewedAt: r.ReviewedAt,
	}
}

func (m *reviewModel) toDomain() *review.Review {
	return &review.Review{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		ProductID:  m.ProductID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		ReviewedAt: m.ReviewedAt.UTC(),
	}
}

type chatMessageModel struct {
	Seq        int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	ID         string    `gorm:"column:id;type:varchar(36);uniqueIndex;not null"`
	CustomerID string    `gorm:"column:customer_id;type:varchar(36);index;not null"`
	ManagerID  *string   `gorm:"column:manager_id;type:varchar(36)"`
	SenderRole string    `gorm:"column:sender_role;type:varchar(16);not null"`
	Body       string    `gorm:"column:body;type:text;not null"`
	SentAt     time.Time `gorm:"column:sent_at;not null"`
	IsRead     bool      `gorm:"column:is_read;not null;default:false"`
}

func (chatMessageModel) TableName() string { return "chat_messages" }

func messageFromDomain(m *chat.Message) *chatMessageModel {
	cm := &chatMessageModel{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		SenderRole: string(m.SenderRole),
		Body:       m.Body,
		SentAt:     m.SentAt,
		IsRead:     m.Read,
	}
	if m.ManagerID != "" {
		mid := m.ManagerID
		cm.ManagerID = &mid
	}
	return cm
}

func (cm *chatMessageModel) toDomain() *chat.Message {
	m := &chat.Message{
		ID:         cm.ID,
		CustomerID: cm.CustomerID,
		SenderRole: account.Role(cm.SenderRole),
		Body:       cm.Body,
		SentAt:     cm.SentAt.UTC(),
		Read:       cm.IsRead,
	}
	if cm.ManagerID != nil {
		m.ManagerID = *cm.ManagerID
	}
	return m
}
