package httppresentation

import (
	"time"

	appcatalog "github.com/Zhima-Mochi/storefront/internal/application/catalog"
	apporder "github.com/Zhima-Mochi/storefront/internal/application/order"
	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/chat"
	"github.com/shopspring/decimal"
)

type accountResponse struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Role     account.Role `json:"role"`
}

func toAccount(a *account.Account) accountResponse {
	return accountResponse{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role}
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategory(c *catalog.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

type productResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	ImageURL     string          `json:"image_url"`
	AvgRating    float64         `json:"avg_rating"`
	ReviewsCount int             `json:"reviews_count"`
}

func toProduct(v appcatalog.ProductView) productResponse {
	return productResponse{
		ID:           v.ID,
		Name:         v.Name,
		Description:  v.Description,
		Price:        v.Price,
		Quantity:     v.Stock,
		CategoryID:   v.CategoryID,
		ImageURL:     v.ImageURL,
		AvgRating:    v.Rating.AverageRating,
		ReviewsCount: v.Rating.Count,
	}
}

type reviewResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewedAt time.Time `json:"review_date"`
}

type productDetailResponse struct {
	productResponse
	Reviews []reviewResponse `json:"reviews"`
}

func toProductDetail(d *appcatalog.ProductDetail) productDetailResponse {
	out := productDetailResponse{productResponse: toProduct(d.ProductView)}
	out.CategoryName = d.CategoryName
	out.Reviews = make([]reviewResponse, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		out.Reviews = append(out.Reviews, reviewResponse{
			ID:         r.ID,
			UserID:     r.CustomerID,
			Username:   r.Username,
			Rating:     r.Rating,
			Comment:    r.Comment,
			ReviewedAt: r.ReviewedAt,
		})
	}
	return out
}

type orderLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Username   string              `json:"username,omitempty"`
	Status     string              `json:"status"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	OrderDate  time.Time           `json:"order_date"`
	Items      []orderLineResponse `json:"items"`
}

func toOrder(v apporder.OrderView) orderResponse {
	out := orderResponse{
		ID:         v.ID,
		UserID:     v.CustomerID,
		Username:   v.Username,
		Status:     string(v.Status),
		TotalPrice: v.Total,
		OrderDate:  v.CreatedAt,
		Items:      make([]orderLineResponse, 0, len(v.Lines)),
	}
	for _, l := range v.Lines {
		out.Items = append(out.Items, orderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}

type messageResponse struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	ManagerID  *string      `json:"manager_id"`
	SenderRole account.Role `json:"sender_role"`
	Message    string       `json:"message"`
	Timestamp  time.Time    `json:"timestamp"`
	IsRead     bool         `json:"is_read"`
}

func toMessage(m *chat.Message) messageResponse {
	out := messageResponse{
		ID:         m.ID,
		UserID:     m.CustomerID,
		SenderRole: m.SenderRole,
		Message:    m.Body,
		Timestamp:  m.SentAt,
		IsRead:     m.Read,
	}
	if m.ManagerID != "" {
		mid := m.ManagerID
		out.ManagerID = &mid
	}
	return out
}

type threadResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Unread   int    `json:"unread"`
}
