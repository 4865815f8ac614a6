package memory

import (
	"sync"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/chat"
	"github.com/Zhima-Mochi/storefront/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/internal/domain/review"
)

// Store keeps every aggregate behind one RWMutex. Placements and manager product edits
// take the write lock for their whole duration, which serialises them against each other.
// Values are cloned on the way in and out so callers never share memory with the store.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]*account.Account
	categories map[string]*catalog.Category
	products   map[string]*catalog.Product
	orders     map[string]*order.Order
	reviews    map[reviewKey]*review.Review
	messages   []*chat.Message
}

type reviewKey struct {
	customerID string
	productID  string
}

func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]*account.Account),
		categories: make(map[string]*catalog.Category),
		products:   make(map[string]*catalog.Product),
		orders:     make(map[string]*order.Order),
		reviews:    make(map[reviewKey]*review.Review),
	}
}

func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }
func (s *Store) Catalog() *CatalogRepository  { return &CatalogRepository{s: s} }
func (s *Store) Orders() *OrderRepository     { return &OrderRepository{s: s} }
func (s *Store) Reviews() *ReviewRepository   { return &ReviewRepository{s: s} }
func (s *Store) Chat() *ChatRepository        { return &ChatRepository{s: s} }
func (s *Store) Placement() *Placement        { return &Placement{s: s} }
