package postgres

import "gorm.io/gorm"

// Store hands out repositories sharing one connection pool.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Accounts() *AccountRepository { return NewAccountRepository(s.db) }
func (s *Store) Catalog() *CatalogRepository  { return NewCatalogRepository(s.db) }
func (s *Store) Orders() *OrderRepository     { return NewOrderRepository(s.db) }
func (s *Store) Reviews() *ReviewRepository   { return NewReviewRepository(s.db) }
func (s *Store) Chat() *ChatRepository        { return NewChatRepository(s.db) }
func (s *Store) Placement() *Placement        { return NewPlacement(s.db) }
