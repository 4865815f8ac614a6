package order

// IDGenerator mints order ids. Ids must be unique across processes sharing one store.
type IDGenerator interface {
	NewID() string
}
