// Package memstore provides in-memory repositories for tests. A single Store backs
// every repository so cross-table operations (dealer verification, receipt plus
// mark-sold) behave like their database transactions.
package memstore

import (
	"sync"
	"time"

	catalogdomain "github.com/cepetdeal/marketplace/internal/catalog/domain"
	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	messagedomain "github.com/cepetdeal/marketplace/internal/message/domain"
	receiptdomain "github.com/cepetdeal/marketplace/internal/receipt/domain"
	userdomain "github.com/cepetdeal/marketplace/internal/user/domain"
)

// Store holds every table in memory
type Store struct {
	mu  sync.Mutex
	Now func() time.Time

	nextID map[string]uint

	users     map[uint]userdomain.User
	dealers   map[uint]userdomain.Dealer
	brands    map[uint]catalogdomain.Brand
	models    map[uint]catalogdomain.CarModel
	listings  map[uint]listingdomain.Listing
	favorites map[[2]uint]listingdomain.Favorite
	messages  map[uint]messagedomain.Message
	receipts  map[uint]receiptdomain.Receipt
}

// New creates an empty store
func New() *Store {
	return &Store{
		Now:       time.Now,
		nextID:    map[string]uint{},
		users:     map[uint]userdomain.User{},
		dealers:   map[uint]userdomain.Dealer{},
		brands:    map[uint]catalogdomain.Brand{},
		models:    map[uint]catalogdomain.CarModel{},
		listings:  map[uint]listingdomain.Listing{},
		favorites: map[[2]uint]listingdomain.Favorite{},
		messages:  map[uint]messagedomain.Message{},
		receipts:  map[uint]receiptdomain.Receipt{},
	}
}

func (s *Store) id(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
