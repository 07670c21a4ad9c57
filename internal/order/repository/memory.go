package repository

import (
	"context"
	"sync"

	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
)

// MemoryStore keeps order state in process memory. It backs tests and
// single-node deployments that run without Postgres.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*model.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*model.Order)}
}

func (s *MemoryStore) CreateOrder(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o.Clone()
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, orderID string, status model.OrderStatus, entry model.TrackingEntry, driverID *string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	o.Status = status
	if driverID != nil {
		id := *driverID
		o.DriverID = &id
	}
	o.TrackingHistory = append(o.TrackingHistory, entry)
	o.UpdatedAt = entry.Timestamp
	return o.Clone(), nil
}
