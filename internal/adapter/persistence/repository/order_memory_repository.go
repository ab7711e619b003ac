package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"payment_relay/internal/domain/entities"
	"payment_relay/internal/usecase/interfaces"
)

// OrderMemoryRepository keeps orders in process memory. It backs
// STORE_DRIVER=memory for local runs and the HTTP tests; orders only enter it
// through the seed passed to NewOrderMemoryRepository.
type OrderMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]entities.Order
	now    func() time.Time
}

var _ interfaces.IOrderRepository = (*OrderMemoryRepository)(nil)

func NewOrderMemoryRepository(seed ...entities.Order) *OrderMemoryRepository {
	r := &OrderMemoryRepository{
		orders: make(map[string]entities.Order, len(seed)),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, o := range seed {
		r.orders[o.ID] = o
	}
	return r
}

func (r *OrderMemoryRepository) UpdateReference(_ context.Context, orderID, reference string) (entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return entities.Order{}, interfaces.ErrOrderNotFound
	}
	o.Reference = reference
	o.UpdatedAt = r.now()
	r.orders[orderID] = o
	return o, nil
}

func (r *OrderMemoryRepository) UpdateStatus(_ context.Context, orderID, reference string, status entities.OrderStatus) (entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok || o.Reference != reference {
		return entities.Order{}, interfaces.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = r.now()
	r.orders[orderID] = o
	return o, nil
}

// ListByReference returns matches ordered by ID so the first match is stable.
func (r *OrderMemoryRepository) ListByReference(_ context.Context, reference string, limit int) ([]entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Order, 0)
	for _, o := range r.orders {
		if o.Reference == reference {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
