package orders

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient is a mock order-service client for testing.
// Safe for concurrent use.
type MockClient struct {
	// CreateOrderFunc allows customizing order creation behavior.
	CreateOrderFunc func(ctx context.Context, draft OrderDraft) (*Order, error)

	// GetOrderFunc allows customizing order retrieval behavior.
	GetOrderFunc func(ctx context.Context, storeID, orderID int64) (*Order, error)

	// VoidOrderFunc allows customizing void behavior.
	VoidOrderFunc func(ctx context.Context, storeID, orderID int64) error

	mu sync.Mutex

	// Orders stores created orders keyed by id.
	Orders map[int64]*Order

	// Voided records order ids passed to VoidOrder.
	Voided []int64

	// CallLog tracks method calls for test assertions.
	CallLog []string

	nextID int64
}

// NewMockClient creates a new mock order-service client.
func NewMockClient() *MockClient {
	return &MockClient{
		Orders:  make(map[int64]*Order),
		CallLog: []string{},
	}
}

// CreateOrder stores the draft as a new order with a sequential id.
func (m *MockClient) CreateOrder(ctx context.Context, draft OrderDraft) (*Order, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateOrder(store=%d, total=%.2f)", draft.StoreID, draft.TotalPrice))
	m.mu.Unlock()

	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	order := &Order{
		ID:         m.nextID,
		StoreID:    draft.StoreID,
		TotalPrice: draft.TotalPrice,
		Status:     "pending",
		CreatedAt:  time.Now(),
	}
	m.Orders[order.ID] = order
	cp := *order
	return &cp, nil
}

// GetOrder returns a stored order.
func (m *MockClient) GetOrder(ctx context.Context, storeID, orderID int64) (*Order, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetOrder(%d, %d)", storeID, orderID))
	m.mu.Unlock()

	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, storeID, orderID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	order, exists := m.Orders[orderID]
	if !exists || order.StoreID != storeID {
		return nil, ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

// VoidOrder records the compensation call and removes the order.
func (m *MockClient) VoidOrder(ctx context.Context, storeID, orderID int64) error {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("VoidOrder(%d, %d)", storeID, orderID))
	m.mu.Unlock()

	if m.VoidOrderFunc != nil {
		return m.VoidOrderFunc(ctx, storeID, orderID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Voided = append(m.Voided, orderID)
	delete(m.Orders, orderID)
	return nil
}
