package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockGateway is a mock charge gateway for testing.
// Simulates the processor without network calls. Safe for concurrent use;
// reconcile tests hit it from several goroutines at once.
type MockGateway struct {
	// CreateChargeFunc allows customizing charge creation behavior.
	CreateChargeFunc func(ctx context.Context, params CreateChargeParams) (*Charge, error)

	// RetrieveChargeFunc allows customizing charge retrieval behavior.
	RetrieveChargeFunc func(ctx context.Context, chargeID string) (*Charge, error)

	mu sync.Mutex

	// Charges stores created charges for retrieval.
	Charges map[string]*Charge

	// CallLog tracks method calls for test assertions.
	CallLog []string
}

// NewMockGateway creates a new mock charge gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Charges: make(map[string]*Charge),
		CallLog: []string{},
	}
}

// CreateCharge creates a mock charge in the initiated state.
func (m *MockGateway) CreateCharge(ctx context.Context, params CreateChargeParams) (*Charge, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateCharge(%.2f, %s)", params.Amount, params.Currency))
	m.mu.Unlock()

	if m.CreateChargeFunc != nil {
		return m.CreateChargeFunc(ctx, params)
	}

	ch := &Charge{
		ID:         "chg_" + uuid.New().String(),
		Status:     StatusInitiated,
		RawStatus:  "INITIATED",
		Amount:     params.Amount,
		Currency:   params.Currency,
		PaymentURL: "https://checkout.example.test/pay",
		Metadata:   params.Metadata,
	}

	m.mu.Lock()
	m.Charges[ch.ID] = ch
	m.mu.Unlock()
	return ch, nil
}

// RetrieveCharge returns a stored mock charge.
func (m *MockGateway) RetrieveCharge(ctx context.Context, chargeID string) (*Charge, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("RetrieveCharge(%s)", chargeID))
	m.mu.Unlock()

	if m.RetrieveChargeFunc != nil {
		return m.RetrieveChargeFunc(ctx, chargeID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ch, exists := m.Charges[chargeID]
	if !exists {
		return nil, ErrChargeNotFound
	}
	cp := *ch
	return &cp, nil
}

// SetStatus moves a stored charge to the given status. Test helper for
// simulating the customer completing or abandoning payment.
func (m *MockGateway) SetStatus(chargeID string, status ChargeStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, exists := m.Charges[chargeID]; exists {
		ch.Status = status
		ch.RawStatus = string(status)
	}
}

// Calls returns a copy of the call log.
func (m *MockGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.CallLog...)
}
