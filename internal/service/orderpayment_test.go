package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/events"
	"github.com/robaa12/user-service/internal/orders"
	"github.com/robaa12/user-service/internal/payment"
)

func testDraft(storeID int64) orders.OrderDraft {
	return orders.OrderDraft{
		StoreID:        storeID,
		TotalPrice:     250,
		Email:          "buyer@example.com",
		CustomerName:   "Mona Ali",
		PhoneNumber:    "1009876543",
		Address:        "12 Tahrir St",
		PaymentMethod:  "card",
		City:           "Cairo",
		Governorate:    "Cairo",
		ShippingMethod: "standard",
		OrderItems: []orders.OrderItem{
			{SKUID: 7, Price: 125, Quantity: 2},
		},
	}
}

type orderPaymentFixture struct {
	stores    *fakeStoreRepo
	ledger    *fakePaymentRepo
	orders    *orders.MockClient
	gateway   *payment.MockGateway
	publisher *events.MockPublisher
	svc       OrderPaymentService
}

func newOrderPaymentFixture(t *testing.T) *orderPaymentFixture {
	t.Helper()

	stores := newFakeStoreRepo(&domain.Store{
		ID:            5,
		UserID:        42,
		StoreName:     "Cairo Beans",
		Slug:          "cairo-beans",
		StoreCurrency: "EGP",
	})
	ledger := newFakePaymentRepo(newFakeUserRepo())
	ordersClient := orders.NewMockClient()
	gateway := payment.NewMockGateway()
	publisher := events.NewMockPublisher()

	svc := NewOrderPaymentService(
		stores,
		ledger,
		ordersClient,
		gateway,
		publisher,
		zerolog.Nop(),
		PaymentConfig{Currency: "EGP", RedirectURL: "https://api.example.com/payment/callback"},
	)

	return &orderPaymentFixture{
		stores:    stores,
		ledger:    ledger,
		orders:    ordersClient,
		gateway:   gateway,
		publisher: publisher,
		svc:       svc,
	}
}

func TestCreateOrderPayment(t *testing.T) {
	f := newOrderPaymentFixture(t)

	result, err := f.svc.CreateOrderPayment(context.Background(), testDraft(5))
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Order.StoreID)
	assert.NotEmpty(t, result.RedirectURL)
	assert.Equal(t, result.Order.ID, result.Link.OrderID)

	// Charge metadata correlates back to order and store.
	charge := f.gateway.Charges[result.Link.ChargeID]
	require.NotNil(t, charge)
	assert.Equal(t, "5", charge.Metadata["store_id"])
	assert.Equal(t, 250.0, charge.Amount)
	assert.Equal(t, "EGP", charge.Currency)

	// Link persisted and retrievable by charge id.
	link, err := f.ledger.GetStoreOrderPaymentByChargeID(context.Background(), result.Link.ChargeID)
	require.NoError(t, err)
	assert.Equal(t, result.Order.ID, link.OrderID)
}

func TestCreateOrderPayment_UnknownStore(t *testing.T) {
	f := newOrderPaymentFixture(t)

	_, err := f.svc.CreateOrderPayment(context.Background(), testDraft(999))
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)

	// Nothing reached the order service or the processor.
	assert.Empty(t, f.orders.CallLog)
	assert.Empty(t, f.gateway.CallLog)
}

func TestCreateOrderPayment_OrderServiceDown(t *testing.T) {
	f := newOrderPaymentFixture(t)

	f.orders.CreateOrderFunc = func(ctx context.Context, draft orders.OrderDraft) (*orders.Order, error) {
		return nil, &orders.RemoteError{Op: "create_order", Err: errors.New("connection refused")}
	}

	_, err := f.svc.CreateOrderPayment(context.Background(), testDraft(5))
	require.Error(t, err)
	assert.Equal(t, domain.EGATEWAY, domain.ErrorCode(err))

	// No charge was opened for the failed order.
	assert.Empty(t, f.gateway.CallLog)
}

func TestCreateOrderPayment_ChargeFailureVoidsOrder(t *testing.T) {
	f := newOrderPaymentFixture(t)

	f.gateway.CreateChargeFunc = func(ctx context.Context, params payment.CreateChargeParams) (*payment.Charge, error) {
		return nil, &payment.GatewayError{Op: "create_charge", StatusCode: 503, Body: "down"}
	}

	_, err := f.svc.CreateOrderPayment(context.Background(), testDraft(5))
	require.Error(t, err)
	assert.Equal(t, domain.EGATEWAY, domain.ErrorCode(err))

	// The freshly created order was voided.
	require.Len(t, f.orders.Voided, 1)
	assert.Empty(t, f.orders.Orders)
}

func TestCreateOrderPayment_VoidFailureIsNonFatal(t *testing.T) {
	f := newOrderPaymentFixture(t)

	f.gateway.CreateChargeFunc = func(ctx context.Context, params payment.CreateChargeParams) (*payment.Charge, error) {
		return nil, &payment.GatewayError{Op: "create_charge", StatusCode: 500, Body: "boom"}
	}
	f.orders.VoidOrderFunc = func(ctx context.Context, storeID, orderID int64) error {
		return &orders.RemoteError{Op: "void_order", Err: errors.New("timeout")}
	}

	_, err := f.svc.CreateOrderPayment(context.Background(), testDraft(5))
	require.Error(t, err)
	// The surfaced error is the charge failure, not the compensation failure.
	assert.Equal(t, domain.EGATEWAY, domain.ErrorCode(err))
}

func TestRetrieveOrderPayment(t *testing.T) {
	f := newOrderPaymentFixture(t)

	created, err := f.svc.CreateOrderPayment(context.Background(), testDraft(5))
	require.NoError(t, err)
	chargeID := created.Link.ChargeID

	f.gateway.SetStatus(chargeID, payment.StatusSucceeded)

	status, err := f.svc.RetrieveOrderPayment(context.Background(), chargeID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSucceeded, status.Charge.Status)
	assert.Equal(t, int64(5), status.Store.ID)
	assert.Equal(t, created.Order.ID, status.Link.OrderID)
	require.NotNil(t, status.Order)
	assert.Equal(t, created.Order.ID, status.Order.ID)
	assert.Equal(t, created.Order.TotalPrice, status.Order.TotalPrice)

	// Successful charge emits the order.paid event.
	assert.Len(t, f.publisher.BySubject(events.SubjectOrderPaid), 1)
}

func TestRetrieveOrderPayment_UnknownCharge(t *testing.T) {
	f := newOrderPaymentFixture(t)

	_, err := f.svc.RetrieveOrderPayment(context.Background(), "chg_never_seen")
	assert.ErrorIs(t, err, domain.ErrOrderPaymentNotFound)

	// Unknown ids never reach the processor.
	assert.Empty(t, f.gateway.CallLog)
}

func TestRetrieveOrderPayment_OrderGone(t *testing.T) {
	f := newOrderPaymentFixture(t)

	created, err := f.svc.CreateOrderPayment(context.Background(), testDraft(5))
	require.NoError(t, err)

	f.orders.GetOrderFunc = func(ctx context.Context, storeID, orderID int64) (*orders.Order, error) {
		return nil, orders.ErrOrderNotFound
	}

	_, err = f.svc.RetrieveOrderPayment(context.Background(), created.Link.ChargeID)
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestRetrieveOrderPayment_PendingEmitsNoEvent(t *testing.T) {
	f := newOrderPaymentFixture(t)

	created, err := f.svc.CreateOrderPayment(context.Background(), testDraft(5))
	require.NoError(t, err)

	status, err := f.svc.RetrieveOrderPayment(context.Background(), created.Link.ChargeID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusInitiated, status.Charge.Status)
	assert.Empty(t, f.publisher.BySubject(events.SubjectOrderPaid))
}
