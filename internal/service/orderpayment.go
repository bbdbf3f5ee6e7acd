package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/events"
	"github.com/robaa12/user-service/internal/orders"
	"github.com/robaa12/user-service/internal/payment"
)

// OrderPaymentResult is the outcome of coordinating an order payment:
// the order created at the order service, the ledger link, and the
// hosted payment page for the customer.
type OrderPaymentResult struct {
	Order       *orders.Order
	Link        *domain.StoreOrderPayment
	RedirectURL string
}

// OrderPaymentStatus is the current state of an order's charge, with the
// order and owning store resolved for the storefront.
type OrderPaymentStatus struct {
	Charge *payment.Charge
	Order  *orders.Order
	Store  *domain.Store
	Link   *domain.StoreOrderPayment
}

// OrderPaymentService coordinates storefront order payments: it creates
// the order remotely, opens the charge, and links the two so the charge
// id can be traced back to the order later.
type OrderPaymentService interface {
	// CreateOrderPayment runs the order-then-charge sequence. If the
	// charge cannot be opened after the order was created, the order is
	// voided best-effort before the error is returned.
	CreateOrderPayment(ctx context.Context, draft orders.OrderDraft) (*OrderPaymentResult, error)

	// RetrieveOrderPayment reports the charge's current processor state
	// for a previously linked order payment.
	RetrieveOrderPayment(ctx context.Context, chargeID string) (*OrderPaymentStatus, error)
}

type orderPaymentService struct {
	stores    domain.StoreRepository
	ledger    domain.PaymentRepository
	orders    orders.Client
	gateway   payment.Gateway
	publisher events.Publisher
	logger    zerolog.Logger
	cfg       PaymentConfig
}

// NewOrderPaymentService creates a new OrderPaymentService instance.
func NewOrderPaymentService(
	stores domain.StoreRepository,
	ledger domain.PaymentRepository,
	ordersClient orders.Client,
	gateway payment.Gateway,
	publisher events.Publisher,
	logger zerolog.Logger,
	cfg PaymentConfig,
) OrderPaymentService {
	return &orderPaymentService{
		stores:    stores,
		ledger:    ledger,
		orders:    ordersClient,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateOrderPayment creates the order remotely, then opens its charge.
func (s *orderPaymentService) CreateOrderPayment(ctx context.Context, draft orders.OrderDraft) (*OrderPaymentResult, error) {
	store, err := s.stores.GetStore(ctx, draft.StoreID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		return nil, domain.WrapError(err, domain.EGATEWAY, "order_payment.create", "failed to create order")
	}

	currency := store.StoreCurrency
	if currency == "" {
		currency = s.cfg.Currency
	}

	charge, err := s.gateway.CreateCharge(ctx, payment.CreateChargeParams{
		Amount:        draft.TotalPrice,
		Currency:      currency,
		CustomerName:  draft.CustomerName,
		CustomerEmail: draft.Email,
		CustomerPhone: draft.PhoneNumber,
		RedirectURL:   s.cfg.RedirectURL,
		PostURL:       s.cfg.PostURL,
		Description:   fmt.Sprintf("Order #%d at %s", order.ID, store.StoreName),
		Metadata: map[string]string{
			"order_id": strconv.FormatInt(order.ID, 10),
			"store_id": strconv.FormatInt(store.ID, 10),
		},
	})
	if err != nil {
		// The order exists remotely but cannot be paid. Void it so the
		// storefront does not accumulate unpayable orders.
		if verr := s.orders.VoidOrder(ctx, store.ID, order.ID); verr != nil {
			s.logger.Error().Err(verr).
				Int64("order_id", order.ID).
				Int64("store_id", store.ID).
				Msg("failed to void order after charge failure")
		}
		return nil, gatewayError(err, "order_payment.create", "failed to open charge with processor")
	}

	link, err := s.ledger.CreateStoreOrderPayment(ctx, domain.StoreOrderPayment{
		StoreID:  store.ID,
		OrderID:  order.ID,
		ChargeID: charge.ID,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("charge_id", charge.ID).
			Int64("order_id", order.ID).
			Msg("charge opened but order payment link failed")
		return nil, err
	}

	return &OrderPaymentResult{
		Order:       order,
		Link:        link,
		RedirectURL: charge.PaymentURL,
	}, nil
}

// RetrieveOrderPayment reports the charge state for a linked order.
func (s *orderPaymentService) RetrieveOrderPayment(ctx context.Context, chargeID string) (*OrderPaymentStatus, error) {
	if chargeID == "" {
		return nil, ErrMissingChargeID
	}

	link, err := s.ledger.GetStoreOrderPaymentByChargeID(ctx, chargeID)
	if err != nil {
		return nil, err
	}

	charge, err := s.gateway.RetrieveCharge(ctx, chargeID)
	if err != nil {
		return nil, gatewayError(err, "order_payment.retrieve", "failed to retrieve charge from processor")
	}

	store, err := s.stores.GetStore(ctx, link.StoreID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, link.StoreID, link.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			return nil, domain.WrapError(err, domain.ENOTFOUND, "order_payment.retrieve", "order no longer exists")
		}
		return nil, domain.WrapError(err, domain.EGATEWAY, "order_payment.retrieve", "failed to retrieve order")
	}

	if charge.Status == payment.StatusSucceeded {
		// Consumers dedupe by charge_id; repeated retrievals may emit
		// the event more than once.
		perr := s.publisher.Publish(ctx, events.SubjectOrderPaid, events.OrderPaidEvent{
			ChargeID: chargeID,
			OrderID:  link.OrderID,
			StoreID:  link.StoreID,
			Amount:   charge.Amount,
			Currency: charge.Currency,
		})
		if perr != nil {
			s.logger.Warn().Err(perr).
				Str("charge_id", chargeID).
				Msg("failed to publish order paid event")
		}
	}

	return &OrderPaymentStatus{
		Charge: charge,
		Order:  order,
		Store:  store,
		Link:   link,
	}, nil
}
