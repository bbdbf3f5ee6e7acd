package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/events"
	"github.com/robaa12/user-service/internal/payment"
)

// PaymentConfig carries the processor-facing settings of the ledger.
type PaymentConfig struct {
	// Currency for every subscription charge, e.g. "EGP".
	Currency string

	// RedirectURL is where the processor sends the customer's browser
	// after payment. The processor appends the charge id as tap_id.
	RedirectURL string

	// PostURL receives the processor's server-to-server notification.
	PostURL string

	// EntitlementPeriod is how long a successful payment extends the
	// user's plan. 30 days.
	EntitlementPeriod time.Duration
}

// PaymentSession is the outcome of opening a subscription payment: the
// pending ledger record plus the hosted payment page the customer must
// be sent to.
type PaymentSession struct {
	Payment     *domain.SubscriptionPayment
	RedirectURL string
}

// ReconcileResult reports the processor's verdict and the ledger record
// after reconciliation.
type ReconcileResult struct {
	ChargeStatus payment.ChargeStatus
	Payment      *domain.SubscriptionPayment
}

// PaymentService is the subscription payment ledger: it opens charges
// with the processor and reconciles their outcomes into entitlements.
type PaymentService interface {
	// OpenSubscriptionPayment opens a charge for the plan and records it
	// as pending. The caller redirects the customer to the returned URL.
	OpenSubscriptionPayment(ctx context.Context, userID, planID int64) (*PaymentSession, error)

	// Reconcile pulls the charge's state from the processor and settles
	// the ledger record. Idempotent: a terminal record is returned as-is
	// without touching the processor, and the plan entitlement is applied
	// exactly once no matter how many times the callback fires.
	Reconcile(ctx context.Context, chargeID string) (*ReconcileResult, error)
}

type paymentService struct {
	users     domain.UserRepository
	plans     domain.PlanRepository
	ledger    domain.PaymentRepository
	gateway   payment.Gateway
	publisher events.Publisher
	logger    zerolog.Logger
	cfg       PaymentConfig
}

// NewPaymentService creates a new PaymentService instance.
func NewPaymentService(
	users domain.UserRepository,
	plans domain.PlanRepository,
	ledger domain.PaymentRepository,
	gateway payment.Gateway,
	publisher events.Publisher,
	logger zerolog.Logger,
	cfg PaymentConfig,
) PaymentService {
	if cfg.EntitlementPeriod == 0 {
		cfg.EntitlementPeriod = 30 * 24 * time.Hour
	}
	return &paymentService{
		users:     users,
		plans:     plans,
		ledger:    ledger,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// OpenSubscriptionPayment opens a charge and records it as pending.
func (s *paymentService) OpenSubscriptionPayment(ctx context.Context, userID, planID int64) (*PaymentSession, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}
	if plan.Price <= 0 {
		return nil, ErrFreePlanPayment
	}

	charge, err := s.gateway.CreateCharge(ctx, payment.CreateChargeParams{
		Amount:        plan.Price,
		Currency:      s.cfg.Currency,
		CustomerName:  user.FullName(),
		CustomerEmail: user.Email,
		CustomerPhone: user.PhoneNumber,
		RedirectURL:   s.cfg.RedirectURL,
		PostURL:       s.cfg.PostURL,
		Description:   fmt.Sprintf("Subscription: %s", plan.Name),
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(user.ID, 10),
			"plan_id": strconv.FormatInt(plan.ID, 10),
		},
	})
	if err != nil {
		return nil, gatewayError(err, "payment.open", "failed to open charge with processor")
	}

	record, err := s.ledger.CreateSubscriptionPayment(ctx, domain.CreateSubscriptionPaymentParams{
		UserID:   user.ID,
		PlanID:   plan.ID,
		ChargeID: charge.ID,
		Amount:   plan.Price,
		Currency: s.cfg.Currency,
		Status:   domain.PaymentStatusPending,
	})
	if err != nil {
		// The charge exists at the processor but has no ledger row; the
		// charge id in the log is the handle for manual repair.
		s.logger.Error().Err(err).
			Str("charge_id", charge.ID).
			Int64("user_id", user.ID).
			Msg("charge opened but ledger record failed")
		return nil, err
	}

	return &PaymentSession{
		Payment:     record,
		RedirectURL: charge.PaymentURL,
	}, nil
}

// Reconcile settles a charge against the ledger.
func (s *paymentService) Reconcile(ctx context.Context, chargeID string) (*ReconcileResult, error) {
	if chargeID == "" {
		return nil, ErrMissingChargeID
	}

	record, err := s.ledger.GetSubscriptionPaymentByChargeID(ctx, chargeID)
	if err != nil {
		// Unknown charge ids never create or mutate state.
		return nil, err
	}

	// Terminal records short-circuit without a processor round trip.
	if record.Status.Terminal() {
		return &ReconcileResult{
			ChargeStatus: chargeStatusFor(record.Status),
			Payment:      record,
		}, nil
	}

	charge, err := s.gateway.RetrieveCharge(ctx, chargeID)
	if err != nil {
		return nil, gatewayError(err, "payment.reconcile", "failed to retrieve charge from processor")
	}

	switch charge.Status {
	case payment.StatusSucceeded:
		expireAt := time.Now().UTC().Add(s.cfg.EntitlementPeriod)
		updated, won, err := s.ledger.MarkSucceeded(ctx, chargeID, expireAt)
		if err != nil {
			return nil, err
		}
		if won {
			s.publish(ctx, events.SubjectPaymentSucceeded, updated)
		}
		return &ReconcileResult{ChargeStatus: payment.StatusSucceeded, Payment: updated}, nil

	case payment.StatusFailed, payment.StatusCancelled:
		updated, won, err := s.ledger.MarkFailed(ctx, chargeID)
		if err != nil {
			return nil, err
		}
		if won {
			s.publish(ctx, events.SubjectPaymentFailed, updated)
		}
		return &ReconcileResult{ChargeStatus: charge.Status, Payment: updated}, nil

	default:
		// Initiated, pending, or a status this system does not recognize.
		// Leave the ledger untouched; the customer can retry the callback.
		if charge.Status == payment.StatusUnknown {
			s.logger.Warn().
				Str("charge_id", chargeID).
				Str("raw_status", charge.RawStatus).
				Msg("processor reported unrecognized charge status")
		}
		return &ReconcileResult{ChargeStatus: charge.Status, Payment: record}, nil
	}
}

func (s *paymentService) publish(ctx context.Context, subject string, p *domain.SubscriptionPayment) {
	err := s.publisher.Publish(ctx, subject, events.PaymentEvent{
		ChargeID: p.ChargeID,
		UserID:   p.UserID,
		PlanID:   p.PlanID,
		Amount:   p.Amount,
		Currency: p.Currency,
		Status:   string(p.Status),
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("subject", subject).
			Str("charge_id", p.ChargeID).
			Msg("failed to publish payment event")
	}
}

// gatewayError maps a processor failure to a domain error. Transient
// failures (timeouts, 429, 5xx) surface as EGATEWAY so the client knows
// to retry later; definitive rejections map to EINVALID.
func gatewayError(err error, op, message string) error {
	var gerr *payment.GatewayError
	if errors.As(err, &gerr) && !gerr.IsTemporary() {
		return domain.WrapError(err, domain.EINVALID, op, message)
	}
	return domain.WrapError(err, domain.EGATEWAY, op, message)
}

func chargeStatusFor(status domain.PaymentStatus) payment.ChargeStatus {
	switch status {
	case domain.PaymentStatusSucceeded:
		return payment.StatusSucceeded
	case domain.PaymentStatusFailed:
		return payment.StatusFailed
	default:
		return payment.StatusPending
	}
}
