package service

import (
	"github.com/robaa12/user-service/internal/domain"
)

// Validation errors - use domain.EINVALID
var (
	ErrPlanInactive     = domain.Errorf(domain.EINVALID, "", "Plan is not active")
	ErrFreePlanPayment  = domain.Errorf(domain.EINVALID, "", "Plan has no charge to pay")
	ErrEmptyStoreName   = domain.Errorf(domain.EINVALID, "", "Store name must contain at least one letter or digit")
	ErrMissingChargeID  = domain.Errorf(domain.EINVALID, "", "Charge id is required")
	ErrInvalidPlanPrice = domain.Errorf(domain.EINVALID, "", "Plan price must not be negative")
	ErrInvalidQuota     = domain.Errorf(domain.EINVALID, "", "Plan store quota must be greater than 0")
)

// Gateway errors - use domain.EGATEWAY
var (
	ErrGatewayUnavailable = domain.Errorf(domain.EGATEWAY, "", "Payment processor is unavailable")
)
