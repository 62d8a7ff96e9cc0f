package urlbuilder

import (
	"fmt"
	"time"

	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/kevin07696/gocardless-go/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// IntervalUnit is the unit an interval_length is measured in
type IntervalUnit string

const (
	IntervalDay   IntervalUnit = "day"
	IntervalWeek  IntervalUnit = "week"
	IntervalMonth IntervalUnit = "month"
)

// Valid reports whether u is one of day, week or month
func (u IntervalUnit) Valid() bool {
	switch u {
	case IntervalDay, IntervalWeek, IntervalMonth:
		return true
	}
	return false
}

// Params is a validated resource creation parameter set
type Params interface {
	// ResourceName is the plural resource name used in /connect/{name}/new
	ResourceName() string
	// ToMap returns only the populated fields, dates already serialized
	ToMap() map[string]interface{}
}

// BillOptions are the optional fields of a one-off bill
type BillOptions struct {
	Name        string
	Description string
	Currency    string
	User        map[string]interface{} // prepopulation data for the payer
}

// SubscriptionOptions are the optional fields of a subscription
type SubscriptionOptions struct {
	Name          string
	Description   string
	Currency      string
	User          map[string]interface{}
	IntervalCount *int
	StartAt       *time.Time
	ExpiresAt     *time.Time
	SetupFee      *decimal.Decimal

	// Now overrides the clock used for future-date checks
	Now func() time.Time
}

// PreAuthorizationOptions are the optional fields of a pre-authorization
type PreAuthorizationOptions struct {
	Name              string
	Description       string
	Currency          string
	User              map[string]interface{}
	IntervalCount     *int
	ExpiresAt         *time.Time
	CalendarIntervals bool
	SetupFee          *decimal.Decimal

	Now func() time.Time
}

// BillParams holds validated parameters for a new bill
type BillParams struct {
	amount     decimal.Decimal
	merchantID string
	opts       BillOptions
}

// NewBillParams validates and builds bill parameters
func NewBillParams(amount decimal.Decimal, merchantID string, opts BillOptions) (*BillParams, error) {
	if err := validateAmount("amount", amount); err != nil {
		return nil, err
	}
	opts.User = copyMap(opts.User)
	return &BillParams{amount: amount, merchantID: merchantID, opts: opts}, nil
}

// ResourceName implements Params
func (p *BillParams) ResourceName() string { return "bills" }

// Amount returns the bill amount
func (p *BillParams) Amount() decimal.Decimal { return p.amount }

// ToMap implements Params
func (p *BillParams) ToMap() map[string]interface{} {
	m := map[string]interface{}{"amount": p.amount}
	setString(m, "merchant_id", p.merchantID)
	setString(m, "name", p.opts.Name)
	setString(m, "description", p.opts.Description)
	setString(m, "currency", p.opts.Currency)
	setMap(m, "user", p.opts.User)
	return m
}

// SubscriptionParams holds validated parameters for a new subscription
type SubscriptionParams struct {
	amount         decimal.Decimal
	merchantID     string
	intervalLength int
	intervalUnit   IntervalUnit
	opts           SubscriptionOptions
}

// NewSubscriptionParams validates and builds subscription parameters
func NewSubscriptionParams(amount decimal.Decimal, merchantID string, intervalLength int, intervalUnit IntervalUnit, opts SubscriptionOptions) (*SubscriptionParams, error) {
	if err := validateAmount("amount", amount); err != nil {
		return nil, err
	}
	if err := validateInterval(intervalLength, intervalUnit, opts.IntervalCount); err != nil {
		return nil, err
	}

	now := clock(opts.Now)
	if opts.ExpiresAt != nil {
		if err := validateFuture("expires_at", *opts.ExpiresAt, now); err != nil {
			return nil, err
		}
	}
	if opts.StartAt != nil {
		if err := validateFuture("start_at", *opts.StartAt, now); err != nil {
			return nil, err
		}
	}
	if opts.StartAt != nil && opts.ExpiresAt != nil && !opts.StartAt.Before(*opts.ExpiresAt) {
		return nil, pkgerrors.NewValidationError("start_at", "start_at must be before expires_at")
	}

	opts.User = copyMap(opts.User)
	return &SubscriptionParams{
		amount:         amount,
		merchantID:     merchantID,
		intervalLength: intervalLength,
		intervalUnit:   intervalUnit,
		opts:           opts,
	}, nil
}

// ResourceName implements Params
func (p *SubscriptionParams) ResourceName() string { return "subscriptions" }

// ToMap implements Params
func (p *SubscriptionParams) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"amount":          p.amount,
		"interval_length": p.intervalLength,
		"interval_unit":   string(p.intervalUnit),
	}
	setString(m, "merchant_id", p.merchantID)
	setString(m, "name", p.opts.Name)
	setString(m, "description", p.opts.Description)
	setString(m, "currency", p.opts.Currency)
	setMap(m, "user", p.opts.User)
	setTime(m, "start_at", p.opts.StartAt)
	setTime(m, "expires_at", p.opts.ExpiresAt)
	if p.opts.ExpiresAt == nil {
		setInt(m, "interval_count", p.opts.IntervalCount)
	}
	setDecimal(m, "setup_fee", p.opts.SetupFee)
	return m
}

// PreAuthorizationParams holds validated parameters for a new pre-authorization
type PreAuthorizationParams struct {
	maxAmount      decimal.Decimal
	merchantID     string
	intervalLength int
	intervalUnit   IntervalUnit
	opts           PreAuthorizationOptions
}

// NewPreAuthorizationParams validates and builds pre-authorization parameters
func NewPreAuthorizationParams(maxAmount decimal.Decimal, merchantID string, intervalLength int, intervalUnit IntervalUnit, opts PreAuthorizationOptions) (*PreAuthorizationParams, error) {
	if err := validateAmount("max_amount", maxAmount); err != nil {
		return nil, err
	}
	if err := validateInterval(intervalLength, intervalUnit, opts.IntervalCount); err != nil {
		return nil, err
	}
	if opts.ExpiresAt != nil {
		if err := validateFuture("expires_at", *opts.ExpiresAt, clock(opts.Now)); err != nil {
			return nil, err
		}
	}

	opts.User = copyMap(opts.User)
	return &PreAuthorizationParams{
		maxAmount:      maxAmount,
		merchantID:     merchantID,
		intervalLength: intervalLength,
		intervalUnit:   intervalUnit,
		opts:           opts,
	}, nil
}

// ResourceName implements Params
func (p *PreAuthorizationParams) ResourceName() string { return "pre_authorizations" }

// ToMap implements Params
func (p *PreAuthorizationParams) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"max_amount":      p.maxAmount,
		"interval_length": p.intervalLength,
		"interval_unit":   string(p.intervalUnit),
	}
	setString(m, "merchant_id", p.merchantID)
	setString(m, "name", p.opts.Name)
	setString(m, "description", p.opts.Description)
	setString(m, "currency", p.opts.Currency)
	setMap(m, "user", p.opts.User)
	setTime(m, "expires_at", p.opts.ExpiresAt)
	if p.opts.ExpiresAt == nil {
		setInt(m, "interval_count", p.opts.IntervalCount)
	}
	if p.opts.CalendarIntervals {
		m["calendar_intervals"] = true
	}
	setDecimal(m, "setup_fee", p.opts.SetupFee)
	return m
}

func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return pkgerrors.NewValidationError(field, fmt.Sprintf("%s must be positive, value passed was %s", field, amount.String()))
	}
	return nil
}

func validateInterval(length int, unit IntervalUnit, count *int) error {
	if length <= 0 {
		return pkgerrors.NewValidationError("interval_length", fmt.Sprintf("interval_length must be positive, value passed was %d", length))
	}
	if !unit.Valid() {
		return pkgerrors.NewValidationError("interval_unit", fmt.Sprintf("interval_unit must be one of [day week month], value passed was %s", unit))
	}
	if count != nil && *count <= 0 {
		return pkgerrors.NewValidationError("interval_count", fmt.Sprintf("interval_count must be positive, value passed was %d", *count))
	}
	return nil
}

func validateFuture(field string, t, now time.Time) error {
	if !t.After(now) {
		return pkgerrors.NewValidationError(field, fmt.Sprintf("%s must be in the future, date passed was %s", field, timeutil.FormatTimestamp(t)))
	}
	return nil
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return timeutil.Now()
}

func copyMap(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func setString(m map[string]interface{}, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func setMap(m map[string]interface{}, key string, value map[string]interface{}) {
	if len(value) > 0 {
		m[key] = copyMap(value)
	}
}

func setTime(m map[string]interface{}, key string, value *time.Time) {
	if value != nil {
		m[key] = timeutil.FormatTimestamp(*value)
	}
}

func setInt(m map[string]interface{}, key string, value *int) {
	if value != nil {
		m[key] = *value
	}
}

func setDecimal(m map[string]interface{}, key string, value *decimal.Decimal) {
	if value != nil && !value.IsZero() {
		m[key] = *value
	}
}
