package resources

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/shopspring/decimal"
)

// Merchant is a merchant account
type Merchant struct{ *Resource }

// User is a customer paying a merchant
type User struct{ *Resource }

// Bill is a single payment
type Bill struct{ *Resource }

// Subscription is a fixed recurring payment
type Subscription struct{ *Resource }

// PreAuthorization is a mandate to raise variable bills up to a maximum
type PreAuthorization struct{ *Resource }

// Payout is a transfer of collected funds to the merchant
type Payout struct{ *Resource }

func wrap[T any](r *Resource, want *Descriptor, ctor func(*Resource) T) (T, error) {
	var zero T
	if r == nil {
		return zero, nil
	}
	if r.desc.Name != want.Name {
		return zero, fmt.Errorf("%w: got %s, want %s", pkgerrors.ErrKindMismatch, r.desc.Name, want.Name)
	}
	return ctor(r), nil
}

// AsMerchant narrows a generic resource
func AsMerchant(r *Resource) (*Merchant, error) {
	return wrap(r, MerchantDescriptor, func(r *Resource) *Merchant { return &Merchant{r} })
}

// AsUser narrows a generic resource
func AsUser(r *Resource) (*User, error) {
	return wrap(r, UserDescriptor, func(r *Resource) *User { return &User{r} })
}

// AsBill narrows a generic resource
func AsBill(r *Resource) (*Bill, error) {
	return wrap(r, BillDescriptor, func(r *Resource) *Bill { return &Bill{r} })
}

// AsSubscription narrows a generic resource
func AsSubscription(r *Resource) (*Subscription, error) {
	return wrap(r, SubscriptionDescriptor, func(r *Resource) *Subscription { return &Subscription{r} })
}

// AsPreAuthorization narrows a generic resource
func AsPreAuthorization(r *Resource) (*PreAuthorization, error) {
	return wrap(r, PreAuthorizationDescriptor, func(r *Resource) *PreAuthorization { return &PreAuthorization{r} })
}

// AsPayout narrows a generic resource
func AsPayout(r *Resource) (*Payout, error) {
	return wrap(r, PayoutDescriptor, func(r *Resource) *Payout { return &Payout{r} })
}

func fetchReference[T any](ctx context.Context, r *Resource, name string, as func(*Resource) (T, error)) (T, error) {
	var zero T
	ref, ok := r.Reference(name)
	if !ok {
		return zero, fmt.Errorf("%s: %w", name, pkgerrors.ErrNotApplicable)
	}
	res, err := ref.Fetch(ctx)
	if err != nil {
		return zero, err
	}
	return as(res)
}

func listSubResource[T any](ctx context.Context, r *Resource, name string, params map[string]string, as func(*Resource) (T, error)) ([]T, error) {
	c, ok := r.SubResource(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, pkgerrors.ErrNotApplicable)
	}
	items, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		typed, err := as(item)
		if err != nil {
			return nil, err
		}
		out = append(out, typed)
	}
	return out, nil
}

func (r *Resource) str(name string) string {
	s, _ := r.String(name)
	return s
}

// CreatedAt is set on every resource the API returns
func (r *Resource) CreatedAt() (time.Time, bool) { return r.Date("created_at") }

// Merchant

func (m *Merchant) Name() string  { return m.str("name") }
func (m *Merchant) Email() string { return m.str("email") }

func (m *Merchant) Balance() (decimal.Decimal, error)          { return m.Decimal("balance") }
func (m *Merchant) PendingBalance() (decimal.Decimal, error)   { return m.Decimal("pending_balance") }
func (m *Merchant) NextPayoutAmount() (decimal.Decimal, error) { return m.Decimal("next_payout_amount") }
func (m *Merchant) NextPayoutDate() (time.Time, bool)          { return m.Date("next_payout_date") }

func (m *Merchant) Users(ctx context.Context, params map[string]string) ([]*User, error) {
	return listSubResource(ctx, m.Resource, "users", params, AsUser)
}

func (m *Merchant) Bills(ctx context.Context, params map[string]string) ([]*Bill, error) {
	return listSubResource(ctx, m.Resource, "bills", params, AsBill)
}

func (m *Merchant) Subscriptions(ctx context.Context, params map[string]string) ([]*Subscription, error) {
	return listSubResource(ctx, m.Resource, "subscriptions", params, AsSubscription)
}

func (m *Merchant) PreAuthorizations(ctx context.Context, params map[string]string) ([]*PreAuthorization, error) {
	return listSubResource(ctx, m.Resource, "pre_authorizations", params, AsPreAuthorization)
}

func (m *Merchant) Payouts(ctx context.Context, params map[string]string) ([]*Payout, error) {
	return listSubResource(ctx, m.Resource, "payouts", params, AsPayout)
}

// User

func (u *User) Email() string     { return u.str("email") }
func (u *User) FirstName() string { return u.str("first_name") }
func (u *User) LastName() string  { return u.str("last_name") }

// Bill

func (b *Bill) Amount() (decimal.Decimal, error) { return b.Decimal("amount") }
func (b *Bill) Status() string                   { return b.str("status") }
func (b *Bill) SourceType() string               { return b.str("source_type") }
func (b *Bill) SourceID() string                 { return b.str("source_id") }
func (b *Bill) PaidAt() (time.Time, bool)        { return b.Date("paid_at") }

func (b *Bill) Merchant(ctx context.Context) (*Merchant, error) {
	return fetchReference(ctx, b.Resource, "merchant", AsMerchant)
}

func (b *Bill) User(ctx context.Context) (*User, error) {
	return fetchReference(ctx, b.Resource, "user", AsUser)
}

func (b *Bill) Payout(ctx context.Context) (*Payout, error) {
	return fetchReference(ctx, b.Resource, "payout", AsPayout)
}

// Subscription

func (s *Subscription) Amount() (decimal.Decimal, error) { return s.Decimal("amount") }
func (s *Subscription) Status() string                   { return s.str("status") }
func (s *Subscription) ExpiresAt() (time.Time, bool)     { return s.Date("expires_at") }
func (s *Subscription) NextIntervalStart() (time.Time, bool) {
	return s.Date("next_interval_start")
}

func (s *Subscription) User(ctx context.Context) (*User, error) {
	return fetchReference(ctx, s.Resource, "user", AsUser)
}

func (s *Subscription) Merchant(ctx context.Context) (*Merchant, error) {
	return fetchReference(ctx, s.Resource, "merchant", AsMerchant)
}

func (s *Subscription) Bills(ctx context.Context, params map[string]string) ([]*Bill, error) {
	return listSubResource(ctx, s.Resource, "bills", params, AsBill)
}

// PreAuthorization

func (p *PreAuthorization) MaxAmount() (decimal.Decimal, error)       { return p.Decimal("max_amount") }
func (p *PreAuthorization) RemainingAmount() (decimal.Decimal, error) { return p.Decimal("remaining_amount") }
func (p *PreAuthorization) Status() string                            { return p.str("status") }
func (p *PreAuthorization) ExpiresAt() (time.Time, bool)              { return p.Date("expires_at") }
func (p *PreAuthorization) NextIntervalStart() (time.Time, bool) {
	return p.Date("next_interval_start")
}

func (p *PreAuthorization) User(ctx context.Context) (*User, error) {
	return fetchReference(ctx, p.Resource, "user", AsUser)
}

func (p *PreAuthorization) Merchant(ctx context.Context) (*Merchant, error) {
	return fetchReference(ctx, p.Resource, "merchant", AsMerchant)
}

func (p *PreAuthorization) Bills(ctx context.Context, params map[string]string) ([]*Bill, error) {
	return listSubResource(ctx, p.Resource, "bills", params, AsBill)
}

// Payout

func (p *Payout) Amount() (decimal.Decimal, error) { return p.Decimal("amount") }
func (p *Payout) PaidAt() (time.Time, bool)        { return p.Date("paid_at") }

func (p *Payout) Bills(ctx context.Context, params map[string]string) ([]*Bill, error) {
	return listSubResource(ctx, p.Resource, "bills", params, AsBill)
}
