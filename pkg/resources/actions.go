package resources

import (
	"context"
	"time"

	"github.com/kevin07696/gocardless-go/pkg/signing"
	"github.com/kevin07696/gocardless-go/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// Actions issue exactly one request against the receiver's endpoint and
// return the resource decoded from the response. The receiver itself is
// never updated; a response with no body yields a nil result.

func (s *Subscription) Cancel(ctx context.Context) (*Subscription, error) {
	res, err := runAction(ctx, s.Resource, s.api.Put, "cancel")
	if err != nil {
		return nil, err
	}
	return AsSubscription(res)
}

func (p *PreAuthorization) Cancel(ctx context.Context) (*PreAuthorization, error) {
	res, err := runAction(ctx, p.Resource, p.api.Put, "cancel")
	if err != nil {
		return nil, err
	}
	return AsPreAuthorization(res)
}

func (b *Bill) Cancel(ctx context.Context) (*Bill, error) {
	res, err := runAction(ctx, b.Resource, b.api.Put, "cancel")
	if err != nil {
		return nil, err
	}
	return AsBill(res)
}

// Retry resubmits a failed bill for collection
func (b *Bill) Retry(ctx context.Context) (*Bill, error) {
	res, err := runAction(ctx, b.Resource, b.api.Post, "retry")
	if err != nil {
		return nil, err
	}
	return AsBill(res)
}

func (b *Bill) Refund(ctx context.Context) (*Bill, error) {
	res, err := runAction(ctx, b.Resource, b.api.Post, "refund")
	if err != nil {
		return nil, err
	}
	return AsBill(res)
}

// BillOptions are the optional fields of a bill raised under a pre-authorization
type BillOptions struct {
	Name             string
	Description      string
	Currency         string
	ChargeCustomerAt *time.Time
}

// CreateBill raises a bill against this pre-authorization
func (p *PreAuthorization) CreateBill(ctx context.Context, amount decimal.Decimal, opts BillOptions) (*Bill, error) {
	return CreateBill(ctx, p.api, p.reg, amount, p.id, opts)
}

// CreateBill posts a new bill under the given pre-authorization
func CreateBill(ctx context.Context, api API, reg *Registry, amount decimal.Decimal, preAuthID string, opts BillOptions) (*Bill, error) {
	bill := map[string]interface{}{
		"amount":               signing.Stringify(amount),
		"pre_authorization_id": preAuthID,
	}
	if opts.Name != "" {
		bill["name"] = opts.Name
	}
	if opts.Description != "" {
		bill["description"] = opts.Description
	}
	if opts.Currency != "" {
		bill["currency"] = opts.Currency
	}
	if opts.ChargeCustomerAt != nil {
		bill["charge_customer_at"] = timeutil.FormatTimestamp(*opts.ChargeCustomerAt)
	}

	data, err := api.Post(ctx, "/bills", map[string]interface{}{"bill": bill})
	if err != nil {
		return nil, err
	}
	res, err := fromResponse(reg, BillDescriptor.Name, data, api)
	if err != nil {
		return nil, err
	}
	return AsBill(res)
}

type requestFunc func(ctx context.Context, path string, body interface{}) (interface{}, error)

func runAction(ctx context.Context, r *Resource, do requestFunc, action string) (*Resource, error) {
	data, err := do(ctx, r.Endpoint()+"/"+action, nil)
	if err != nil {
		return nil, err
	}
	return fromResponse(r.reg, r.desc.Name, data, r.api)
}
