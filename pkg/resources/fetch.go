package resources

import (
	"context"
	"fmt"

	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
)

// Reference is the accessor installed for a foreign id field
type Reference struct {
	Name string
	ID   string
	desc *Descriptor
	reg  *Registry
	api  API
}

// Kind returns the referenced type
func (ref *Reference) Kind() *Descriptor { return ref.desc }

// Fetch retrieves the referenced resource. Every call is a new request.
func (ref *Reference) Fetch(ctx context.Context) (*Resource, error) {
	return find(ctx, ref.api, ref.reg, ref.desc, ref.ID)
}

// Collection is the accessor installed for a sub_resource_uris entry
type Collection struct {
	Name string
	// Path is relative to the API prefix and may carry its own query string
	Path string
	desc *Descriptor
	reg  *Registry
	api  API
}

// Kind returns the element type
func (c *Collection) Kind() *Descriptor { return c.desc }

// List fetches the collection, passing params through as query parameters.
// Every call is a new request.
func (c *Collection) List(ctx context.Context, params map[string]string) ([]*Resource, error) {
	data, err := c.api.Get(ctx, c.Path, params)
	if err != nil {
		return nil, err
	}

	items, ok := data.([]interface{})
	if !ok {
		if data == nil {
			return []*Resource{}, nil
		}
		return nil, fmt.Errorf("%w: %s returned %T, want a list", pkgerrors.ErrUnexpectedResponse, c.Path, data)
	}

	out := make([]*Resource, 0, len(items))
	for i, item := range items {
		attrs, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s item %d is %T", pkgerrors.ErrUnexpectedResponse, c.Path, i, item)
		}
		res, err := Materialize(c.reg, c.desc.Name, attrs, c.api)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Find fetches a resource of type name by id
func Find(ctx context.Context, api API, reg *Registry, name, id string) (*Resource, error) {
	desc, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	return find(ctx, api, reg, desc, id)
}

func find(ctx context.Context, api API, reg *Registry, desc *Descriptor, id string) (*Resource, error) {
	data, err := api.Get(ctx, desc.Path(id), nil)
	if err != nil {
		return nil, err
	}
	return fromResponse(reg, desc.Name, data, api)
}

// fromResponse materializes a decoded response body. A nil body yields a nil
// resource and no error.
func fromResponse(reg *Registry, name string, data interface{}, api API) (*Resource, error) {
	if data == nil {
		return nil, nil
	}
	attrs, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s response is %T", pkgerrors.ErrUnexpectedResponse, name, data)
	}
	return Materialize(reg, name, attrs, api)
}

func findAs[T any](ctx context.Context, api API, reg *Registry, desc *Descriptor, id string, as func(*Resource) (T, error)) (T, error) {
	var zero T
	res, err := Find(ctx, api, reg, desc.Name, id)
	if err != nil {
		return zero, err
	}
	return as(res)
}

func FindMerchant(ctx context.Context, api API, reg *Registry, id string) (*Merchant, error) {
	return findAs(ctx, api, reg, MerchantDescriptor, id, AsMerchant)
}

func FindUser(ctx context.Context, api API, reg *Registry, id string) (*User, error) {
	return findAs(ctx, api, reg, UserDescriptor, id, AsUser)
}

func FindBill(ctx context.Context, api API, reg *Registry, id string) (*Bill, error) {
	return findAs(ctx, api, reg, BillDescriptor, id, AsBill)
}

func FindSubscription(ctx context.Context, api API, reg *Registry, id string) (*Subscription, error) {
	return findAs(ctx, api, reg, SubscriptionDescriptor, id, AsSubscription)
}

func FindPreAuthorization(ctx context.Context, api API, reg *Registry, id string) (*PreAuthorization, error) {
	return findAs(ctx, api, reg, PreAuthorizationDescriptor, id, AsPreAuthorization)
}

func FindPayout(ctx context.Context, api API, reg *Registry, id string) (*Payout, error) {
	return findAs(ctx, api, reg, PayoutDescriptor, id, AsPayout)
}

// NewCollection binds a list endpoint to the element type resolved from its
// plural name, e.g. "users" at "/merchants/{id}/users"
func NewCollection(reg *Registry, name, path string, api API) (*Collection, error) {
	desc, err := reg.LookupPlural(name)
	if err != nil {
		return nil, err
	}
	return &Collection{Name: name, Path: path, desc: desc, reg: reg, api: api}, nil
}
