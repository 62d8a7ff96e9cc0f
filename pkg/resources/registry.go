package resources

import (
	"fmt"
	"sync"

	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/kevin07696/gocardless-go/pkg/inflect"
)

// Registry resolves type names to descriptors. Lookups accept either the
// snake_case singular name or its camelized form, so "pre_authorization" and
// "PreAuthorization" resolve to the same type.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Descriptor
}

// NewRegistry creates a registry holding the given descriptors
func NewRegistry(descs ...*Descriptor) *Registry {
	r := &Registry{kinds: make(map[string]*Descriptor, len(descs))}
	for _, d := range descs {
		r.Register(d)
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry of the API's resource types
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(
			MerchantDescriptor,
			UserDescriptor,
			BillDescriptor,
			SubscriptionDescriptor,
			PreAuthorizationDescriptor,
			PayoutDescriptor,
		)
	})
	return defaultRegistry
}

// Register adds or replaces a descriptor
func (r *Registry) Register(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[inflect.Camelize(d.Name)] = d
}

// Lookup returns the descriptor registered under name
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.kinds[inflect.Camelize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrUnknownResourceType, name)
	}
	return d, nil
}

// LookupPlural resolves a plural collection name such as "pre_authorizations"
func (r *Registry) LookupPlural(name string) (*Descriptor, error) {
	return r.Lookup(inflect.Singularize(name))
}
