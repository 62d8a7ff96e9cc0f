package resources

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/kevin07696/gocardless-go/pkg/inflect"
	"github.com/kevin07696/gocardless-go/pkg/timeutil"
	"github.com/shopspring/decimal"
)

const subResourceURIsKey = "sub_resource_uris"

// Resource is a materialized API object. It is immutable once built; related
// objects are fetched fresh through Reference and Collection on every call.
type Resource struct {
	desc  *Descriptor
	reg   *Registry
	api   API
	id    string
	attrs map[string]interface{}
	dates map[string]*time.Time
	refs  map[string]*Reference
	subs  map[string]*Collection
	raw   map[string]interface{}
}

// Materialize builds a Resource of type name from decoded JSON attributes.
// The caller's map is left untouched.
func Materialize(reg *Registry, name string, attrs map[string]interface{}, api API) (*Resource, error) {
	desc, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	raw := deepCopyMap(attrs)
	work := deepCopyMap(attrs)

	id, ok := idString(work["id"])
	if !ok {
		return nil, fmt.Errorf("%w: type %s", pkgerrors.ErrMissingID, desc.Name)
	}

	r := &Resource{
		desc:  desc,
		reg:   reg,
		api:   api,
		id:    id,
		dates: make(map[string]*time.Time),
		refs:  make(map[string]*Reference),
		subs:  make(map[string]*Collection),
		raw:   raw,
	}

	if err := r.bindSubResources(work); err != nil {
		return nil, err
	}
	if err := r.parseDates(work); err != nil {
		return nil, err
	}
	if err := r.bindReferences(work); err != nil {
		return nil, err
	}

	r.attrs = work
	return r, nil
}

func (r *Resource) bindSubResources(work map[string]interface{}) error {
	value, ok := work[subResourceURIsKey]
	if !ok {
		return nil
	}
	delete(work, subResourceURIsKey)
	if value == nil {
		return nil
	}

	uris, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%w: %s is %T", pkgerrors.ErrUnexpectedResponse, subResourceURIsKey, value)
	}
	for name, uri := range uris {
		uriStr, ok := uri.(string)
		if !ok {
			return fmt.Errorf("%w: sub-resource %s uri is %T", pkgerrors.ErrUnexpectedResponse, name, uri)
		}
		desc, err := r.reg.LookupPlural(name)
		if err != nil {
			return fmt.Errorf("sub-resource %s: %w", name, err)
		}
		r.subs[name] = &Collection{
			Name: name,
			Path: RelativePath(uriStr),
			desc: desc,
			reg:  r.reg,
			api:  r.api,
		}
	}
	return nil
}

func (r *Resource) parseDates(work map[string]interface{}) error {
	for _, field := range r.desc.EffectiveDateFields() {
		value := work[field]
		delete(work, field)
		r.dates[field] = nil
		if value == nil {
			continue
		}

		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: date field %s is %T", pkgerrors.ErrUnexpectedResponse, field, value)
		}
		t, err := timeutil.ParseTimestamp(s)
		if err != nil {
			return fmt.Errorf("date field %s: %w", field, err)
		}
		r.dates[field] = &t
	}
	return nil
}

func (r *Resource) bindReferences(work map[string]interface{}) error {
	for _, field := range r.desc.ReferenceFields {
		value, present := work[field]
		delete(work, field)
		if !present || value == nil {
			continue
		}

		id, ok := idString(value)
		if !ok {
			continue
		}
		name := inflect.TrimIDSuffix(field)
		desc, err := r.reg.Lookup(name)
		if err != nil {
			return fmt.Errorf("reference %s: %w", field, err)
		}
		r.refs[name] = &Reference{
			Name: name,
			ID:   id,
			desc: desc,
			reg:  r.reg,
			api:  r.api,
		}
	}
	return nil
}

// ID returns the resource id
func (r *Resource) ID() string { return r.id }

// Kind returns the resource's type descriptor
func (r *Resource) Kind() *Descriptor { return r.desc }

// API returns the client the resource was fetched with
func (r *Resource) API() API { return r.api }

// Endpoint returns the resource's own path, relative to the API prefix
func (r *Resource) Endpoint() string { return r.desc.Path(r.id) }

// Attr returns a plain attribute. Date, reference and sub-resource fields
// are not plain attributes; use Date, Reference and SubResource.
func (r *Resource) Attr(name string) (interface{}, bool) {
	if name == "id" {
		return r.id, true
	}
	v, ok := r.attrs[name]
	return v, ok
}

// Attrs returns the names of all plain attributes, sorted
func (r *Resource) Attrs() []string {
	names := make([]string, 0, len(r.attrs))
	for k := range r.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String returns a plain attribute as a string. Null and non-string values report false.
func (r *Resource) String(name string) (string, bool) {
	v, ok := r.attrs[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Decimal returns a monetary attribute. Amounts arrive as JSON strings.
func (r *Resource) Decimal(name string) (decimal.Decimal, error) {
	v, ok := r.attrs[name]
	if !ok || v == nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, pkgerrors.ErrNotApplicable)
	}
	switch n := v.(type) {
	case string:
		return decimal.NewFromString(n)
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s is %T", pkgerrors.ErrUnexpectedResponse, name, v)
}

// Date returns a parsed date field. ok is false when the field was null or
// absent, or is not a date field of this type.
func (r *Resource) Date(name string) (time.Time, bool) {
	t := r.dates[name]
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// IsDateField reports whether name is one of the type's effective date fields
func (r *Resource) IsDateField(name string) bool {
	_, ok := r.dates[name]
	return ok
}

// Reference returns the accessor for a foreign id, named without its "_id"
// suffix. Null or absent ids have no accessor.
func (r *Resource) Reference(name string) (*Reference, bool) {
	ref, ok := r.refs[name]
	return ref, ok
}

// SubResource returns the collection advertised under name in sub_resource_uris
func (r *Resource) SubResource(name string) (*Collection, bool) {
	c, ok := r.subs[name]
	return c, ok
}

// SubResources returns the advertised collection names, sorted
func (r *Resource) SubResources() []string {
	names := make([]string, 0, len(r.subs))
	for k := range r.subs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Raw returns a copy of the attributes the resource was built from
func (r *Resource) Raw() map[string]interface{} {
	return deepCopyMap(r.raw)
}

// Equal reports whether both resources share a type and were built from
// equal attributes
func (r *Resource) Equal(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.desc == other.desc && reflect.DeepEqual(r.raw, other.raw)
}

// Hash is consistent with Equal: equal resources share an id
func (r *Resource) Hash() uint64 {
	return xxhash.Sum64String(r.id)
}

func idString(v interface{}) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), true
	default:
		return fmt.Sprint(id), true
	}
}

func deepCopyMap(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return val
	}
}
