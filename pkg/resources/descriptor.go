package resources

import "strings"

// Descriptor is the static declaration of a resource type.
// Date fields are inherited additively through Parent.
type Descriptor struct {
	// Name is the lowercase singular type name, e.g. "pre_authorization"
	Name string
	// Endpoint is the path template with an ":id" placeholder
	Endpoint        string
	DateFields      []string
	ReferenceFields []string
	Parent          *Descriptor
}

// Base is the root every registered resource type descends from
var Base = &Descriptor{
	Name:       "resource",
	DateFields: []string{"created_at"},
}

// EffectiveDateFields returns the type's own date fields followed by those of
// every ancestor, without duplicates
func (d *Descriptor) EffectiveDateFields() []string {
	seen := make(map[string]bool)
	var fields []string
	for cur := d; cur != nil; cur = cur.Parent {
		for _, f := range cur.DateFields {
			if !seen[f] {
				seen[f] = true
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// Path substitutes id into the endpoint template
func (d *Descriptor) Path(id string) string {
	return strings.Replace(d.Endpoint, ":id", id, 1)
}

var (
	MerchantDescriptor = &Descriptor{
		Name:       "merchant",
		Endpoint:   "/merchants/:id",
		DateFields: []string{"next_payout_date"},
		Parent:     Base,
	}
	UserDescriptor = &Descriptor{
		Name:     "user",
		Endpoint: "/users/:id",
		Parent:   Base,
	}
	SubscriptionDescriptor = &Descriptor{
		Name:            "subscription",
		Endpoint:        "/subscriptions/:id",
		DateFields:      []string{"expires_at", "next_interval_start"},
		ReferenceFields: []string{"user_id", "merchant_id"},
		Parent:          Base,
	}
	PreAuthorizationDescriptor = &Descriptor{
		Name:            "pre_authorization",
		Endpoint:        "/pre_authorizations/:id",
		DateFields:      []string{"expires_at", "next_interval_start"},
		ReferenceFields: []string{"user_id", "merchant_id"},
		Parent:          Base,
	}
	BillDescriptor = &Descriptor{
		Name:            "bill",
		Endpoint:        "/bills/:id",
		DateFields:      []string{"paid_at"},
		ReferenceFields: []string{"merchant_id", "user_id", "payout_id"},
		Parent:          Base,
	}
	PayoutDescriptor = &Descriptor{
		Name:       "payout",
		Endpoint:   "/payouts/:id",
		DateFields: []string{"paid_at"},
		Parent:     Base,
	}
)
