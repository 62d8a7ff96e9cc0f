package inflect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingularize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"PreAuthorisations", "PreAuthorisation"},
		{"bills", "bill"},
		{"pre_authorizations", "pre_authorization"},
		{"bill", "bill"},
		// naive on purpose: matches the server's fixed routes, not English
		{"categories", "categorie"},
		{"bus", "bu"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Singularize(tt.input))
		})
	}
}

func TestCamelize(t *testing.T) {
	assert.Equal(t, "CamelizeThisPlease", Camelize("camelize_this_please"))
	assert.Equal(t, "PreAuthorization", Camelize("pre_authorization"))
	assert.Equal(t, "Bill", Camelize("bill"))
}

func TestTrimIDSuffix(t *testing.T) {
	assert.Equal(t, "user", TrimIDSuffix("user_id"))
	assert.Equal(t, "test_resource", TrimIDSuffix("test_resource_id"))
	assert.Equal(t, "payout", TrimIDSuffix("payout"))
}
