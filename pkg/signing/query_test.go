package signing

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "lowercase alpha", input: "abcxyz", want: "abcxyz"},
		{name: "uppercase alpha", input: "ABCXYZ", want: "ABCXYZ"},
		{name: "digits", input: "1234567890", want: "1234567890"},
		{name: "unreserved punctuation including tilde", input: "-._~", want: "-._~"},
		{name: "two byte utf-8", input: "å", want: "%C3%A5"},
		{name: "three byte utf-8", input: "支払い", want: "%E6%94%AF%E6%89%95%E3%81%84"},
		{name: "reserved ascii 1", input: " !\"#$%&'()", want: "%20%21%22%23%24%25%26%27%28%29"},
		{name: "reserved ascii 2", input: "*+,/{|}:;", want: "%2A%2B%2C%2F%7B%7C%7D%3A%3B"},
		{name: "reserved ascii 3", input: "<=>?@[\\]^`", want: "%3C%3D%3E%3F%40%5B%5C%5D%5E%60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentEncode(tt.input))
		})
	}
}

func TestToQuery(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{
			name:  "nested mapping",
			input: map[string]interface{}{"a": map[string]interface{}{"b": 1}},
			want:  "a%5Bb%5D=1",
		},
		{
			name:  "sequence",
			input: map[string]interface{}{"a": []interface{}{1, 2}},
			want:  "a%5B%5D=1&a%5B%5D=2",
		},
		{
			name:  "sequence order is kept among repeated keys",
			input: map[string]interface{}{"a": []interface{}{"z", "b", "m"}},
			want:  "a%5B%5D=z&a%5B%5D=b&a%5B%5D=m",
		},
		{
			name:  "top level keys sorted",
			input: map[string]interface{}{"zeta": "1", "alpha": "2", "mid": "3"},
			want:  "alpha=2&mid=3&zeta=1",
		},
		{
			name:  "typed containers",
			input: map[string]interface{}{"ids": []int{3, 1}, "user": map[string]string{"email": "a@b.com"}},
			want:  "ids%5B%5D=3&ids%5B%5D=1&user%5Bemail%5D=a%40b.com",
		},
		{
			name: "deep nesting",
			input: map[string]interface{}{
				"merchant": map[string]interface{}{
					"name": "Tom's shop",
					"user": map[string]interface{}{"first_name": "Tom"},
				},
			},
			want: "merchant%5Bname%5D=Tom%27s%20shop&merchant%5Buser%5D%5Bfirst_name%5D=Tom",
		},
		{
			name:  "empty mapping",
			input: map[string]interface{}{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToQuery(tt.input))
		})
	}
}

func TestToQuery_DecodesToBracketForm(t *testing.T) {
	query := ToQuery(map[string]interface{}{"a": map[string]interface{}{"b": 1}})

	decoded, err := url.QueryUnescape(query)
	require.NoError(t, err)
	assert.Equal(t, "a[b]=1", decoded)
}

func TestToQuery_IndependentOfInsertionOrder(t *testing.T) {
	first := map[string]interface{}{}
	second := map[string]interface{}{}
	keys := []string{"client_id", "nonce", "bill", "timestamp", "state", "cancel_uri"}
	for i, k := range keys {
		first[k] = k
		second[keys[len(keys)-1-i]] = keys[len(keys)-1-i]
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, ToQuery(first), ToQuery(second))
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{name: "string", input: "abc", want: "abc"},
		{name: "int", input: 10, want: "10"},
		{name: "negative int64", input: int64(-3), want: "-3"},
		{name: "integral float", input: 20.0, want: "20.0"},
		{name: "fractional float", input: 0.1, want: "0.1"},
		{name: "large float is not exponential", input: 1e21, want: "1000000000000000000000.0"},
		{name: "bool", input: true, want: "true"},
		{name: "json number", input: json.Number("44.0"), want: "44.0"},
		{name: "decimal keeps scale", input: decimal.RequireFromString("20.0"), want: "20.0"},
		{name: "decimal integral", input: decimal.NewFromInt(10), want: "10"},
		{name: "decimal two places", input: decimal.RequireFromString("12.50"), want: "12.50"},
		{name: "time", input: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), want: "2020-01-01T00:00:00Z"},
		{name: "nil", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.input))
		})
	}
}
