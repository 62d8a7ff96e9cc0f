package signing

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kevin07696/gocardless-go/pkg/timeutil"
	"github.com/shopspring/decimal"
)

const upperHex = "0123456789ABCDEF"

// Pair is one encoded key/value of a canonical query
type Pair struct {
	Key   string
	Value string
}

// PercentEncode escapes every byte of s except the RFC 3986 unreserved set
// (ALPHA, DIGIT, "-", ".", "_", "~"). Multi-byte UTF-8 is escaped byte by byte.
func PercentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// ToQuery flattens a nested parameter structure into the canonical query string.
// Pairs are sorted by encoded key exactly once, here; repeated keys produced by
// a sequence keep the sequence's order.
func ToQuery(value interface{}) string {
	pairs := Pairs(value, "")
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Key < pairs[j].Key
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Key + "=" + p.Value
	}
	return strings.Join(parts, "&")
}

// Pairs returns the unsorted encoded pairs for value under namespace.
// Mappings nest as ns[key], sequences as ns[].
func Pairs(value interface{}, namespace string) []Pair {
	switch v := value.(type) {
	case map[string]interface{}:
		var pairs []Pair
		for _, k := range sortedKeys(v) {
			pairs = append(pairs, Pairs(v[k], childNamespace(namespace, k))...)
		}
		return pairs
	case map[string]string:
		var pairs []Pair
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			pairs = append(pairs, Pairs(v[k], childNamespace(namespace, k))...)
		}
		return pairs
	case []interface{}:
		var pairs []Pair
		for _, item := range v {
			pairs = append(pairs, Pairs(item, namespace+"[]")...)
		}
		return pairs
	case []string:
		pairs := make([]Pair, 0, len(v))
		for _, item := range v {
			pairs = append(pairs, Pairs(item, namespace+"[]")...)
		}
		return pairs
	}

	if pairs, ok := reflectPairs(value, namespace); ok {
		return pairs
	}
	return []Pair{{Key: PercentEncode(namespace), Value: PercentEncode(Stringify(value))}}
}

// reflectPairs handles typed maps and slices such as map[string]int or []int
func reflectPairs(value interface{}, namespace string) ([]Pair, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		var pairs []Pair
		for _, k := range keys {
			item := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()
			pairs = append(pairs, Pairs(item, childNamespace(namespace, k))...)
		}
		return pairs, true
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		var pairs []Pair
		for i := 0; i < rv.Len(); i++ {
			pairs = append(pairs, Pairs(rv.Index(i).Interface(), namespace+"[]")...)
		}
		return pairs, true
	}
	return nil, false
}

func childNamespace(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + "[" + key + "]"
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stringify renders a scalar in its locale-independent, dot-decimal,
// non-exponential textual form.
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case json.Number:
		return v.String()
	case decimal.Decimal:
		return formatDecimal(v)
	case *decimal.Decimal:
		if v == nil {
			return ""
		}
		return formatDecimal(*v)
	case time.Time:
		return timeutil.FormatTimestamp(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

// formatFloat keeps a ".0" on integral values so 20.0 renders as "20.0"
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatDecimal preserves the scale the caller gave, e.g. "20.0" stays "20.0"
func formatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
