package encoding

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJSON(t *testing.T) {
	out, err := EncodeJSON(map[string]interface{}{"redirect_uri": "https://example.com/a?b=1&c=2"})
	require.NoError(t, err)
	assert.Equal(t, "{\"redirect_uri\":\"https://example.com/a?b=1&c=2\"}\n", string(out))

	_, err = EncodeJSON(map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"interval_length": 1, "amount": "44.0", "tags": ["a"]}`))
	require.NoError(t, err)

	m := v.(map[string]interface{})
	assert.Equal(t, json.Number("1"), m["interval_length"])
	assert.Equal(t, "44.0", m["amount"])
	assert.Equal(t, []interface{}{"a"}, m["tags"])

	v, err = DecodeJSON([]byte("  \n"))
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = DecodeJSON([]byte("<html>"))
	assert.Error(t, err)
}

func TestReadAll(t *testing.T) {
	payload := strings.Repeat("x", 70*1024)
	out, err := ReadAll(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, string(out))
}

func TestPutBuffer_DropsOversized(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 0, 128*1024))
	PutBuffer(buf)

	got := GetBuffer()
	assert.Equal(t, 0, got.Len())
}
