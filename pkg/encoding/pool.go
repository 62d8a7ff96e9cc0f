package encoding

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
)

// BufferPool pools bytes.Buffer for request encoding and response reads
var BufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// GetBuffer retrieves a bytes.Buffer from the pool
func GetBuffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a bytes.Buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	// Don't pool buffers that grew too large (>64KB)
	if buf.Cap() > 64*1024 {
		return
	}
	buf.Reset()
	BufferPool.Put(buf)
}

// EncodeJSON encodes v to JSON using a pooled buffer
func EncodeJSON(v interface{}) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	// Copy the buffer contents since we're returning the buffer to the pool
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// ReadAll drains r into a new slice, staging through a pooled buffer
func ReadAll(r io.Reader) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// DecodeJSON decodes a JSON document into generic maps and slices, keeping
// numbers as json.Number. Empty or all-whitespace input decodes to nil.
func DecodeJSON(data []byte) (interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
