package logging

import (
	"time"

	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
)

// Logger is the interface the client logs through. Implement it to route
// client logs into your own logging stack.
type Logger = ports.Logger

// Field is a structured logging field
type Field = ports.Field

func String(key, val string) Field                 { return ports.String(key, val) }
func Int(key string, val int) Field                { return ports.Int(key, val) }
func Bool(key string, val bool) Field              { return ports.Bool(key, val) }
func Duration(key string, val time.Duration) Field { return ports.Duration(key, val) }
func Err(err error) Field                          { return ports.Err(err) }

var _ Logger = (*ZapLoggerAdapter)(nil)
