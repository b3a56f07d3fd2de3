// Package lifecycle holds shared process start/stop conventions.
package lifecycle

import "time"

// DefaultTimeout bounds graceful startup and shutdown steps (DB ping, server drain).
const DefaultTimeout = 10 * time.Second
