// Package delivery defines the contract shared by all inbound adapters.
package delivery

import "context"

// Delivery is implemented by every inbound surface of the application
// (HTTP servers, workers). Serve blocks until the surface stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
