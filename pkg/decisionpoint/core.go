//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package decisionpoint provides network servers exposing the context
// engine to enforcement points.
//
// A decision point is the boundary where an AI chat backend asks "what may
// this request see": it submits the authenticated principal plus the
// requested resources and receives a context packet in return.  Operator
// endpoints additionally expose the recent audit trail and engine metrics.
//
// # Available Implementations
//
//   - [rest]: HTTP/JSON server with audit query and metrics endpoints
//
// # Usage
//
// Create and start a decision point server:
//
//	eng, _ := core.NewEngine()
//	server, _ := rest.CreateServer(eng, 8080)
//	defer server.Stop(ctx)
package decisionpoint

import "context"

// Server is the interface for decision point servers that can be gracefully
// stopped.
//
// Implementations must ensure that [Stop] completes any in-flight requests
// before returning.
type Server interface {
	// Stop gracefully shuts down the server, waiting for active requests
	// to complete or until the context is cancelled.
	Stop(context.Context) error
}
