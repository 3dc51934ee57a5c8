// Package messaging pushes session view state to connected browsers.
package messaging

import "github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"

// ViewPublisher delivers view models to the open connections of a session.
type ViewPublisher interface {
	Publish(sessionID string, view session.View)
	Disconnect(sessionID string)
}
