// Package module defines the minimal contract for a modkit module
// it sits apart from modkit so a module can export its own ports type without import knots
package module

import (
	phttp "churnserve/internal/platform/net/http"
)

// Module mounts routes and exposes a port set for cross wiring
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
