package modkit

import (
	"churnserve/internal/modkit/module"
)

// Module is the common surface for API modules
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
