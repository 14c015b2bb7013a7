package module

import dom "churnserve/internal/services/churn/domain"

// Ports holds the ports exposed by the churn module
type Ports struct {
	Service dom.ServicePort
	Status  dom.StatusPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
