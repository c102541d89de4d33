package models

// PortalConfigState is the outcome of checking the portal's custom properties.
type PortalConfigState string

const (
	PortalStateUnknown      PortalConfigState = "unknown"
	PortalStateConfigured   PortalConfigState = "configured"
	PortalStateUnconfigured PortalConfigState = "unconfigured"
)

// PortalStatus is the tagged result of a configuration check.
type PortalStatus struct {
	State             PortalConfigState `json:"state"`
	MissingProperties []string          `json:"missingProperties,omitempty"`
}

// Configured reports whether every required property exists.
func (s PortalStatus) Configured() bool {
	return s.State == PortalStateConfigured
}

// ProvisionResult reports what a provisioning run created and what it found
// already present.
type ProvisionResult struct {
	CreatedProperties []string `json:"createdProperties"`
	SkippedProperties []string `json:"skippedProperties"`
	CreatedProducts   []string `json:"createdProducts"`
	SkippedProducts   []string `json:"skippedProducts"`
}
