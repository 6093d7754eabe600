package domain

// ServiceStatus is a read-only snapshot of one monitored service.
// It is the sole contract consumed by the health reporting layer.
type ServiceStatus struct {
	Name           string         `json:"name"`
	State          ServiceState   `json:"state"`
	Healthy        bool           `json:"healthy"`
	RecentFailures int            `json:"recent_failures"`
	Metadata       map[string]any `json:"metadata"`
}
