package model

// ServiceDescriptor describes one independently-deployable platform service.
// Discovered reflects the most recent discovery pass and is never persisted.
type ServiceDescriptor struct {
	Name        string `json:"name"`
	Namespace   string `json:"namespace"`
	Resource    string `json:"resource"`
	PortMapping string `json:"port_mapping,omitempty"`
	Discovered  bool   `json:"discovered"`
}
