package config

import "gopkg.in/yaml.v3"

// Config represents the full platform manifest.
type Config struct {
	Version     string          `yaml:"version" validate:"required"`
	Name        string          `yaml:"name" validate:"required,min=1,max=100"`
	Environment string          `yaml:"environment" validate:"required,oneof=development staging production"`
	Settings    Settings        `yaml:"settings,omitempty"`
	Bootstrap   Bootstrap       `yaml:"bootstrap,omitempty"`
	Components  []ComponentSpec `yaml:"components" validate:"required,min=1,dive"`
	Services    []ServiceSpec   `yaml:"services" validate:"required,min=1,dive"`
}

// Settings holds global execution parameters.
type Settings struct {
	CommandTimeout int `yaml:"command_timeout,omitempty" validate:"omitempty,min=1,max=3600"`
	Parallel       int `yaml:"parallel,omitempty" validate:"omitempty,min=1,max=32"`
	SettleDelay    int `yaml:"settle_delay,omitempty" validate:"omitempty,min=0,max=600"`
}

// Bootstrap controls which optional stages the pipeline includes.
type Bootstrap struct {
	EnableMonitoring bool   `yaml:"enable_monitoring"`
	EnableAuth       bool   `yaml:"enable_auth"`
	SkipBackstage    bool   `yaml:"skip_backstage"`
	GitOpsRepo       string `yaml:"gitops_repo,omitempty" validate:"omitempty,url"`
	GitOpsDir        string `yaml:"gitops_dir,omitempty"`
	CredentialCmd    string `yaml:"credential_command,omitempty"`

	// declared records whether a bootstrap block was present in the manifest.
	// UnmarshalYAML only runs for present keys, so defaulting for an absent
	// block happens in applyDefaults.
	declared bool
}

// ComponentSpec declares one health-probed subsystem. Declaration order is
// significant: recommendations are emitted in this order.
type ComponentSpec struct {
	Name      string `yaml:"name" validate:"required,component_name"`
	Namespace string `yaml:"namespace" validate:"required"`
	Workload  string `yaml:"workload,omitempty"`
	Service   string `yaml:"service,omitempty"`
	URL       string `yaml:"url,omitempty" validate:"omitempty,url"`
	Weight    int    `yaml:"weight,omitempty" validate:"omitempty,min=1,max=10"`
	Enabled   bool   `yaml:"enabled"`
}

// ServiceSpec declares one operable platform service.
type ServiceSpec struct {
	Name        string `yaml:"name" validate:"required,component_name"`
	Namespace   string `yaml:"namespace" validate:"required"`
	Resource    string `yaml:"resource" validate:"required"`
	PortMapping string `yaml:"port_mapping,omitempty"`
}

// ServiceMap builds a lookup table for services by name.
func (c *Config) ServiceMap() map[string]ServiceSpec {
	out := make(map[string]ServiceSpec, len(c.Services))
	for _, svc := range c.Services {
		out[svc.Name] = svc
	}
	return out
}

// EnabledComponents returns the enabled components in declaration order.
func (c *Config) EnabledComponents() []ComponentSpec {
	var out []ComponentSpec
	for _, comp := range c.Components {
		if comp.Enabled {
			out = append(out, comp)
		}
	}
	return out
}

// UnmarshalYAML applies component defaults: enabled unless the manifest says
// otherwise, weight 1 when unset.
func (s *ComponentSpec) UnmarshalYAML(value *yaml.Node) error {
	type rawComponent struct {
		Name      string `yaml:"name"`
		Namespace string `yaml:"namespace"`
		Workload  string `yaml:"workload"`
		Service   string `yaml:"service"`
		URL       string `yaml:"url"`
		Weight    int    `yaml:"weight"`
		Enabled   *bool  `yaml:"enabled"`
	}

	var raw rawComponent
	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.Name = raw.Name
	s.Namespace = raw.Namespace
	s.Workload = raw.Workload
	s.Service = raw.Service
	s.URL = raw.URL
	s.Weight = raw.Weight
	if s.Weight == 0 {
		s.Weight = 1
	}
	if raw.Enabled != nil {
		s.Enabled = *raw.Enabled
	} else {
		s.Enabled = true
	}
	return nil
}

// UnmarshalYAML applies bootstrap defaults: monitoring and auth stages are
// included unless explicitly disabled.
func (b *Bootstrap) UnmarshalYAML(value *yaml.Node) error {
	type rawBootstrap struct {
		EnableMonitoring *bool  `yaml:"enable_monitoring"`
		EnableAuth       *bool  `yaml:"enable_auth"`
		SkipBackstage    bool   `yaml:"skip_backstage"`
		GitOpsRepo       string `yaml:"gitops_repo"`
		GitOpsDir        string `yaml:"gitops_dir"`
		CredentialCmd    string `yaml:"credential_command"`
	}

	var raw rawBootstrap
	if err := value.Decode(&raw); err != nil {
		return err
	}

	b.EnableMonitoring = raw.EnableMonitoring == nil || *raw.EnableMonitoring
	b.EnableAuth = raw.EnableAuth == nil || *raw.EnableAuth
	b.SkipBackstage = raw.SkipBackstage
	b.GitOpsRepo = raw.GitOpsRepo
	b.GitOpsDir = raw.GitOpsDir
	b.CredentialCmd = raw.CredentialCmd
	b.declared = true
	return nil
}
