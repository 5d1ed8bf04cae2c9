package config

// Default builds the manifest used when no file is supplied: the standard
// platform layout with every component enabled.
func Default() *Config {
	return &Config{
		Version:     "1.0",
		Name:        "IDP Platform",
		Environment: "development",
		Settings: Settings{
			CommandTimeout: 120,
			Parallel:       4,
			SettleDelay:    10,
		},
		Bootstrap: Bootstrap{
			EnableMonitoring: true,
			EnableAuth:       true,
		},
		Components: []ComponentSpec{
			{Name: "istio", Namespace: "istio-system", Workload: "deployment/istiod", Service: "istiod", Weight: 1, Enabled: true},
			{Name: "argocd", Namespace: "argocd", Workload: "deployment/argocd-server", Service: "argocd-server", Weight: 1, Enabled: true},
			{Name: "crossplane", Namespace: "crossplane-system", Workload: "deployment/crossplane", Service: "crossplane-webhooks", Weight: 1, Enabled: true},
			{Name: "vault", Namespace: "vault", Workload: "statefulset/vault", Service: "vault", Weight: 1, Enabled: true},
			{Name: "keycloak", Namespace: "keycloak", Workload: "deployment/keycloak", Service: "keycloak", Weight: 1, Enabled: true},
			{Name: "monitoring", Namespace: "monitoring", Workload: "deployment/grafana", Service: "grafana", Weight: 1, Enabled: true},
			{Name: "backstage", Namespace: "backstage", Workload: "deployment/backstage", Service: "backstage", Weight: 1, Enabled: true},
		},
		Services: []ServiceSpec{
			{Name: "argocd", Namespace: "argocd", Resource: "deployment/argocd-server", PortMapping: "8080:443"},
			{Name: "backstage", Namespace: "backstage", Resource: "deployment/backstage", PortMapping: "3000:7007"},
			{Name: "grafana", Namespace: "monitoring", Resource: "deployment/grafana", PortMapping: "3001:3000"},
			{Name: "prometheus", Namespace: "monitoring", Resource: "statefulset/prometheus-server", PortMapping: "9090:9090"},
			{Name: "keycloak", Namespace: "keycloak", Resource: "deployment/keycloak", PortMapping: "8081:8080"},
			{Name: "vault", Namespace: "vault", Resource: "statefulset/vault", PortMapping: "8200:8200"},
			{Name: "kiali", Namespace: "istio-system", Resource: "deployment/kiali", PortMapping: "20001:20001"},
			{Name: "jaeger", Namespace: "istio-system", Resource: "deployment/jaeger", PortMapping: "16686:16686"},
			{Name: "workflows", Namespace: "windmill", Resource: "deployment/windmill-server", PortMapping: "8000:8000"},
		},
	}
}
