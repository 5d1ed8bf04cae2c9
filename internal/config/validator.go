package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	componentNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	resourcePattern      = regexp.MustCompile(`^(deployment|statefulset|daemonset)/[a-z0-9-]+$`)
	portMappingPattern   = regexp.MustCompile(`^\d{1,5}:\d{1,5}$`)
)

// validatorInstance configures and returns the shared validator used across
// the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("component_name", func(fl validator.FieldLevel) bool {
			return componentNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks structural rules and the cross-entry invariants the tag
// language cannot express: unique names, well-formed resource references,
// and port mappings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return platformerrors.NewValidationError("", "config is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seenComponents := make(map[string]struct{}, len(cfg.Components))
	for i, comp := range cfg.Components {
		if _, dup := seenComponents[comp.Name]; dup {
			return platformerrors.NewValidationError(
				fmt.Sprintf("components[%d].name", i),
				fmt.Sprintf("duplicate component %q", comp.Name), nil)
		}
		seenComponents[comp.Name] = struct{}{}
	}

	seenServices := make(map[string]struct{}, len(cfg.Services))
	for i, svc := range cfg.Services {
		if _, dup := seenServices[svc.Name]; dup {
			return platformerrors.NewValidationError(
				fmt.Sprintf("services[%d].name", i),
				fmt.Sprintf("duplicate service %q", svc.Name), nil)
		}
		seenServices[svc.Name] = struct{}{}

		if !resourcePattern.MatchString(svc.Resource) {
			return platformerrors.NewValidationError(
				fmt.Sprintf("services[%d].resource", i),
				fmt.Sprintf("resource %q must be kind/name with kind deployment, statefulset or daemonset", svc.Resource), nil)
		}

		if svc.PortMapping != "" && !portMappingPattern.MatchString(svc.PortMapping) {
			return platformerrors.NewValidationError(
				fmt.Sprintf("services[%d].port_mapping", i),
				fmt.Sprintf("port mapping %q must be local:remote", svc.PortMapping), nil)
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		field := strings.TrimPrefix(first.Namespace(), "Config.")
		return platformerrors.NewValidationError(field, fmt.Sprintf("failed %q rule", first.Tag()), err)
	}

	return platformerrors.NewValidationError("", err.Error(), err)
}
