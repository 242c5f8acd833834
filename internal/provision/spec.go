package provision

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSpec = errors.New("provision: invalid spec")
)

// Spec declares a build-environment image: base OS, installed toolchains,
// and the entrypoint invocation contract. Immutable once validated; consumed
// by the plan compiler, the Dockerfile renderer, and the builder.
type Spec struct {
	BaseImage         string            `toml:"base_image"`
	PackageGroups     []string          `toml:"package_groups"`
	Packages          []string          `toml:"packages"`
	GemPackages       []string          `toml:"gem_packages"`
	RequirementsPath  string            `toml:"requirements_path"`
	EntrypointCommand []string          `toml:"entrypoint_command"`
	EntrypointArgs    map[string]string `toml:"entrypoint_args"`
	MountPoints       []string          `toml:"mount_points"`
	BuildEnv          map[string]string `toml:"build_env"`
}

// DefaultSpec returns the CentOS 7 RPM build environment: development
// toolchain group, packaging dependencies, fpm via gem, and the pip
// requirements manifest, with the source tree mounted at /flocker.
func DefaultSpec() Spec {
	return Spec{
		BaseImage:     "centos:centos7",
		PackageGroups: []string{"Development Tools"},
		Packages: []string{
			"git",
			"ruby-devel",
			"python-devel",
			"epel-release",
			"python-pip",
			"rpmdevtools",
			"rpmlint",
			"rpm-build",
			"libffi-devel",
			"openssl-devel",
		},
		GemPackages:       []string{"fpm"},
		RequirementsPath:  "requirements.txt",
		EntrypointCommand: []string{"/flocker/admin/build-package-entrypoint"},
		MountPoints:       []string{"/flocker"},
		BuildEnv:          map[string]string{"URLGRABBER_DEBUG": "1"},
	}
}

// Validate checks required fields and name formats.
func Validate(spec Spec) error {
	if strings.TrimSpace(spec.BaseImage) == "" {
		return fmt.Errorf("%w: base_image is required", ErrInvalidSpec)
	}
	if len(spec.EntrypointCommand) == 0 {
		return fmt.Errorf("%w: entrypoint_command is required", ErrInvalidSpec)
	}
	for _, part := range spec.EntrypointCommand {
		if strings.TrimSpace(part) == "" {
			return fmt.Errorf("%w: entrypoint_command contains an empty element", ErrInvalidSpec)
		}
	}
	if err := validateNames("package_groups", spec.PackageGroups); err != nil {
		return err
	}
	if err := validateNames("packages", spec.Packages); err != nil {
		return err
	}
	if err := validateNames("gem_packages", spec.GemPackages); err != nil {
		return err
	}
	for _, mount := range spec.MountPoints {
		if !strings.HasPrefix(mount, "/") {
			return fmt.Errorf("%w: mount point %q must be absolute", ErrInvalidSpec, mount)
		}
	}
	for name := range spec.EntrypointArgs {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: entrypoint_args contains an empty flag name", ErrInvalidSpec)
		}
	}
	for name := range spec.BuildEnv {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: build_env contains an empty variable name", ErrInvalidSpec)
		}
	}
	return nil
}

func validateNames(field string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: %s contains an empty name", ErrInvalidSpec, field)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s contains duplicate %q", ErrInvalidSpec, field, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
