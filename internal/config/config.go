package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/forgectl/internal/provision"
)

// SpecFile is the on-disk shape of a provisioning spec document.
type SpecFile struct {
	Spec provision.Spec `toml:"spec"`
}

// LoadSpec reads a provisioning spec from a TOML file. An omitted spec table
// falls back to the default CentOS 7 RPM build environment; a partial spec
// is completed field-by-field from the default.
func LoadSpec(path string) (provision.Spec, error) {
	var file SpecFile
	if err := loadToml(path, &file); err != nil {
		return provision.Spec{}, err
	}

	spec := applySpecDefaults(file.Spec)
	if err := provision.Validate(spec); err != nil {
		return provision.Spec{}, fmt.Errorf("spec invalid (%s): %w", path, err)
	}
	return spec, nil
}

func applySpecDefaults(spec provision.Spec) provision.Spec {
	def := provision.DefaultSpec()
	if strings.TrimSpace(spec.BaseImage) == "" {
		spec.BaseImage = def.BaseImage
	}
	if spec.PackageGroups == nil {
		spec.PackageGroups = def.PackageGroups
	}
	if spec.Packages == nil {
		spec.Packages = def.Packages
	}
	if spec.GemPackages == nil {
		spec.GemPackages = def.GemPackages
	}
	if strings.TrimSpace(spec.RequirementsPath) == "" {
		spec.RequirementsPath = def.RequirementsPath
	}
	if len(spec.EntrypointCommand) == 0 {
		spec.EntrypointCommand = def.EntrypointCommand
	}
	if spec.MountPoints == nil {
		spec.MountPoints = def.MountPoints
	}
	if spec.BuildEnv == nil {
		spec.BuildEnv = def.BuildEnv
	}
	return spec
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}
