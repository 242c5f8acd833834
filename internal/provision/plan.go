package provision

import (
	"strings"

	"github.com/danmuck/forgectl/internal/tools"
)

// Step is one external command in a provisioning plan.
type Step struct {
	ID          string
	Description string
	Command     tools.Command
}

// Plan compiles a spec into its ordered provisioning step list: one
// groupinstall per package group, one install covering the package list,
// one gem install per gem package, then the pip requirements manifest.
// Equal specs always compile to identical plans.
func Plan(spec Spec) []Step {
	var steps []Step

	for _, group := range spec.PackageGroups {
		steps = append(steps, Step{
			ID:          "yum.group." + slug(group),
			Description: "install package group " + group,
			Command: tools.Command{
				Name: "yum",
				Args: []string{"groupinstall", "-y", group},
				Env:  spec.BuildEnv,
			},
		})
	}

	if len(spec.Packages) > 0 {
		args := append([]string{"install", "-y"}, spec.Packages...)
		steps = append(steps, Step{
			ID:          "yum.install",
			Description: "install packages",
			Command: tools.Command{
				Name: "yum",
				Args: args,
				Env:  spec.BuildEnv,
			},
		})
	}

	for _, gem := range spec.GemPackages {
		steps = append(steps, Step{
			ID:          "gem." + slug(gem),
			Description: "install gem " + gem,
			Command: tools.Command{
				Name: "gem",
				Args: []string{"install", gem},
				Env:  spec.BuildEnv,
			},
		})
	}

	if strings.TrimSpace(spec.RequirementsPath) != "" {
		steps = append(steps, Step{
			ID:          "pip.requirements",
			Description: "install python requirements from " + spec.RequirementsPath,
			Command: tools.Command{
				Name: "pip",
				Args: []string{"install", "-r", spec.RequirementsPath},
				Env:  spec.BuildEnv,
			},
		})
	}

	return steps
}

func slug(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(lowered, " ", "-")
}
