package provision

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

const dockerfileTemplate = `FROM {{.BaseImage}}
{{- range .Lines}}
{{.}}
{{- end}}
{{- range .MountPoints}}
VOLUME {{.}}
{{- end}}
ENTRYPOINT [{{.Entrypoint}}]
`

var dockerfileTmpl = template.Must(template.New("dockerfile").Parse(dockerfileTemplate))

// RenderDockerfile renders a spec as a Dockerfile: base image, the
// requirements manifest copied into the build context, one RUN per plan step
// with the build-time environment prefixed inline, volume declarations, and
// the exec-form entrypoint with its fixed arguments. Build-time environment
// is never declared via ENV: it must not survive into the entrypoint's
// run-time environment.
func RenderDockerfile(spec Spec) (string, error) {
	if err := Validate(spec); err != nil {
		return "", err
	}

	data := struct {
		BaseImage   string
		Lines       []string
		MountPoints []string
		Entrypoint  string
	}{
		BaseImage:   spec.BaseImage,
		MountPoints: spec.MountPoints,
		Entrypoint:  entrypointJSON(spec),
	}
	for _, step := range Plan(spec) {
		// The pip step reads the manifest from inside the image.
		if step.ID == "pip.requirements" {
			data.Lines = append(data.Lines, fmt.Sprintf(
				"COPY %s %s", spec.RequirementsPath, spec.RequirementsPath,
			))
		}
		data.Lines = append(data.Lines, "RUN "+runLine(step))
	}

	var out strings.Builder
	if err := dockerfileTmpl.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// runLine renders one plan step as a shell line with its environment overlay
// prefixed, so the variables exist for that step only.
func runLine(step Step) string {
	var parts []string
	for _, pair := range envPairs(step.Command.Env) {
		parts = append(parts, pair)
	}
	parts = append(parts, step.Command.Name)
	for _, arg := range step.Command.Args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func envPairs(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+quoteArg(env[k]))
	}
	return pairs
}

func quoteArg(arg string) string {
	if strings.ContainsAny(arg, " \t'\"") {
		return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
	}
	return arg
}

func entrypointJSON(spec Spec) string {
	argv := append([]string{}, spec.EntrypointCommand...)

	names := make([]string, 0, len(spec.EntrypointArgs))
	for name := range spec.EntrypointArgs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		argv = append(argv, fmt.Sprintf("--%s=%s", name, spec.EntrypointArgs[name]))
	}

	quoted := make([]string, 0, len(argv))
	for _, part := range argv {
		quoted = append(quoted, fmt.Sprintf("%q", part))
	}
	return strings.Join(quoted, ", ")
}
