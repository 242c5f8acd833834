package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/forgectl/internal/config"
	"github.com/danmuck/forgectl/internal/docs"
	"github.com/danmuck/forgectl/internal/logging"
	"github.com/danmuck/forgectl/internal/provision"
	"github.com/danmuck/forgectl/internal/tasks"
)

const usage = `usage: forgectl <command> [flags]

commands:
  provision render    render the provisioning spec as a Dockerfile
  provision plan      print the ordered provisioning step list
  provision build     execute the provisioning plan
  entrypoint args     validate an entrypoint argument list
  docs check          resolve every task directive in a document
  docs render         render a document with command substitution
  config init         write a config template
  config validate     validate an existing config file
`

func main() {
	logging.ConfigureRuntime()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "provision":
		err = runProvision(os.Args[2:])
	case "entrypoint":
		err = runEntrypoint(os.Args[2:])
	case "docs":
		err = runDocs(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "forgectl: unknown command %q\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "forgectl: %v\n", err)
		os.Exit(1)
	}
}

func runProvision(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("provision: missing subcommand (render|plan|build)")
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("provision "+sub, flag.ExitOnError)
	specPath := fs.String("spec", "", "provisioning spec file (defaults to built-in CentOS 7 spec)")
	configPath := fs.String("config", "", "forgectl tool config file")
	output := fs.String("output", "", "output path (defaults to stdout)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	spec, err := resolveSpec(*specPath, *configPath)
	if err != nil {
		return err
	}

	switch sub {
	case "render":
		rendered, err := provision.RenderDockerfile(spec)
		if err != nil {
			return err
		}
		return writeOutput(*output, rendered)
	case "plan":
		var out strings.Builder
		for _, step := range provision.Plan(spec) {
			fmt.Fprintf(&out, "%-28s %s %s\n", step.ID, step.Command.Name, strings.Join(step.Command.Args, " "))
		}
		return writeOutput(*output, out.String())
	case "build":
		cfg, err := resolveToolConfig(*configPath)
		if err != nil {
			return err
		}
		builder := provision.NewBuilder(cfg.runner())
		result, err := builder.Build(spec)
		if err != nil {
			return err
		}
		fmt.Printf("build %s complete: %d steps in %s\n", result.BuildID, result.Steps, result.Duration)
		return nil
	default:
		return fmt.Errorf("provision: unknown subcommand %q", sub)
	}
}

func runEntrypoint(args []string) error {
	if len(args) < 1 || args[0] != "args" {
		return fmt.Errorf("entrypoint: missing subcommand (args)")
	}

	destination, passthrough, err := provision.ParseEntrypointArgs(args[1:])
	if err != nil {
		return err
	}
	fmt.Printf("destination-path: %s\n", destination)
	if len(passthrough) > 0 {
		fmt.Printf("passthrough: %s\n", strings.Join(passthrough, " "))
	}
	return nil
}

func runDocs(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("docs: missing subcommand (check|render)")
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("docs "+sub, flag.ExitOnError)
	configPath := fs.String("config", "", "forgectl tool config file")
	output := fs.String("output", "", "output path (defaults to stdout)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("docs %s: exactly one document path required", sub)
	}
	docPath := fs.Arg(0)

	registry, err := resolveRegistry(*configPath)
	if err != nil {
		return err
	}

	source, err := os.Open(docPath)
	if err != nil {
		return fmt.Errorf("docs: open %s: %w", docPath, err)
	}
	defer source.Close()

	doc, err := docs.Parse(source)
	if err != nil {
		return err
	}

	renderer := docs.NewRenderer(registry)
	switch sub {
	case "check":
		if err := renderer.Check(doc); err != nil {
			return err
		}
		fmt.Printf("%s: %d directives resolved\n", docPath, len(doc.Directives()))
		return nil
	case "render":
		rendered, err := renderer.Render(doc)
		if err != nil {
			return err
		}
		return writeOutput(*output, rendered)
	default:
		return fmt.Errorf("docs: unknown subcommand %q", sub)
	}
}

func runConfig(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("config: missing subcommand (init|validate)")
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("config "+sub, flag.ExitOnError)
	kind := fs.String("kind", "spec", "config kind: spec|tasks")
	output := fs.String("output", "", "output path for config template")
	input := fs.String("input", "", "config path for validation")
	force := fs.Bool("force", false, "overwrite existing config file")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch sub {
	case "init":
		target := *output
		if target == "" {
			switch *kind {
			case "spec":
				target = "build-spec.toml"
			case "tasks":
				target = "tasks.yml"
			default:
				return fmt.Errorf("config: unknown kind %q", *kind)
			}
		}
		if err := config.WriteTemplate(target, *kind, *force); err != nil {
			return err
		}
		fmt.Printf("wrote %s config template to %s\n", *kind, target)
		return nil
	case "validate":
		path := *input
		if path == "" {
			return fmt.Errorf("config validate: -input is required")
		}
		switch *kind {
		case "spec":
			if _, err := config.LoadSpec(path); err != nil {
				return err
			}
		case "tasks":
			if err := tasks.NewRegistry().LoadFile(path); err != nil {
				return err
			}
		default:
			return fmt.Errorf("config: unknown kind %q", *kind)
		}
		fmt.Printf("validated %s config at %s\n", *kind, path)
		return nil
	default:
		return fmt.Errorf("config: unknown subcommand %q", sub)
	}
}

func resolveSpec(specPath string, configPath string) (provision.Spec, error) {
	if specPath == "" && configPath != "" {
		cfg, err := loadToolConfig(configPath)
		if err != nil {
			return provision.Spec{}, err
		}
		specPath = cfg.SpecPath
	}
	if specPath == "" {
		return provision.DefaultSpec(), nil
	}
	return config.LoadSpec(specPath)
}

func resolveToolConfig(configPath string) (toolConfig, error) {
	if configPath == "" {
		return defaultToolConfig(), nil
	}
	return loadToolConfig(configPath)
}

func resolveRegistry(configPath string) (*tasks.Registry, error) {
	registry := tasks.BuiltinRegistry()
	if configPath == "" {
		return registry, nil
	}
	cfg, err := loadToolConfig(configPath)
	if err != nil {
		return nil, err
	}
	for _, path := range cfg.TaskFiles {
		if err := registry.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func writeOutput(path string, content string) error {
	if path == "" {
		fmt.Print(content)
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
