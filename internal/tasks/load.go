package tasks

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type taskFile struct {
	Tasks []taskEntry `yaml:"tasks"`
}

type taskEntry struct {
	Name        string   `yaml:"name"`
	Platform    string   `yaml:"platform"`
	Description string   `yaml:"description"`
	Commands    []string `yaml:"commands"`
	Output      string   `yaml:"output"`
}

// LoadFile registers every task definition from a YAML file. Documentation
// authors extend the task set this way without recompiling.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tasks: load %s: %w", path, err)
	}

	var file taskFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("tasks: parse %s: %w", path, err)
	}

	for i, entry := range file.Tasks {
		task := Task{
			Name:        entry.Name,
			Platform:    entry.Platform,
			Description: entry.Description,
			Commands:    entry.Commands,
			Output:      entry.Output,
		}
		if err := r.Register(task); err != nil {
			return fmt.Errorf("tasks: %s entry %d: %w", path, i, err)
		}
	}
	return nil
}
