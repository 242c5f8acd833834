package tasks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrTaskExists  = errors.New("tasks: task already registered")
	ErrInvalidTask = errors.New("tasks: invalid task")
)

// Registry stores tasks by (name, platform).
type Registry struct {
	items map[Key]Task
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[Key]Task)}
}

// ValidateTask checks required fields and identifier formats.
func ValidateTask(task Task) error {
	name := strings.TrimSpace(task.Name)
	platform := strings.TrimSpace(task.Platform)
	if name == "" || platform == "" {
		return fmt.Errorf("%w: name and platform are required", ErrInvalidTask)
	}
	if !isValidID(name) {
		return fmt.Errorf("%w: invalid name format %q", ErrInvalidTask, name)
	}
	if !isValidID(platform) {
		return fmt.Errorf("%w: invalid platform format %q", ErrInvalidTask, platform)
	}
	if len(task.Commands) == 0 {
		return fmt.Errorf("%w: %s/%s has no commands", ErrInvalidTask, name, platform)
	}
	for _, cmd := range task.Commands {
		if strings.TrimSpace(cmd) == "" {
			return fmt.Errorf("%w: %s/%s contains an empty command", ErrInvalidTask, name, platform)
		}
	}
	return nil
}

// Register adds a task to the registry.
func (r *Registry) Register(task Task) error {
	if err := ValidateTask(task); err != nil {
		return err
	}
	key := task.Key()
	if _, ok := r.items[key]; ok {
		return fmt.Errorf("%w: %s/%s", ErrTaskExists, key.Name, key.Platform)
	}
	r.items[key] = task
	return nil
}

// Resolve returns the task registered for a (name, platform) pair.
func (r *Registry) Resolve(name string, platform string) (Task, bool) {
	task, ok := r.items[Key{Name: name, Platform: platform}]
	return task, ok
}

// List returns all tasks ordered by name, then platform.
func (r *Registry) List() []Task {
	list := make([]Task, 0, len(r.items))
	for _, task := range r.items {
		list = append(list, task)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Platform < list[j].Platform
	})
	return list
}

// Platforms returns the sorted platforms a task name is registered for.
func (r *Registry) Platforms(name string) []string {
	var platforms []string
	for key := range r.items {
		if key.Name == name {
			platforms = append(platforms, key.Platform)
		}
	}
	sort.Strings(platforms)
	return platforms
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(id)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
