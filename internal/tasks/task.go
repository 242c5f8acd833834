package tasks

// Key identifies a task variant: a named operational procedure qualified by
// the platform it applies to.
type Key struct {
	Name     string
	Platform string
}

// Task is one platform-specific command demonstration: the ordered command
// lines an operator would run, plus optional canned output shown after them.
type Task struct {
	Name        string
	Platform    string
	Description string
	Commands    []string
	Output      string
}

// Key returns the registry key for the task.
func (t Task) Key() Key {
	return Key{Name: t.Name, Platform: t.Platform}
}
