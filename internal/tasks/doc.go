// Package tasks owns the task registry consulted by the documentation
// renderer.
//
// Ownership boundary:
// - task shape and (name, platform) keying
// - registry primitives and YAML registry files
// - built-in control-service task set
package tasks
