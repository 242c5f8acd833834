// Package docs owns the task-annotated documentation contract.
//
// Ownership boundary:
// - `.. task::` directive parsing into an ordered document model
// - rendering with prompt-decorated command substitution
// - exhaustive directive resolution checks
//
// Conditional guidance embedded as prose (for example, "skip this step when
// firewall-cmd is absent") is reader-facing advisory text; the renderer never
// evaluates it.
package docs
