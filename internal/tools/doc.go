// Package tools provides external command execution primitives shared by the
// provisioning and documentation modules.
//
// Ownership boundary:
// - command invocation shape and runner interface
//
// - local and remote (SSH) runner implementations
package tools
