// Package provision owns the build-environment provisioning contract.
//
// Ownership boundary:
// - provisioning spec shape and validation
// - plan compilation and sequential, fail-fast execution
// - Dockerfile rendering
// - entrypoint invocation contract
package provision
