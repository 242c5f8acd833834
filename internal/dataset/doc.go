// Package dataset provides the cluster dataset client consumed by the
// Docker volume plugin daemon.
//
// Ownership boundary:
// - dataset configuration and state shapes
// - client interface plus in-memory and control-service implementations
// - stable name-to-dataset-id derivation
package dataset
