// Package dockerplugin serves the Docker volume plugin protocol backed by
// cluster datasets.
//
// Ownership boundary:
// - plugin endpoint surface and response shapes
// - volume-name to dataset mapping and mount polling
package dockerplugin
