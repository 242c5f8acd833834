package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/danmuck/forgectl/internal/dataset"
	"github.com/danmuck/forgectl/internal/dockerplugin"
	"github.com/danmuck/forgectl/internal/logging"
)

func main() {
	logging.ConfigureRuntime()

	listen := flag.String("listen", ":9000", "plugin listen address")
	nodeID := flag.String("node", "", "node uuid (defaults to a fresh id)")
	controlService := flag.String("control-service", "", "dataset control service base URL (empty runs the in-memory single-node backend)")
	pollInterval := flag.Duration("poll-interval", dockerplugin.DefaultPollInterval, "state poll interval while waiting for mounts")
	mountTimeout := flag.Duration("mount-timeout", dockerplugin.DefaultMountTimeout, "give up waiting for a mount after this long")
	syncInterval := flag.Duration("sync-interval", 100*time.Millisecond, "in-memory backend convergence interval")
	timeout := flag.Duration("timeout", 30*time.Second, "control service request timeout")
	flag.Parse()

	if err := run(*listen, *nodeID, *controlService, *pollInterval, *mountTimeout, *syncInterval, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "dockerplugind: %v\n", err)
		os.Exit(1)
	}
}

func run(listen, rawNodeID, controlService string, pollInterval, mountTimeout, syncInterval, timeout time.Duration) error {
	node := uuid.New()
	if rawNodeID != "" {
		parsed, err := uuid.Parse(rawNodeID)
		if err != nil {
			return fmt.Errorf("invalid -node: %w", err)
		}
		node = parsed
	}

	var client dataset.Client
	if controlService != "" {
		client = dataset.NewHTTPClient(controlService, timeout)
	} else {
		memory := dataset.NewMemoryClient()
		// Stand in for the cluster's convergence agents.
		go func() {
			ticker := time.NewTicker(syncInterval)
			defer ticker.Stop()
			for range ticker.C {
				memory.SynchronizeState()
			}
		}()
		client = memory
	}

	server := dockerplugin.NewServer(dockerplugin.Config{
		NodeID:       node,
		Client:       client,
		PollInterval: pollInterval,
		MountTimeout: mountTimeout,
	})
	return server.Run(listen)
}
