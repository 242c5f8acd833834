package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/forgectl/internal/tools"
)

// toolConfig is the resolved forgectl tool configuration.
type toolConfig struct {
	SpecPath  string
	TaskFiles []string
	Remote    *remoteConfig
}

type remoteConfig struct {
	Host       string
	Port       string
	User       string
	KeyPath    string
	KnownHosts string
	Insecure   bool
	Timeout    time.Duration
}

type fileConfig struct {
	Spec      string           `toml:"spec"`
	TaskFiles []string         `toml:"task_files"`
	Remote    remoteFileConfig `toml:"remote"`
}

type remoteFileConfig struct {
	Host       string `toml:"host"`
	Port       string `toml:"port"`
	User       string `toml:"user"`
	KeyPath    string `toml:"key_path"`
	KnownHosts string `toml:"known_hosts"`
	Insecure   bool   `toml:"insecure_skip_host_key_checking"`
	Timeout    string `toml:"timeout"`
}

func defaultToolConfig() toolConfig {
	return toolConfig{SpecPath: "build-spec.toml"}
}

func loadToolConfig(path string) (toolConfig, error) {
	cfg := defaultToolConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return toolConfig{}, fmt.Errorf("load forgectl config: %w", err)
	}

	if meta.IsDefined("spec") {
		if spec := strings.TrimSpace(raw.Spec); spec != "" {
			cfg.SpecPath = spec
		}
	}
	if meta.IsDefined("task_files") {
		cfg.TaskFiles = raw.TaskFiles
	}

	if meta.IsDefined("remote", "host") {
		remote := &remoteConfig{
			Host:       strings.TrimSpace(raw.Remote.Host),
			Port:       strings.TrimSpace(raw.Remote.Port),
			User:       strings.TrimSpace(raw.Remote.User),
			KeyPath:    strings.TrimSpace(raw.Remote.KeyPath),
			KnownHosts: strings.TrimSpace(raw.Remote.KnownHosts),
			Insecure:   raw.Remote.Insecure,
		}
		if meta.IsDefined("remote", "timeout") {
			d, err := time.ParseDuration(strings.TrimSpace(raw.Remote.Timeout))
			if err != nil {
				return toolConfig{}, fmt.Errorf("parse remote timeout: %w", err)
			}
			remote.Timeout = d
		}
		cfg.Remote = remote
	}

	return cfg, nil
}

// runner selects the command runner: the remote build host when configured,
// local execution otherwise.
func (c toolConfig) runner() tools.CommandRunner {
	if c.Remote == nil {
		return tools.ExecRunner{}
	}
	return tools.SSHRunner{
		Host:                        c.Remote.Host,
		Port:                        c.Remote.Port,
		User:                        c.Remote.User,
		KeyPath:                     c.Remote.KeyPath,
		KnownHostsPath:              c.Remote.KnownHosts,
		InsecureSkipHostKeyChecking: c.Remote.Insecure,
		Timeout:                     c.Remote.Timeout,
	}
}
