package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "spec":
		return specTemplate, nil
	case "tasks":
		return tasksTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const specTemplate = `[spec]
base_image = "centos:centos7"
package_groups = ["Development Tools"]
packages = [
  "git",
  "ruby-devel",
  "python-devel",
  "epel-release",
  "python-pip",
  "rpmdevtools",
  "rpmlint",
  "rpm-build",
  "libffi-devel",
  "openssl-devel",
]
gem_packages = ["fpm"]
requirements_path = "requirements.txt"
entrypoint_command = ["/flocker/admin/build-package-entrypoint"]
mount_points = ["/flocker"]

[spec.build_env]
URLGRABBER_DEBUG = "1"
`

const tasksTemplate = `tasks:
  - name: enable_flocker_control
    platform: centos-7
    description: start the control service and enable it at boot
    commands:
      - systemctl enable flocker-control
      - systemctl start flocker-control
`
