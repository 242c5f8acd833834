package tasks

const (
	PlatformCentOS7    = "centos-7"
	PlatformUbuntu1404 = "ubuntu-14.04"
)

// builtinTasks are the control-service procedures demonstrated in the
// operator documentation. Firewall variants record the commands as text
// only; nothing here ever executes them.
var builtinTasks = []Task{
	{
		Name:        "enable_flocker_control",
		Platform:    PlatformCentOS7,
		Description: "start the control service and enable it at boot",
		Commands: []string{
			"systemctl enable flocker-control",
			"systemctl start flocker-control",
		},
	},
	{
		Name:        "enable_flocker_control",
		Platform:    PlatformUbuntu1404,
		Description: "start the control service and enable it at boot",
		Commands: []string{
			"service flocker-control start",
		},
	},
	{
		Name:        "open_control_firewall",
		Platform:    PlatformCentOS7,
		Description: "open the control service API and agent ports",
		Commands: []string{
			"firewall-cmd --permanent --add-service flocker-control-api",
			"firewall-cmd --add-service flocker-control-api",
			"firewall-cmd --permanent --add-service flocker-control-agent",
			"firewall-cmd --add-service flocker-control-agent",
		},
	},
	{
		Name:        "open_control_firewall",
		Platform:    PlatformUbuntu1404,
		Description: "open the control service API and agent ports",
		Commands: []string{
			"ufw allow flocker-control-api",
			"ufw allow flocker-control-agent",
		},
	},
	{
		Name:        "enable_flocker_agent",
		Platform:    PlatformCentOS7,
		Description: "start the dataset agent and enable it at boot",
		Commands: []string{
			"systemctl enable flocker-dataset-agent",
			"systemctl start flocker-dataset-agent",
		},
	},
	{
		Name:        "enable_flocker_agent",
		Platform:    PlatformUbuntu1404,
		Description: "start the dataset agent and enable it at boot",
		Commands: []string{
			"service flocker-dataset-agent start",
		},
	},
}

// BuiltinRegistry returns a registry seeded with the built-in task set.
func BuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, task := range builtinTasks {
		if err := r.Register(task); err != nil {
			// Built-in definitions are compile-time data; a conflict is a bug.
			panic(err)
		}
	}
	return r
}
