package provision

import (
	"errors"
	"fmt"
	"strings"
)

const DestinationFlag = "destination-path"

var (
	ErrMissingDestination   = errors.New("provision: missing --destination-path")
	ErrDuplicateDestination = errors.New("provision: duplicate --destination-path")
	ErrEmptyDestination     = errors.New("provision: empty --destination-path value")
)

// Invocation is a fully-formed entrypoint argv. The entrypoint program is an
// external collaborator; only its invocation contract is modeled here.
type Invocation struct {
	Argv            []string
	DestinationPath string
	Passthrough     []string
}

// NewInvocation builds the container entrypoint argv for a spec: entrypoint
// command, the required destination flag, then any extra arguments appended
// verbatim in caller order.
func NewInvocation(spec Spec, destinationPath string, extra ...string) (Invocation, error) {
	if err := Validate(spec); err != nil {
		return Invocation{}, err
	}
	if strings.TrimSpace(destinationPath) == "" {
		return Invocation{}, ErrMissingDestination
	}
	for _, arg := range extra {
		if arg == "--"+DestinationFlag || strings.HasPrefix(arg, "--"+DestinationFlag+"=") {
			return Invocation{}, fmt.Errorf("%w: also present in extra args", ErrDuplicateDestination)
		}
	}

	argv := append([]string{}, spec.EntrypointCommand...)
	argv = append(argv, fmt.Sprintf("--%s=%s", DestinationFlag, destinationPath))
	argv = append(argv, extra...)

	return Invocation{
		Argv:            argv,
		DestinationPath: destinationPath,
		Passthrough:     append([]string{}, extra...),
	}, nil
}

// ParseEntrypointArgs validates an entrypoint argument list the way the
// external entrypoint does before any packaging work: exactly one
// destination path, in either --flag=value or --flag value form. Remaining
// arguments pass through untouched.
func ParseEntrypointArgs(args []string) (string, []string, error) {
	var destination string
	var passthrough []string
	seen := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--"+DestinationFlag {
			if i+1 >= len(args) {
				return "", nil, ErrEmptyDestination
			}
			i++
			if err := recordDestination(&destination, &seen, args[i]); err != nil {
				return "", nil, err
			}
			continue
		}
		if value := flagValue(arg, DestinationFlag); value != "" || strings.HasPrefix(arg, "--"+DestinationFlag+"=") {
			if err := recordDestination(&destination, &seen, value); err != nil {
				return "", nil, err
			}
			continue
		}

		passthrough = append(passthrough, arg)
	}

	if !seen {
		return "", nil, ErrMissingDestination
	}
	return destination, passthrough, nil
}

func recordDestination(destination *string, seen *bool, value string) error {
	if *seen {
		return ErrDuplicateDestination
	}
	if strings.TrimSpace(value) == "" {
		return ErrEmptyDestination
	}
	*destination = value
	*seen = true
	return nil
}

func flagValue(arg string, flag string) string {
	prefix := "--" + flag + "="
	if strings.HasPrefix(arg, prefix) {
		return arg[len(prefix):]
	}
	return ""
}
