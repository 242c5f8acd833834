package provision

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/forgectl/internal/observability"
	"github.com/danmuck/forgectl/internal/tools"
)

var (
	ErrProvisioningFailed = errors.New("provision: build step failed")
)

// BuildResult reports a completed build.
type BuildResult struct {
	BuildID  string
	Steps    int
	Duration time.Duration
}

// Builder executes provisioning plans through a command runner. Execution is
// strictly sequential and fail-fast: the first non-zero exit aborts the
// build, later steps never run, and no retry happens at this layer.
type Builder struct {
	runner tools.CommandRunner
}

// NewBuilder creates a builder; a nil runner defaults to local execution.
func NewBuilder(runner tools.CommandRunner) *Builder {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return &Builder{runner: runner}
}

// Build validates the spec, compiles its plan, and runs every step in order.
func (b *Builder) Build(spec Spec) (BuildResult, error) {
	if err := Validate(spec); err != nil {
		return BuildResult{}, err
	}

	buildID := uuid.NewString()
	steps := Plan(spec)
	started := time.Now()

	log.Info().
		Str("build_id", buildID).
		Str("base_image", spec.BaseImage).
		Int("steps", len(steps)).
		Msg("provision build start")

	for _, step := range steps {
		if err := b.runStep(buildID, step); err != nil {
			observability.RecordBuild(time.Since(started), false)
			return BuildResult{}, err
		}
	}

	elapsed := time.Since(started)
	observability.RecordBuild(elapsed, true)
	log.Info().
		Str("build_id", buildID).
		Dur("elapsed", elapsed).
		Msg("provision build complete")

	return BuildResult{BuildID: buildID, Steps: len(steps), Duration: elapsed}, nil
}

func (b *Builder) runStep(buildID string, step Step) error {
	log.Info().
		Str("build_id", buildID).
		Str("step", step.ID).
		Str("cmd", step.Command.Name).
		Str("args", strings.Join(step.Command.Args, " ")).
		Msg("provision step exec")

	started := time.Now()
	stdout, stderr, exitCode, err := b.runner.Run(step.Command)
	observability.RecordBuildStep(step.ID, time.Since(started), err == nil)
	if err == nil {
		return nil
	}

	return fmt.Errorf(
		"%w: step=%s cmd=%s args=%q exit=%d stdout=%q stderr=%q: %v",
		ErrProvisioningFailed,
		step.ID,
		step.Command.Name,
		strings.Join(step.Command.Args, " "),
		exitCode,
		strings.TrimSpace(string(stdout)),
		strings.TrimSpace(string(stderr)),
		err,
	)
}
