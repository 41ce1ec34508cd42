package platform

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spaghettifunk/urdfviz/engine/core"
)

// Result is what an external command left behind.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes external commands synchronously. The package locator, the
// xacro expansion and the mesh converter all go through it so tests can swap
// in a fake.
type Runner interface {
	Run(command string, options ...CmdOption) (*Result, error)
}

type cmdOptions struct {
	args []string
	dir  string
}

type CmdOption func(*cmdOptions)

func WithArgs(args ...string) CmdOption {
	return func(o *cmdOptions) {
		o.args = append(o.args, args...)
	}
}

func WithDir(dir string) CmdOption {
	return func(o *cmdOptions) {
		o.dir = dir
	}
}

// ApplyOptions resolves options into the argument list and working directory.
// Fakes use it to inspect what a caller asked for.
func ApplyOptions(options ...CmdOption) (args []string, dir string) {
	opts := &cmdOptions{}
	for _, o := range options {
		o(opts)
	}
	return opts.args, opts.dir
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run returns a Result whenever the process started, even if it exited
// non-zero. The error is only set when the process could not be run at all.
func (r *ExecRunner) Run(command string, options ...CmdOption) (*Result, error) {
	args, dir := ApplyOptions(options...)

	core.LogDebug("executing: %s %s", command, strings.Join(args, " "))
	cmd := exec.Command(command, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, fmt.Errorf("error executing %s: %w", command, err)
	}
	return res, nil
}

// Command is a configured command line such as "rosrun xacro xacro --inorder",
// split into the program and its fixed leading arguments.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a shell-style command string.
func ParseCommand(line string) (Command, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return Command{}, fmt.Errorf("parsing command %q: %w", line, err)
	}
	if len(words) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	return Command{Name: words[0], Args: words[1:]}, nil
}

// Run executes the command with extra arguments appended to the fixed ones.
func (c Command) Run(r Runner, extra ...string) (*Result, error) {
	args := append(append([]string{}, c.Args...), extra...)
	return r.Run(c.Name, WithArgs(args...))
}

// RunIn is Run with dir as the working directory of the process.
func (c Command) RunIn(r Runner, dir string, extra ...string) (*Result, error) {
	args := append(append([]string{}, c.Args...), extra...)
	return r.Run(c.Name, WithArgs(args...), WithDir(dir))
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}
