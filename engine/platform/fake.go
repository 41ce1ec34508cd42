package platform

import "strings"

// Call records one invocation made through a FakeRunner.
type Call struct {
	Command string
	Args    []string
	Dir     string
}

// FakeRunner answers commands from a table instead of spawning processes.
// Handler, when set, wins over Results.
type FakeRunner struct {
	Results map[string]*Result
	Handler func(call Call) (*Result, error)
	Calls   []Call
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Results: map[string]*Result{}}
}

// Set registers the result for a full command line, e.g. "rospack find arm".
func (f *FakeRunner) Set(line string, res *Result) {
	f.Results[line] = res
}

func (f *FakeRunner) Run(command string, options ...CmdOption) (*Result, error) {
	args, dir := ApplyOptions(options...)
	call := Call{Command: command, Args: args, Dir: dir}
	f.Calls = append(f.Calls, call)
	if f.Handler != nil {
		return f.Handler(call)
	}
	if res, ok := f.Results[call.Line()]; ok {
		return res, nil
	}
	return &Result{ExitCode: 127, Stderr: command + ": command not found"}, nil
}

func (c Call) Line() string {
	return strings.Join(append([]string{c.Command}, c.Args...), " ")
}
