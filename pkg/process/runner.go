package process

// Result is the outcome of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the process exited with code 0.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner runs a binary to completion. It only returns an error when the
// process could not run at all; exit codes are reported in Result.
type Runner interface {
	Run(dir, binary string, args ...string) (Result, error)
}

// Exec runs real child processes.
type Exec struct{}

// Run implements Runner.
func (Exec) Run(dir, binary string, args ...string) (Result, error) {
	p := New(binary, args...)
	p.Dir = dir
	if err := p.Run(); err != nil {
		return Result{}, err
	}
	out, _ := p.Stdout()
	errOut, _ := p.Stderr()
	code, _ := p.ExitCode()
	return Result{Stdout: out, Stderr: errOut, ExitCode: code}, nil
}
