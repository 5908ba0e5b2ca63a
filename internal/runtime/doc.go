// Package runtime runs external commands on the host.
//
// A [Command] is a structured argument vector: the program and its arguments
// are passed straight to the process-spawn primitive, so no shell quoting is
// involved. A [Runner] executes one command and returns a [Result] holding
// the captured output and exit code.
//
// A nonzero exit is a normal outcome, reported through [Result.ExitCode].
// Only a failure to start the process at all (for example, a missing
// executable) is returned as an error, wrapping [ErrSpawn]. Callers must
// treat the two differently: the first may be retried, the second may not.
//
// While a command runs, each line it writes is forwarded to the debug log,
// tagged with the command's label.
//
// Example usage:
//
//	result, err := runtime.Exec{}.Run(ctx, runtime.Command{
//	    Name: "docker",
//	    Args: []string{"run", "--rm", "hello-world"},
//	})
//	if err != nil {
//	    return err // could not spawn
//	}
//	if !result.Succeeded() {
//	    slog.Warn("command failed", "exit", result.ExitCode)
//	}
package runtime
