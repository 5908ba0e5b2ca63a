package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/metacall/guix-release/internal/runtime"
	"golang.org/x/sync/errgroup"
)

// Number of times a task may run before its failure fails the batch.
const MaxAttempts = 2

// Runs all tasks concurrently and returns their results in task order.
//
// Every task runs to completion before ExecuteAll returns. If any task could
// not be spawned, the first such error is returned along with the results;
// the slots of tasks that did not spawn are nil.
func ExecuteAll(ctx context.Context, runner runtime.Runner, tasks []runtime.Command) ([]*runtime.Result, error) {
	results := make([]*runtime.Result, len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			res, err := runner.Run(ctx, task)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	return results, g.Wait()
}

// Returns the non-nil results, in order.
func completed(results []*runtime.Result) []*runtime.Result {
	var done []*runtime.Result
	for _, r := range results {
		if r != nil {
			done = append(done, r)
		}
	}
	return done
}

// Splits results into those that exited with status zero and the rest.
func Partition(results []*runtime.Result) (succeeded, failed []*runtime.Result) {
	for _, r := range results {
		if r.Succeeded() {
			succeeded = append(succeeded, r)
		} else {
			failed = append(failed, r)
		}
	}
	return succeeded, failed
}

// Runs tasks with up to [MaxAttempts] attempts each.
//
// After every attempt a report is written to out: the failed tasks if there
// are any, otherwise all of them. Failed tasks are re-issued immediately with
// their original command, arguments and context. If failures remain after
// the last attempt, the returned error wraps [ErrBatchFailed] and holds one
// [ErrTaskFailed] error per failed task. A spawn error is returned as is,
// without retrying, after the tasks that did run have been reported.
func ExecuteWithRetry(ctx context.Context, runner runtime.Runner, tasks []runtime.Command, out io.Writer) error {
	worklist := tasks

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		results, err := ExecuteAll(ctx, runner, worklist)
		if err != nil {
			Report(out, completed(results))
			return err
		}

		_, failed := Partition(results)
		if len(failed) == 0 {
			Report(out, results)
			return nil
		}

		fmt.Fprintln(out, "ERROR: While processing the following tasks:")
		Report(out, failed)

		if attempt == MaxAttempts {
			slog.Error("tasks failed after retry", "failed", len(failed), "attempts", attempt)
			return failure(failed)
		}

		slog.Warn("tasks failed, retrying", "failed", len(failed), "attempt", attempt)
		worklist = retryable(worklist, results)
	}

	return nil
}

// Returns the tasks whose results failed, preserving task order.
//
// The original commands are re-issued rather than being rebuilt from the
// results, so environment and working directory survive the retry.
func retryable(tasks []runtime.Command, results []*runtime.Result) []runtime.Command {
	var retry []runtime.Command
	for i, r := range results {
		if !r.Succeeded() {
			retry = append(retry, tasks[i])
		}
	}
	return retry
}

// Builds the batch error for the remaining failures.
func failure(failed []*runtime.Result) error {
	var merr *multierror.Error
	for _, r := range failed {
		merr = multierror.Append(merr, fmt.Errorf("%w: %s: exit code %d", ErrTaskFailed, label(r), r.ExitCode))
	}
	return fmt.Errorf("%w: %d task(s) failed after %d attempts: %w", ErrBatchFailed, len(failed), MaxAttempts, merr.ErrorOrNil())
}
