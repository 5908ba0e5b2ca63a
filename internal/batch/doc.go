// Package batch runs sets of independent commands concurrently.
//
// [ExecuteAll] starts every command of a batch at once and waits for all of
// them, successful or not, before returning; there is no concurrency cap and
// no early cancellation of siblings. Results keep the order of the tasks and
// carry each task's context, so they can be matched back to the architecture
// that produced them.
//
// [ExecuteWithRetry] adds a single, immediate retry of the failed subset.
// The external builds it drives are known to fail intermittently; one retry
// absorbs that without risking retry storms. Tasks still failing after the
// last attempt fail the batch. Tasks that succeeded are not rolled back.
package batch
