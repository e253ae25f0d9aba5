package ers

// ErrCurrentOpSkip signals that a looping operation should skip the
// current item and continue. Streams translate this into "produce the
// next item."
const ErrCurrentOpSkip Error = "skip current operation"

// ErrCurrentOpAbort signals that a looping operation should stop
// cleanly, as if the underlying source had been exhausted.
const ErrCurrentOpAbort Error = "abort current operation"

// ErrRecoveredPanic is at the root of every error produced from a
// recovered panic. Use errors.Is against this sentinel to distinguish
// panics from ordinary failures.
const ErrRecoveredPanic Error = "recovered panic"
