package queue

// ResultStatusIgnored represents a message that was not processed because
// the consumer does not recognize it.  The message will be passed to
// another consumer, or stop the queue if nobody claims it.
const ResultStatusIgnored = "IGNORED"

// ResultStatusSuccess represents a message that was processed successfully
const ResultStatusSuccess = "SUCCESS"

// ResultStatusError represents a message whose side effect failed.  The error
// is reported, and the message is still deleted from the queue.
const ResultStatusError = "ERROR"

// ResultStatusFailure represents a message that could not be processed at all
// (for instance, a malformed body).  The queue stops, and the message is NOT deleted.
const ResultStatusFailure = "FAILURE"

// Result is the return value from a Consumer
type Result struct {
	Status string
	Error  error
}

// IsSuccessful returns TRUE if the Result is a "SUCCESS"
func (result Result) IsSuccessful() bool {
	return result.Status == ResultStatusSuccess
}

// IsFatal returns TRUE if the Result should stop the queue
func (result Result) IsFatal() bool {
	return result.Status == ResultStatusFailure
}

// Ignored returns a Result object that has been "IGNORED"
// This happens when a consumer does not recognize the message
func Ignored() Result {
	return Result{
		Status: ResultStatusIgnored,
	}
}

// Success returns a Result object with a status of "SUCCESS"
func Success() Result {
	return Result{
		Status: ResultStatusSuccess,
	}
}

// Error returns a Result object with a status of "ERROR"
func Error(err error) Result {
	return Result{
		Status: ResultStatusError,
		Error:  err,
	}
}

// Failure returns a Result object with a status of "FAILURE"
func Failure(err error) Result {
	return Result{
		Status: ResultStatusFailure,
		Error:  err,
	}
}
