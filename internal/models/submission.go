package models

// SubmissionResult is the terminal outcome of a submission: either a
// reference number on success or a user-facing message on failure,
// never both.
type SubmissionResult struct {
	OK              bool
	ReferenceNumber string
	UserMessage     string
}

// Success builds a successful result for the given reference number.
func Success(reference string) SubmissionResult {
	return SubmissionResult{OK: true, ReferenceNumber: reference}
}

// Failure builds a failed result carrying a user-facing message.
func Failure(userMessage string) SubmissionResult {
	return SubmissionResult{OK: false, UserMessage: userMessage}
}
