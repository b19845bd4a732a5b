// Package emoji provides status symbols for CLI output.
package emoji

// Status symbols used by command output.
const (
	// Success marks a passed check.
	Success = "✓"

	// Error marks a failed check.
	Error = "✗"

	// Warning marks a result that needs review.
	Warning = "!"
)

// Status returns Success when ok and Error otherwise.
func Status(ok bool) string {
	if ok {
		return Success
	}
	return Error
}
