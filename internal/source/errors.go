package source

import "fmt"

// UnreadableFileError reports a file that could not be loaded: permission
// denied, binary content, or an encoding failure. The file is skipped and
// the batch continues.
type UnreadableFileError struct {
	Path   string
	Reason string
	Err    error
}

func (e *UnreadableFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unreadable file %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("unreadable file %s: %s", e.Path, e.Reason)
}

func (e *UnreadableFileError) Unwrap() error { return e.Err }

// IOTimeoutError reports a read or write that did not complete within the
// configured io_timeout. Fatal for the file, not for the batch.
type IOTimeoutError struct {
	Path string
	Op   string // "read" or "write".
}

func (e *IOTimeoutError) Error() string {
	return fmt.Sprintf("%s of %s timed out", e.Op, e.Path)
}
