package source

import (
	"bytes"
	"context"
	"os"
	"unicode/utf8"
)

// Read loads the file at path into a File. It fails with
// *UnreadableFileError on permission or decoding problems and with
// *IOTimeoutError if the read does not complete before ctx expires.
// The original file is never modified.
func Read(ctx context.Context, path string, tabWidth int) (*File, error) {
	data, err := readWithDeadline(ctx, path)
	if err != nil {
		return nil, err
	}

	if bytes.IndexByte(data, 0) >= 0 {
		return nil, &UnreadableFileError{Path: path, Reason: "binary content"}
	}
	if !utf8.Valid(data) {
		return nil, &UnreadableFileError{Path: path, Reason: "invalid UTF-8"}
	}

	return FromString(path, string(data), tabWidth), nil
}

// readWithDeadline performs the blocking read in a goroutine so the caller's
// timeout is honored even when the filesystem stalls. The goroutine is left
// to finish on its own after a timeout; the buffered channel keeps it from
// leaking.
func readWithDeadline(ctx context.Context, path string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	if ctx.Err() != nil {
		return nil, &IOTimeoutError{Path: path, Op: "read"}
	}

	ch := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(path)
		ch <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, &IOTimeoutError{Path: path, Op: "read"}
	case res := <-ch:
		if res.err != nil {
			return nil, &UnreadableFileError{Path: path, Reason: "read failed", Err: res.err}
		}
		return res.data, nil
	}
}
