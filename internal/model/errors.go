// Package model defines the data types and error taxonomy shared by every
// component of the torrent engine core: settings, status, records, session
// stats, and events.
package model

import "fmt"

// ErrorKind is a closed set of error categories the core can return. Callers
// render Kind to a stable, human-readable string or localize it; they never
// need to pattern-match on error strings.
type ErrorKind string

const (
	KindInvalidMagnetLink    ErrorKind = "InvalidMagnetLink"
	KindInvalidTorrentFile   ErrorKind = "InvalidTorrentFile"
	KindDuplicateTorrent     ErrorKind = "DuplicateTorrent"
	KindTorrentNotFound      ErrorKind = "TorrentNotFound"
	KindNetworkError         ErrorKind = "NetworkError"
	KindDiskError            ErrorKind = "DiskError"
	KindParseError           ErrorKind = "ParseError"
	KindSessionError         ErrorKind = "SessionError"
	KindPermissionDenied     ErrorKind = "PermissionDenied"
	KindInsufficientSpace    ErrorKind = "InsufficientSpace"
	KindTrackerError         ErrorKind = "TrackerError"
	KindTimeoutError         ErrorKind = "TimeoutError"
	KindCancellationRequested ErrorKind = "CancellationRequested"
	KindFileSystemError      ErrorKind = "FileSystemError"
	KindSecurityViolation    ErrorKind = "SecurityViolation"
	KindUnknownError         ErrorKind = "UnknownError"
)

// String returns the stable human-readable form of the kind.
func (k ErrorKind) String() string {
	return string(k)
}

// Error is the concrete error type returned by every core operation. It
// carries a closed Kind plus a message and, optionally, the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, model.TorrentNotFound("")) style checks against the kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Constructors, one per kind, mirroring the teacher's api.BadRequest /
// api.Unauthorized style of one-liner error constructors.

func InvalidMagnetLink(message string, cause error) *Error {
	return newErr(KindInvalidMagnetLink, message, cause)
}

func InvalidTorrentFile(message string, cause error) *Error {
	return newErr(KindInvalidTorrentFile, message, cause)
}

func DuplicateTorrent(infoHash string) *Error {
	return newErr(KindDuplicateTorrent, fmt.Sprintf("torrent %s already exists", infoHash), nil)
}

func TorrentNotFound(infoHash string) *Error {
	return newErr(KindTorrentNotFound, fmt.Sprintf("torrent %s not found", infoHash), nil)
}

func NetworkError(message string, cause error) *Error {
	return newErr(KindNetworkError, message, cause)
}

func DiskError(message string, cause error) *Error {
	return newErr(KindDiskError, message, cause)
}

func ParseError(message string, cause error) *Error {
	return newErr(KindParseError, message, cause)
}

func SessionError(message string, cause error) *Error {
	return newErr(KindSessionError, message, cause)
}

func PermissionDenied(message string, cause error) *Error {
	return newErr(KindPermissionDenied, message, cause)
}

func InsufficientSpace(required, available int64) *Error {
	return newErr(KindInsufficientSpace, fmt.Sprintf("need %d bytes free, have %d", required, available), nil)
}

func TrackerError(message string) *Error {
	return newErr(KindTrackerError, message, nil)
}

func TimeoutError(message string) *Error {
	return newErr(KindTimeoutError, message, nil)
}

func CancellationRequested() *Error {
	return newErr(KindCancellationRequested, "operation was cancelled", nil)
}

func FileSystemError(message string, cause error) *Error {
	return newErr(KindFileSystemError, message, cause)
}

func SecurityViolation(message string) *Error {
	return newErr(KindSecurityViolation, message, nil)
}

func UnknownError(cause error) *Error {
	return newErr(KindUnknownError, "unclassified engine error", cause)
}
