package posts

import (
	"errors"
	"strings"
)

// Kind classifies resource failures.
type Kind string

const (
	// KindTransport reports that the store could not be reached or answered
	// with a body the client could not read.
	KindTransport Kind = "transport"
	// KindHTTP reports a non-2xx response.
	KindHTTP Kind = "http"
	// KindValidation reports a missing required field caught before any
	// network call.
	KindValidation Kind = "validation"
)

// Op names a resource operation.
type Op string

const (
	OpListPosts     Op = "list_posts"
	OpCreatePost    Op = "create_post"
	OpUpdatePost    Op = "update_post"
	OpDeletePost    Op = "delete_post"
	OpCreateComment Op = "create_comment"
)

// Fixed operation failure messages shown to users verbatim.
const (
	MessageListFailed          = "Failed to fetch posts"
	MessageCreateFailed        = "Failed to add new post"
	MessageUpdateFailed        = "Failed to update post"
	MessageDeleteFailed        = "Failed to delete post"
	MessageCommentFailed       = "Failed to add comment"
	MessageAllFieldsRequired   = "All fields are required."
	MessagePostIDRequired      = "Please enter a postId"
	messageUnknownOperationErr = "Request failed"
)

// FailureMessage returns the fixed failure message of op.
func FailureMessage(op Op) string {
	switch op {
	case OpListPosts:
		return MessageListFailed
	case OpCreatePost:
		return MessageCreateFailed
	case OpUpdatePost:
		return MessageUpdateFailed
	case OpDeletePost:
		return MessageDeleteFailed
	case OpCreateComment:
		return MessageCommentFailed
	default:
		return messageUnknownOperationErr
	}
}

// Error is a typed resource failure.
type Error struct {
	Kind       Kind
	Op         Op
	Message    string
	StatusCode int
	Err        error
}

// Error renders the user-facing message.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return FailureMessage(e.Op)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TransportError wraps a network-level or decode failure of op.
func TransportError(op Op, cause error) error {
	return &Error{Kind: KindTransport, Op: op, Message: FailureMessage(op), Err: cause}
}

// HTTPError reports a non-2xx response for op.
func HTTPError(op Op, statusCode int) error {
	return &Error{Kind: KindHTTP, Op: op, Message: FailureMessage(op), StatusCode: statusCode}
}

// ValidationError reports missing form input for op.
func ValidationError(op Op, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = MessageAllFieldsRequired
	}
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// KindOf returns the kind of err, or "" when err is not a resource failure.
func KindOf(err error) Kind {
	var target *Error
	if !errors.As(err, &target) {
		return ""
	}
	return target.Kind
}

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
