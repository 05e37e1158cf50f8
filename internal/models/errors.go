package models

import (
	"errors"
	"strings"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindUpstream
)

// Error is a domain failure that handlers translate into a response.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrUserExists            = &Error{Kind: KindValidation, Msg: "User already exists"}
	ErrUserNotFound          = &Error{Kind: KindNotFound, Msg: "User not found"}
	ErrInvalidCredentials    = &Error{Kind: KindAuthentication, Msg: "Invalid credentials"}
	ErrNotAuthorized         = &Error{Kind: KindAuthorization, Msg: "User not authorized"}
	ErrProfileNotFound       = &Error{Kind: KindNotFound, Msg: "There is no profile for this user"}
	ErrExperienceNotFound    = &Error{Kind: KindNotFound, Msg: "Experience not found"}
	ErrEducationNotFound     = &Error{Kind: KindNotFound, Msg: "Education not found"}
	ErrPostNotFound          = &Error{Kind: KindNotFound, Msg: "Post not found"}
	ErrCommentNotFound       = &Error{Kind: KindNotFound, Msg: "Comment does not exist"}
	ErrAlreadyLiked          = &Error{Kind: KindConflict, Msg: "Post already liked"}
	ErrNotLiked              = &Error{Kind: KindConflict, Msg: "Post has not yet been liked"}
	ErrGithubProfileNotFound = &Error{Kind: KindUpstream, Msg: "No Github profile found"}
)

// KindOf reports the kind of err, KindInternal for anything that is not a
// domain error.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ValidationError lists every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Msg)
	}
	return strings.Join(msgs, "; ")
}

func NewValidationError(param, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Param: param, Msg: msg}}}
}
