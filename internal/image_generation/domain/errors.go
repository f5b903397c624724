package domain

import (
	"errors"
	"fmt"
)

var ErrEmptyPrompt error = &InputError{msg: "prompt cannot be empty"}

var (
	ErrNoImageReturned  = errors.New("inference backend returned no image")
	ErrUnsupportedImage = errors.New("inference backend returned a non-PNG image")
)

type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota + 1
	KindInternal
)

// kinded is implemented by errors that know how the transport layer should
// report them.
type kinded interface {
	Kind() ErrorKind
}

// InputError rejects a request before any work is done.
type InputError struct {
	msg string
}

func (e *InputError) Error() string {
	return e.msg
}

func (e *InputError) Kind() ErrorKind {
	return KindInvalidInput
}

// GenerationError wraps any failure past validation. Op names the stage
// that failed ("inference", "store", ...).
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Kind() ErrorKind {
	return KindInternal
}

// KindOf classifies err for the transport layer. The outermost error in
// the chain that reports a kind decides; anything else is internal.
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}
