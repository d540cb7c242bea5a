package vpack

import "errors"

var (
	// ErrNeedOpenCompound is returned by Close when no array or object is open.
	ErrNeedOpenCompound = errors.New("vpack: need open array or object")
	// ErrNeedOpenObject is returned for a keyed value outside an object, or an unkeyed value inside one.
	ErrNeedOpenObject = errors.New("vpack: need open object")
	// ErrUnexpectedValue is returned for a keyed value inside an array, or a second root value.
	ErrUnexpectedValue = errors.New("vpack: unexpected value")
	// ErrNumberOutOfRange is returned when a number does not fit the width it is written with.
	ErrNumberOutOfRange = errors.New("vpack: number out of range")
	// ErrKeyAlreadyWritten is returned when a key repeats within one object.
	ErrKeyAlreadyWritten = errors.New("vpack: key already written")
	// ErrBuilderNotClosed is returned by Slice while compounds are still open.
	ErrBuilderNotClosed = errors.New("vpack: builder has open compounds")
	// ErrUnexpectedType is returned by scalar getters called on a node of another type.
	ErrUnexpectedType = errors.New("vpack: unexpected value type")
	// ErrIndexOutOfBounds is returned by positional access past the node length.
	ErrIndexOutOfBounds = errors.New("vpack: index out of bounds")
)
