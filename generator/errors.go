package generator

import (
	"errors"
)

var (
	// ErrAlreadyGenerated is returned when the input file is itself the output of actorgen.
	ErrAlreadyGenerated = errors.New("file was already generated by actorgen")
	// ErrSynthesisFailed is returned when at least one diagnostic has error severity.
	// The returned error also wraps every failing diagnostic.
	ErrSynthesisFailed = errors.New("actor synthesis failed")
	// ErrInvalidOption is returned by New when an option is not valid.
	ErrInvalidOption = errors.New("invalid option")
)
