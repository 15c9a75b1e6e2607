package generator

import (
	"fmt"
	"go/token"
	"log/slog"
	"path"

	"golang.org/x/mod/module"
)

const (
	// DefaultRuntimePackage is the import path of the runtime used by the generated code.
	DefaultRuntimePackage = "github.com/italypaleale/actorgen/actor"

	defaultMessageSuffix = "Msg"
	defaultReplyField    = "Resp"
	defaultHandlePrefix  = "Actor"
	defaultNoWaitSuffix  = "NoWait"
	defaultHandlerName   = "process"
	defaultReceiverField = "receiver"
	defaultBuildTag      = "actorgen"
)

// Option configures a Generator.
type Option func(*options)

// WithMessageSuffix sets the suffix that identifies message-set interfaces
// Defaults to "Msg"
func WithMessageSuffix(suffix string) Option {
	return func(o *options) { o.MessageSuffix = suffix }
}

// WithReplyField sets the name of the field that carries the reply in request variants
// Defaults to "Resp"
func WithReplyField(name string) Option {
	return func(o *options) { o.ReplyField = name }
}

// WithHandlePrefix sets the prefix added to the state type's name to build the handle type's name
// Defaults to "Actor"
func WithHandlePrefix(prefix string) Option {
	return func(o *options) { o.HandlePrefix = prefix }
}

// WithNoWaitSuffix sets the suffix of fire-and-forget methods
// Defaults to "NoWait"
func WithNoWaitSuffix(suffix string) Option {
	return func(o *options) { o.NoWaitSuffix = suffix }
}

// WithHandlerName sets the name of the method on the state type that handles messages
// Defaults to "process"
func WithHandlerName(name string) Option {
	return func(o *options) { o.HandlerName = name }
}

// WithReceiverField sets the name of the field added to the state type, holding the mailbox's receiving endpoint
// Defaults to "receiver"
func WithReceiverField(name string) Option {
	return func(o *options) { o.ReceiverField = name }
}

// WithRuntimePackage sets the import path of the runtime package used by the generated code
// Defaults to DefaultRuntimePackage
func WithRuntimePackage(importPath string) Option {
	return func(o *options) { o.RuntimePackage = importPath }
}

// WithBuildTag sets the build tag that excludes actor source files from regular builds; its constraint is removed from the output
// Defaults to "actorgen"
func WithBuildTag(tag string) Option {
	return func(o *options) { o.BuildTag = tag }
}

// WithStrict makes warnings fail synthesis
func WithStrict(strict bool) Option {
	return func(o *options) { o.Strict = strict }
}

// WithLogger sets the instance of the slog logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.Logger = logger }
}

type options struct {
	MessageSuffix  string
	ReplyField     string
	HandlePrefix   string
	NoWaitSuffix   string
	HandlerName    string
	ReceiverField  string
	RuntimePackage string
	BuildTag       string
	Strict         bool
	Logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		MessageSuffix:  defaultMessageSuffix,
		ReplyField:     defaultReplyField,
		HandlePrefix:   defaultHandlePrefix,
		NoWaitSuffix:   defaultNoWaitSuffix,
		HandlerName:    defaultHandlerName,
		ReceiverField:  defaultReceiverField,
		RuntimePackage: DefaultRuntimePackage,
		BuildTag:       defaultBuildTag,
	}
}

// RuntimeName returns the name the runtime package is referenced with in the generated code.
func (o options) RuntimeName() string {
	return packageName(o.RuntimePackage)
}

// packageName returns the conventional name of the package at importPath: its last element, without the major version suffix.
// For example, both "example.com/actor/v2" and "gopkg.in/actor.v2" are named "actor".
func packageName(importPath string) string {
	prefix, _, ok := module.SplitPathVersion(importPath)
	if !ok || prefix == "" {
		prefix = importPath
	}
	return path.Base(prefix)
}

func (o *options) Validate() error {
	idents := []struct {
		name  string
		value string
	}{
		{"MessageSuffix", o.MessageSuffix},
		{"ReplyField", o.ReplyField},
		{"HandlePrefix", o.HandlePrefix},
		{"NoWaitSuffix", o.NoWaitSuffix},
		{"HandlerName", o.HandlerName},
		{"ReceiverField", o.ReceiverField},
	}
	for _, id := range idents {
		if !token.IsIdentifier(id.value) {
			return fmt.Errorf("%w: option %s must be a valid Go identifier, got %q", ErrInvalidOption, id.name, id.value)
		}
	}

	err := module.CheckImportPath(o.RuntimePackage)
	if err != nil {
		return fmt.Errorf("%w: option RuntimePackage must be a valid import path: %w", ErrInvalidOption, err)
	}
	if !token.IsIdentifier(o.RuntimeName()) {
		return fmt.Errorf("%w: the last element of RuntimePackage must be a valid package name, got %q", ErrInvalidOption, o.RuntimeName())
	}

	// The handle type must be exported, so the prefix must start with an upper-case letter
	if !token.IsExported(o.HandlePrefix) {
		return fmt.Errorf("%w: option HandlePrefix must be exported, got %q", ErrInvalidOption, o.HandlePrefix)
	}

	if o.BuildTag != "" && !token.IsIdentifier(o.BuildTag) {
		return fmt.Errorf("%w: option BuildTag must be a valid build tag, got %q", ErrInvalidOption, o.BuildTag)
	}

	// Set a default logger, which sends logs to /dev/null, if none is passed
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	return nil
}
