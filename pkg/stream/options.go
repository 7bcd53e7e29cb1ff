package stream

import "github.com/harp-tech/faststepper-go/pkg/harp"

// ErrorHandler receives messages an operator skipped and the reason.
type ErrorHandler func(msg harp.Message, err error)

// Option configures an operator.
type Option func(*options)

type options struct {
	onError     ErrorHandler
	messageType harp.MessageType
	typeSet     bool
}

// OnError registers a handler for skipped messages.
func OnError(h ErrorHandler) Option {
	return func(o *options) {
		o.onError = h
	}
}

// WithMessageType restricts an operator to messages of one base type
// (Read, Write or Event). Error replies never match.
func WithMessageType(t harp.MessageType) Option {
	return func(o *options) {
		o.messageType = t.Base()
		o.typeSet = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) report(msg harp.Message, err error) {
	if o.onError != nil {
		o.onError(msg, err)
	}
}

func (o options) matchType(msg harp.Message) bool {
	if !o.typeSet {
		return true
	}
	return !msg.IsError() && msg.Type().Base() == o.messageType
}
