// Package dispatcher routes host commands such as ":ROUND:SITE:" to their
// handlers. Everything runs on the caller's goroutine, which for the game
// host is its main thread.
package dispatcher

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnknownCommand is returned for commands without a registered handler.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when an event has fewer arguments than its handler needs.
	ErrUsage = errors.New("usage")
)

// Event is one command from the game host.
type Event struct {
	Command   string
	Args      []string
	Timestamp time.Time
}

// HandlerFunc handles an event. The result is handed back to the host.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*options)

type options struct {
	minArgs   int
	usage     string
	logged    bool
	recovered bool
}

// MinArgs rejects events with fewer than n arguments, reporting usage.
func MinArgs(n int, usage string) Option {
	return func(o *options) { o.minArgs, o.usage = n, usage }
}

// Logged logs each event at debug and failures at error.
func Logged() Option {
	return func(o *options) { o.logged = true }
}

// Recovered turns a handler panic into an error so it never unwinds into the host.
func Recovered() Option {
	return func(o *options) { o.recovered = true }
}

// Dispatcher routes events to registered handlers.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger
	metrics  *instruments
}

// New creates a dispatcher reporting to the global OTel meter.
func New(logger Logger) (*Dispatcher, error) {
	ins, err := newInstruments()
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
		metrics:  ins,
	}, nil
}

// Register installs h for command, replacing any earlier handler. Argument
// checks run inside panic recovery, and logging sees usage errors too.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.minArgs > 0 {
		h = requireArgs(command, o.minArgs, o.usage, h)
	}
	if o.recovered {
		h = recoverPanic(command, h)
	}
	if o.logged && d.logger != nil {
		h = logEvents(d.logger, command, h)
	}
	d.handlers[command] = d.metrics.wrap(command, h)
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}
	return h(e)
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

// Commands returns the number of registered commands.
func (d *Dispatcher) Commands() int {
	return len(d.handlers)
}

func requireArgs(command string, n int, usage string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		if len(e.Args) < n {
			return nil, fmt.Errorf("%w: %s %s", ErrUsage, command, usage)
		}
		return h(e)
	}
}

func recoverPanic(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (result any, err error) {
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, fmt.Errorf("%s: handler panic: %v", command, r)
			}
		}()
		return h(e)
	}
}

func logEvents(log Logger, command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		log.Debug("Handling host command", "command", command, "args", len(e.Args))

		result, err := h(e)
		if err != nil {
			log.Error("Host command failed", "command", command, "duration", time.Since(start), "error", err)
			return result, err
		}
		log.Debug("Host command handled", "command", command, "duration", time.Since(start))
		return result, nil
	}
}
