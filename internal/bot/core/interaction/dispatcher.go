package interaction

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/robalyx/leo/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CommandHandler handles a slash command with its flattened arguments.
type CommandHandler func(c *Context, opts Options) error

// ComponentHandler handles a component callback.
type ComponentHandler func(c *Context, data *ComponentData) error

// CommandRoute maps one top-level command to its handlers.
type CommandRoute struct {
	// Default runs only when no subcommand is given.
	Default CommandHandler
	// Subcommands are keyed by subcommand path, e.g. "give" or "admin reset".
	Subcommands map[string]CommandHandler
}

// Routes is everything a module wants to receive.
type Routes struct {
	Commands   map[string]*CommandRoute
	Components map[string]ComponentHandler
}

// Module is a feature that handles interactions.
type Module interface {
	Routes() Routes
}

// Dispatcher routes interactions to the modules that registered for them.
// Its tables are built once at construction and only read afterwards.
type Dispatcher struct {
	commands   map[string]*CommandRoute
	components map[string]ComponentHandler
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewDispatcher builds the routing tables from the given modules.
// Two modules claiming the same command or component name is an error.
func NewDispatcher(logger *zap.Logger, modules ...Module) (*Dispatcher, error) {
	d := &Dispatcher{
		commands:   make(map[string]*CommandRoute),
		components: make(map[string]ComponentHandler),
		tracer:     otel.Tracer("github.com/robalyx/leo/interaction"),
		logger:     logger.Named("dispatcher"),
	}

	for _, module := range modules {
		routes := module.Routes()

		for name, route := range routes.Commands {
			if _, exists := d.commands[name]; exists {
				return nil, fmt.Errorf("%w: command %q", ErrDuplicateRoute, name)
			}
			d.commands[name] = route
		}

		for name, handler := range routes.Components {
			if name == "" {
				return nil, fmt.Errorf("%w: empty component name", ErrValidation)
			}
			if _, exists := d.components[name]; exists {
				return nil, fmt.Errorf("%w: component %q", ErrDuplicateRoute, name)
			}
			d.components[name] = handler
		}
	}

	d.logger.Debug("Built interaction routes",
		zap.Int("commands", len(d.commands)),
		zap.Int("components", len(d.components)))

	return d, nil
}

// Dispatch runs the handler registered for the interaction and reports whether one ran.
// Unknown commands, subcommands and components are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, inter *Interaction, responder Responder) bool {
	route, run := d.resolve(inter)
	if run == nil {
		metrics.InteractionsTotal.WithLabelValues(inter.Kind.String(), route, "unhandled").Inc()
		d.logger.Debug("No handler for interaction",
			zap.Stringer("kind", inter.Kind),
			zap.String("route", route))
		return false
	}

	ctx, span := d.tracer.Start(ctx, "interaction."+inter.Kind.String(), trace.WithAttributes(
		attribute.String("interaction.route", route),
		attribute.String("interaction.user_id", inter.User.ID.String()),
	))
	defer span.End()

	c := NewContext(ctx, inter, responder)
	start := time.Now()

	err := d.safeRun(c, run)

	metrics.InteractionDuration.WithLabelValues(inter.Kind.String(), route).Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.InteractionsTotal.WithLabelValues(inter.Kind.String(), route, "ok").Inc()
		return true
	}

	metrics.InteractionsTotal.WithLabelValues(inter.Kind.String(), route, "error").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	level := zap.ErrorLevel
	if errors.Is(err, ErrValidation) {
		level = zap.DebugLevel
	}
	d.logger.Log(level, "Interaction handler failed",
		zap.Stringer("kind", inter.Kind),
		zap.String("route", route),
		zap.Uint64("userID", uint64(inter.User.ID)),
		zap.Uint64("channelID", uint64(inter.ChannelID)),
		zap.Error(err))

	if !c.Responded() {
		if replyErr := c.Ephemeral(FailureMessage); replyErr != nil {
			d.logger.Error("Failed to send failure reply", zap.Error(replyErr))
		}
	}

	return true
}

// resolve finds the handler for an interaction and a label describing the route.
func (d *Dispatcher) resolve(inter *Interaction) (string, func(*Context) error) {
	switch inter.Kind {
	case KindCommand:
		route, ok := d.commands[inter.CommandName]
		if !ok {
			return inter.CommandName, nil
		}

		path, opts := FlattenOptions(inter.Options)
		label := inter.CommandName
		if path != "" {
			label += " " + path
		}

		handler := route.Subcommands[path]
		if path == "" {
			handler = route.Default
		}
		if handler == nil {
			return label, nil
		}

		return label, func(c *Context) error { return handler(c, opts) }

	case KindComponent:
		data := ParseComponent(inter.CustomID, inter.Values)
		if data.Name == "" {
			return "", nil
		}

		handler, ok := d.components[data.Name]
		if !ok {
			return data.Name, nil
		}

		return data.Name, func(c *Context) error { return handler(c, data) }
	}

	return "", nil
}

// safeRun converts handler panics into errors.
func (d *Dispatcher) safeRun(c *Context, run func(*Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Panic in interaction handler",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return run(c)
}
