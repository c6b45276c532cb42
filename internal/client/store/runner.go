package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/adminpanel/internal/client/client"
	"github.com/dmitrijs2005/adminpanel/internal/logging"
)

const tracerName = "github.com/dmitrijs2005/adminpanel/internal/client/store"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrEffectPanic    = errors.New("effect panicked")
)

// Policy bounds one command kind: every attempt gets Timeout (0 means none)
// and transient failures are retried up to MaxRetries times, waiting Backoff,
// 2*Backoff, 4*Backoff... between attempts.
type Policy struct {
	Timeout    time.Duration
	MaxRetries uint64
	Backoff    time.Duration
}

const defaultBackoff = 200 * time.Millisecond

// DefaultPolicies retries only the idempotent-enough calls: listing always,
// update and delete once. Login and create are never repeated.
func DefaultPolicies() map[Kind]Policy {
	return map[Kind]Policy{
		KindLogin:      {Timeout: 10 * time.Second, MaxRetries: 0, Backoff: defaultBackoff},
		KindFetchUsers: {Timeout: 10 * time.Second, MaxRetries: 2, Backoff: defaultBackoff},
		KindCreateUser: {Timeout: 10 * time.Second, MaxRetries: 0, Backoff: defaultBackoff},
		KindUpdateUser: {Timeout: 10 * time.Second, MaxRetries: 1, Backoff: defaultBackoff},
		KindDeleteUser: {Timeout: 10 * time.Second, MaxRetries: 1, Backoff: defaultBackoff},
	}
}

// Runner performs the network side of commands against the API.
type Runner struct {
	api      client.Client
	policies map[Kind]Policy
	log      logging.Logger
	tracer   trace.Tracer
}

// NewRunner builds a Runner. Kinds missing from policies use DefaultPolicies.
func NewRunner(api client.Client, policies map[Kind]Policy, log logging.Logger) *Runner {
	merged := DefaultPolicies()
	for k, p := range policies {
		merged[k] = p
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{
		api:      api,
		policies: merged,
		log:      log,
		tracer:   otel.Tracer(tracerName),
	}
}

func (r *Runner) Policy(k Kind) Policy {
	return r.policies[k]
}

// Run executes cmd and always returns a Result; it never panics.
func (r *Runner) Run(ctx context.Context, cmd Command) Result {
	if cmd == nil {
		return Failure(ErrUnknownCommand)
	}
	k := cmd.Kind()
	p := r.policies[k]

	ctx, span := r.tracer.Start(ctx, "store."+k.String(),
		trace.WithAttributes(
			attribute.String("command.kind", k.String()),
			attribute.Int64("command.max_retries", int64(p.MaxRetries)),
		))
	defer span.End()

	backoff := p.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	b := retry.WithMaxRetries(p.MaxRetries, retry.NewExponential(backoff))

	attempt := 0
	payload, err := retry.DoValue(ctx, b, func(ctx context.Context) (any, error) {
		attempt++
		v, err := r.attempt(ctx, cmd, p.Timeout)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, client.ErrUnavailable) {
			r.log.Debug(ctx, "attempt failed", "kind", k, "attempt", attempt, "error", err)
			return nil, retry.RetryableError(err)
		}
		return nil, err
	})

	span.SetAttributes(attribute.Int("command.attempts", attempt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Failure(err)
	}
	span.SetStatus(codes.Ok, "")
	return Success(payload)
}

func (r *Runner) attempt(ctx context.Context, cmd Command, timeout time.Duration) (v any, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			v, err = nil, fmt.Errorf("%w: %v", ErrEffectPanic, p)
		}
	}()

	return r.perform(ctx, cmd)
}

func (r *Runner) perform(ctx context.Context, cmd Command) (any, error) {
	switch c := cmd.(type) {
	case LoginCommand:
		return r.api.Login(ctx, c.Credentials)
	case FetchUsersCommand:
		return r.api.ListUsers(ctx, Offset(c.Page, c.PageSize), c.PageSize)
	case CreateUserCommand:
		return r.api.CreateUser(ctx, c.User)
	case UpdateUserCommand:
		return r.api.UpdateUser(ctx, c.ID, c.Patch)
	case DeleteUserCommand:
		if err := r.api.DeleteUser(ctx, c.ID); err != nil {
			return nil, err
		}
		return c.ID, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
}
