// Package service is the registry's query layer.  Registry validates
// input, applies the delete policy, joins and classifies shows, and
// publishes an event after every committed write.  It holds no mutable
// state of its own: the store handle is injected at construction.
package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/gig-registry/internal/queue"
	"github.com/iliyamo/gig-registry/internal/repository"
)

// EventPublisher delivers domain events.  *queue.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// Registry is the entry point for every venue, artist and show operation.
type Registry struct {
	venues  *repository.VenueRepo
	artists *repository.ArtistRepo
	shows   *repository.ShowRepo
	policy  repository.DeletePolicy
	events  EventPublisher
	logger  *log.Logger
}

// Option customises a Registry.
type Option func(*Registry)

// WithPublisher sets the publisher used after committed writes.  Without
// one, events are dropped.
func WithPublisher(p EventPublisher) Option {
	return func(r *Registry) { r.events = p }
}

// WithLogger sets the logger used for publish failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry builds a Registry over db.  policy governs what happens to
// the shows of a deleted venue or artist.
func NewRegistry(db *sqlx.DB, policy repository.DeletePolicy, opts ...Option) *Registry {
	r := &Registry{
		venues:  repository.NewVenueRepo(db),
		artists: repository.NewArtistRepo(db),
		shows:   repository.NewShowRepo(db),
		policy:  policy,
		logger:  log.New("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DeletePolicy reports the policy the registry was built with.
func (r *Registry) DeletePolicy() repository.DeletePolicy {
	return r.policy
}

// Ping checks that the store answers.
func (r *Registry) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.shows.DB().PingContext(ctx); err != nil {
		return &repository.UnavailableError{Op: "ping", Err: err}
	}
	return nil
}

// publish sends ev without letting a broker failure reach the caller: the
// write it describes has already committed.
func (r *Registry) publish(ctx context.Context, ev queue.Event) {
	if r.events == nil {
		return
	}
	// The request context may be cancelled as soon as the response is
	// written, so the publish gets its own deadline.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := r.events.Publish(pctx, ev); err != nil {
		r.logger.Warnf("publish %s (%s): %v", ev.Type, ev.ID, err)
	}
}
