// Package dashboard composes identity, storage, aggregation and intake into the
// two dashboard entry points: the read path and the project-creation round trip.
package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amirhosseinghanipour/launchpad/internal/application/auth"
	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/application/project"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
)

// EventProjectCreated is the audit event emitted after a successful insert.
const EventProjectCreated = "project.created"

// Page is the outcome of one dashboard request.
// RedirectTo is set, and nothing else, when the caller is not signed in.
type Page struct {
	RedirectTo string
	Identity   domain.Identity
	Projects   []*domain.Project
	Summary    project.Summary
	Created    *domain.Project // set by CreateProject
	FromCache  bool
}

// Authenticated reports whether the page was rendered for a signed-in user.
func (p *Page) Authenticated() bool { return p.RedirectTo == "" }

// Dashboard is the per-request orchestrator. It holds only injected, shared-safe handles.
type Dashboard struct {
	resolve    *auth.ResolveIdentity
	users      ports.UserRepository
	projects   ports.ProjectRepository
	cache      ports.ViewCache
	events     ports.TaskEnqueuer
	signInPath string
	tracer     trace.Tracer
	log        zerolog.Logger
}

// NewDashboard builds the orchestrator. cache and events may be nil.
func NewDashboard(resolve *auth.ResolveIdentity, users ports.UserRepository, projects ports.ProjectRepository, cache ports.ViewCache, events ports.TaskEnqueuer, signInPath string, log zerolog.Logger) *Dashboard {
	if signInPath == "" {
		signInPath = "/signin"
	}
	return &Dashboard{
		resolve:    resolve,
		users:      users,
		projects:   projects,
		cache:      cache,
		events:     events,
		signInPath: signInPath,
		tracer:     otel.Tracer("github.com/amirhosseinghanipour/launchpad/internal/application/dashboard"),
		log:        log,
	}
}

// Load runs the read path: resolve, fetch, aggregate.
func (d *Dashboard) Load(ctx context.Context, credential string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := d.tracer.Start(ctx, "dashboard.load")
	defer span.End()

	identity, ok := d.resolve.Execute(ctx, credential)
	if !ok {
		return d.redirect(), nil
	}
	user, err := d.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("load user: %w", err))
	}
	if user == nil {
		// Signed in but never stored; render the empty state.
		return &Page{Identity: identity}, nil
	}
	page, err := d.read(ctx, identity, user.ID, true)
	if err != nil {
		return nil, spanErr(span, err)
	}
	span.SetAttributes(attribute.Int("projects.count", page.Summary.ProjectCount), attribute.Bool("cache.hit", page.FromCache))
	return page, nil
}

// CreateProject runs the mutation path. Identity is resolved again for this call; the owner
// is always the resolved user. On success the returned page already contains the new project.
// A rejected intake returns a *project.ValidationError and stores nothing.
func (d *Dashboard) CreateProject(ctx context.Context, credential string, raw project.RawFields) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := d.tracer.Start(ctx, "dashboard.create_project")
	defer span.End()

	identity, ok := d.resolve.Execute(ctx, credential)
	if !ok {
		return d.redirect(), nil
	}
	draft, err := project.ValidateIntake(raw)
	if err != nil {
		return nil, err
	}
	user, err := d.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("load user: %w", err))
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	created, err := d.projects.Create(ctx, user.ID, *draft)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("create project: %w", err))
	}
	if d.cache != nil {
		if err := d.cache.Invalidate(ctx, user.ID); err != nil {
			// The fresh read below overwrites the entry for the current generation.
			d.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("invalidate dashboard view failed")
		}
	}
	page, err := d.read(ctx, identity, user.ID, false)
	if err != nil {
		return nil, spanErr(span, err)
	}
	page.Created = created
	d.emit(ctx, user.ID, created)
	span.SetAttributes(attribute.String("project.id", created.ID.String()))
	return page, nil
}

// read lists the owner's projects, from the view cache when allowed, and aggregates them.
// The generation is taken before the store read, so a fill racing a mutation is stored
// under a generation the mutation has already retired.
func (d *Dashboard) read(ctx context.Context, identity domain.Identity, ownerID domain.UserID, useCache bool) (*Page, error) {
	gen, cacheOK := d.generation(ctx, ownerID)
	if useCache && cacheOK {
		cached, found, err := d.cache.Get(ctx, ownerID, gen)
		if err != nil {
			d.log.Warn().Err(err).Str("user_id", ownerID.String()).Msg("read dashboard view failed")
		} else if found {
			return &Page{Identity: identity, Projects: cached, Summary: project.Aggregate(cached), FromCache: true}, nil
		}
	}
	projects, err := d.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if cacheOK {
		if err := d.cache.Set(ctx, ownerID, gen, projects); err != nil {
			d.log.Warn().Err(err).Str("user_id", ownerID.String()).Msg("store dashboard view failed")
		}
	}
	return &Page{Identity: identity, Projects: projects, Summary: project.Aggregate(projects)}, nil
}

func (d *Dashboard) generation(ctx context.Context, ownerID domain.UserID) (int64, bool) {
	if d.cache == nil {
		return 0, false
	}
	gen, err := d.cache.Generation(ctx, ownerID)
	if err != nil {
		d.log.Warn().Err(err).Str("user_id", ownerID.String()).Msg("read dashboard view generation failed")
		return 0, false
	}
	return gen, true
}

// SignInPath is where unauthenticated callers are sent.
func (d *Dashboard) SignInPath() string { return d.signInPath }

func (d *Dashboard) redirect() *Page {
	return &Page{RedirectTo: d.signInPath}
}

func (d *Dashboard) emit(ctx context.Context, ownerID domain.UserID, p *domain.Project) {
	if d.events == nil {
		return
	}
	err := d.events.EnqueueWebhook(ctx, EventProjectCreated, ports.AuditEvent{
		Event:   EventProjectCreated,
		UserID:  ownerID.String(),
		Success: true,
	})
	if err != nil {
		d.log.Warn().Err(err).Str("project_id", p.ID.String()).Msg("enqueue project.created failed")
	}
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
