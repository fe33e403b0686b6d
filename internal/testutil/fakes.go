// Package testutil holds in-memory port implementations for use-case and handler tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

// ErrUnavailable simulates a storage outage.
var ErrUnavailable = errors.New("storage unavailable")

// Users is an in-memory ports.UserRepository.
type Users struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	Fail    error // returned by every call when set
	Calls   int
}

func NewUsers() *Users {
	return &Users{byEmail: make(map[string]*domain.User)}
}

func (u *Users) UpsertByEmail(ctx context.Context, email string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls++
	if u.Fail != nil {
		return nil, u.Fail
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if existing, ok := u.byEmail[email]; ok {
		cp := *existing
		return &cp, nil
	}
	now := time.Now().UTC()
	user := &domain.User{ID: domain.NewUserID(uuid.New()), Email: email, CreatedAt: now, UpdatedAt: now}
	u.byEmail[email] = user
	cp := *user
	return &cp, nil
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls++
	if u.Fail != nil {
		return nil, u.Fail
	}
	user, ok := u.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (u *Users) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls++
	if u.Fail != nil {
		return nil, u.Fail
	}
	for _, user := range u.byEmail {
		if user.ID == userID {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (u *Users) SetBillingCustomerID(ctx context.Context, userID domain.UserID, customerID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls++
	if u.Fail != nil {
		return u.Fail
	}
	for _, user := range u.byEmail {
		if user.ID == userID {
			id := customerID
			user.BillingCustomerID = &id
			return nil
		}
	}
	return nil
}

// Projects is an in-memory ports.ProjectRepository.
type Projects struct {
	mu    sync.Mutex
	rows  []*domain.Project
	clock time.Time
	Fail  error
	Calls int
}

func NewProjects() *Projects {
	return &Projects{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (p *Projects) Count(ctx context.Context, ownerID domain.UserID) (int, error) {
	list, err := p.ListByOwner(ctx, ownerID)
	return len(list), err
}

func (p *Projects) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.Fail != nil {
		return nil, p.Fail
	}
	var out []*domain.Project
	for _, row := range p.rows {
		if row.OwnerID == ownerID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (p *Projects) Create(ctx context.Context, ownerID domain.UserID, draft domain.ProjectDraft) (*domain.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.Fail != nil {
		return nil, p.Fail
	}
	row := p.insertLocked(ownerID, draft)
	cp := *row
	return &cp, nil
}

func (p *Projects) CreateMany(ctx context.Context, ownerID domain.UserID, drafts []domain.ProjectDraft) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.Fail != nil {
		return 0, p.Fail
	}
	for _, d := range drafts {
		p.insertLocked(ownerID, d)
	}
	return len(drafts), nil
}

func (p *Projects) insertLocked(ownerID domain.UserID, draft domain.ProjectDraft) *domain.Project {
	p.clock = p.clock.Add(time.Second)
	row := &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		OwnerID:     ownerID,
		Name:        draft.Name,
		Description: draft.Description,
		MRR:         draft.MRR,
		ActiveUsers: draft.ActiveUsers,
		Status:      draft.Status,
		CreatedAt:   p.clock,
	}
	p.rows = append(p.rows, row)
	return row
}

// All returns every stored project regardless of owner.
func (p *Projects) All() []*domain.Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*domain.Project(nil), p.rows...)
}

// ViewCache is an in-memory ports.ViewCache that records invalidations.
type ViewCache struct {
	mu          sync.Mutex
	gens        map[domain.UserID]int64
	entries     map[viewKey][]*domain.Project
	Invalidated []domain.UserID
	Fail        error
}

type viewKey struct {
	owner domain.UserID
	gen   int64
}

func NewViewCache() *ViewCache {
	return &ViewCache{gens: make(map[domain.UserID]int64), entries: make(map[viewKey][]*domain.Project)}
}

func (c *ViewCache) Generation(ctx context.Context, ownerID domain.UserID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return 0, c.Fail
	}
	return c.gens[ownerID], nil
}

func (c *ViewCache) Get(ctx context.Context, ownerID domain.UserID, gen int64) ([]*domain.Project, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, false, c.Fail
	}
	v, ok := c.entries[viewKey{ownerID, gen}]
	return v, ok, nil
}

func (c *ViewCache) Set(ctx context.Context, ownerID domain.UserID, gen int64, projects []*domain.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	c.entries[viewKey{ownerID, gen}] = projects
	return nil
}

func (c *ViewCache) Invalidate(ctx context.Context, ownerID domain.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidated = append(c.Invalidated, ownerID)
	if c.Fail != nil {
		return c.Fail
	}
	delete(c.entries, viewKey{ownerID, c.gens[ownerID]})
	c.gens[ownerID]++
	return nil
}

// Enqueuer records enqueued tasks.
type Enqueuer struct {
	mu         sync.Mutex
	MagicLinks []string // link URLs
	Events     []string
}

func (e *Enqueuer) EnqueueSendMagicLink(ctx context.Context, email, linkURL string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.MagicLinks = append(e.MagicLinks, linkURL)
	return nil
}

func (e *Enqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Events = append(e.Events, event)
	return nil
}

// MagicLinks is an in-memory ports.MagicLinkStore.
type MagicLinks struct {
	mu     sync.Mutex
	tokens map[string]magicLink
}

type magicLink struct {
	email     string
	expiresAt int64
	used      bool
	usedAt    int64
}

func NewMagicLinks() *MagicLinks {
	return &MagicLinks{tokens: make(map[string]magicLink)}
}

func (m *MagicLinks) Create(ctx context.Context, email, tokenHash string, expiresAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tokenHash] = magicLink{email: email, expiresAt: expiresAt}
	return nil
}

func (m *MagicLinks) Consume(ctx context.Context, tokenHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.tokens[tokenHash]
	if !ok || l.used || time.Now().Unix() >= l.expiresAt {
		return "", nil
	}
	l.used = true
	l.usedAt = time.Now().Unix()
	m.tokens[tokenHash] = l
	return l.email, nil
}

func (m *MagicLinks) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for hash, l := range m.tokens {
		if l.expiresAt < before.Unix() || (l.used && l.usedAt < before.Unix()) {
			delete(m.tokens, hash)
			n++
		}
	}
	return n, nil
}

// Len reports how many links are stored.
func (m *MagicLinks) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

// StaticSessions is a ports.SessionIssuer whose tokens are "session:<userID>:<email>".
type StaticSessions struct{}

func (StaticSessions) IssueSessionToken(userID, email string, expiresInSeconds int64) (string, error) {
	return "session:" + userID + ":" + email, nil
}

func (StaticSessions) ValidateSessionToken(tokenString string) (string, string, error) {
	parts := strings.SplitN(tokenString, ":", 3)
	if len(parts) != 3 || parts[0] != "session" || parts[2] == "" {
		return "", "", errors.New("invalid token")
	}
	return parts[1], parts[2], nil
}

// Token returns a credential that StaticSessions resolves to email.
func Token(email string) string {
	return "session:u:" + email
}

// Billing is a scripted ports.BillingProvider.
type Billing struct {
	Customers   map[string]string // email -> customer id
	PortalURL   string
	CheckoutURL string
	Fail        error
	Lookups     int
	Portals     []string // customer ids
}

func (b *Billing) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	b.Lookups++
	if b.Fail != nil {
		return "", b.Fail
	}
	return b.Customers[email], nil
}

func (b *Billing) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if b.Fail != nil {
		return "", b.Fail
	}
	b.Portals = append(b.Portals, customerID)
	return b.PortalURL, nil
}

func (b *Billing) CreateCheckoutSession(ctx context.Context, req ports.CheckoutRequest) (string, error) {
	if b.Fail != nil {
		return "", b.Fail
	}
	return b.CheckoutURL, nil
}

var (
	_ ports.UserRepository    = (*Users)(nil)
	_ ports.ProjectRepository = (*Projects)(nil)
	_ ports.ViewCache         = (*ViewCache)(nil)
	_ ports.TaskEnqueuer      = (*Enqueuer)(nil)
	_ ports.MagicLinkStore    = (*MagicLinks)(nil)
	_ ports.SessionIssuer     = StaticSessions{}
	_ ports.BillingProvider   = (*Billing)(nil)
)
