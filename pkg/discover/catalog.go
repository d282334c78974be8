// Package discover manages a listener's constellations: their own (the
// original), those discovered from other listeners and fusions of the two.
// The catalog owns the artist lists, persists them through a Store and
// serves derived graph snapshots from an explicit LRU cache.
package discover

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/metrics"
	"github.com/dd0wney/cluso-constellations/pkg/pubsub"
)

// CatalogConfig wires a catalog. Zero fields get working defaults: the
// stock builder, an in-memory store, a 32-entry cache and no event bus.
type CatalogConfig struct {
	Builder         *constellation.Builder
	Store           Store
	Cache           *GraphCache
	Bus             *pubsub.Bus
	Logger          logging.Logger
	Metrics         *metrics.Registry
	Clock           func() time.Time
	WarmParallelism int
}

// Catalog is safe for concurrent use. Entries are replaced, never modified
// in place, so values handed out stay consistent.
type Catalog struct {
	mu         sync.RWMutex
	owner      string
	original   *Entry
	discovered []*Entry // newest first
	fused      []*Entry // newest first

	builder     *constellation.Builder
	store       Store
	cache       *GraphCache
	bus         *pubsub.Bus
	logger      logging.Logger
	metrics     *metrics.Registry
	clock       func() time.Time
	parallelism int
}

// NewCatalog creates an empty catalog. Call Load to restore saved state.
func NewCatalog(cfg CatalogConfig) *Catalog {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Builder == nil {
		cfg.Builder = constellation.NewBuilder(constellation.DefaultBuildOptions(), cfg.Logger, cfg.Metrics)
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Cache == nil {
		cfg.Cache = NewGraphCache(32)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.WarmParallelism <= 0 {
		cfg.WarmParallelism = 4
	}
	return &Catalog{
		builder:     cfg.Builder,
		store:       cfg.Store,
		cache:       cfg.Cache,
		bus:         cfg.Bus,
		logger:      cfg.Logger.With(logging.Component("catalog")),
		metrics:     cfg.Metrics,
		clock:       cfg.Clock,
		parallelism: cfg.WarmParallelism,
	}
}

// Load replaces the catalog contents with the store's saved state.
func (c *Catalog) Load(ctx context.Context) error {
	start := time.Now()
	state, err := c.store.Load(ctx)
	c.recordStore("load", err, time.Since(start))
	if err != nil {
		return opError("Load", "", "", errors.Join(ErrStore, err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.original = nil
	c.owner = ""
	if state.Original != nil {
		e := *state.Original
		c.original = &e
		c.owner = e.Username
	}
	c.discovered = toPointers(state.Discovered)
	c.fused = toPointers(state.Fused)
	c.cache.Clear()
	c.updateGauges()

	c.logger.Info("catalog loaded",
		logging.String("store", c.store.Name()),
		logging.Int("discovered", len(c.discovered)),
		logging.Int("fused", len(c.fused)),
	)
	return nil
}

func toPointers(entries []Entry) []*Entry {
	out := make([]*Entry, len(entries))
	for i := range entries {
		e := entries[i]
		out[i] = &e
	}
	return out
}

// Owner returns the username of the original constellation.
func (c *Catalog) Owner() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// SetOriginal installs the owner's constellation, replacing any previous one.
func (c *Catalog) SetOriginal(ctx context.Context, username string, artists []constellation.Artist, similarity constellation.SimilarityTable) (*Entry, error) {
	username = strings.TrimSpace(username)
	now := c.clock()

	name := username
	if name == "" {
		name = "Original"
	}
	entry := &Entry{
		Kind:        KindOriginal,
		Key:         OriginalKey,
		Name:        name,
		Username:    username,
		CreatedAt:   now,
		LoadedAt:    now,
		LastChecked: now,
		Artists:     append([]constellation.Artist(nil), artists...),
		Similarity:  similarity,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cp := c.checkpoint()

	c.install(entry)
	c.original = entry
	c.owner = username
	return c.commit(ctx, cp, "SetOriginal", entry, pubsub.ActionUpdated)
}

// AddDiscovered adds another listener's constellation at the front of the
// discovered list. Images are dropped.
func (c *Catalog) AddDiscovered(ctx context.Context, username string, artists []constellation.Artist) (*Entry, error) {
	cleaned := strings.TrimSpace(username)
	if cleaned == "" {
		return nil, opError("AddDiscovered", KindDiscovered, "", ErrEmptyUsername)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cp := c.checkpoint()

	if c.owner != "" && strings.EqualFold(cleaned, c.owner) {
		return nil, opError("AddDiscovered", KindDiscovered, cleaned, ErrIsOriginal)
	}
	if _, i := c.findDiscovered(cleaned); i >= 0 {
		return nil, opError("AddDiscovered", KindDiscovered, cleaned, ErrAlreadyDiscovered)
	}

	now := c.clock()
	entry := &Entry{
		Kind:        KindDiscovered,
		Key:         cleaned,
		Name:        cleaned,
		Username:    cleaned,
		CreatedAt:   now,
		LoadedAt:    now,
		LastChecked: now,
		Artists:     StripImages(artists),
	}
	c.install(entry)
	c.discovered = append([]*Entry{entry}, c.discovered...)
	return c.commit(ctx, cp, "AddDiscovered", entry, pubsub.ActionCreated)
}

// RefreshDiscovered replaces a discovered listener's artists, keeping the
// original load time and position.
func (c *Catalog) RefreshDiscovered(ctx context.Context, username string, artists []constellation.Artist) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := c.checkpoint()

	old, i := c.findDiscovered(strings.TrimSpace(username))
	if i < 0 {
		return nil, opError("RefreshDiscovered", KindDiscovered, username, ErrNotFound)
	}

	entry := &Entry{
		Kind:        KindDiscovered,
		Key:         old.Key,
		Name:        old.Name,
		Username:    old.Username,
		CreatedAt:   old.CreatedAt,
		LoadedAt:    old.LoadedAt,
		LastChecked: c.clock(),
		Artists:     StripImages(artists),
	}
	c.install(entry)
	c.discovered[i] = entry
	return c.commit(ctx, cp, "RefreshDiscovered", entry, pubsub.ActionUpdated)
}

// RemoveDiscovered drops a discovered listener. Fusions made from it stay.
func (c *Catalog) RemoveDiscovered(ctx context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := c.checkpoint()

	old, i := c.findDiscovered(strings.TrimSpace(username))
	if i < 0 {
		return opError("RemoveDiscovered", KindDiscovered, username, ErrNotFound)
	}
	c.discovered = append(c.discovered[:i:i], c.discovered[i+1:]...)
	_, err := c.commitRemoval(ctx, cp, "RemoveDiscovered", old)
	return err
}

// CreateFusion fuses the original constellation with a discovered one.
func (c *Catalog) CreateFusion(ctx context.Context, username string, fusionType FusionType) (*Entry, error) {
	if !fusionType.Valid() {
		return nil, opError("CreateFusion", KindFused, "", ErrInvalidFusion)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cp := c.checkpoint()

	if c.original == nil || len(c.original.Artists) == 0 {
		return nil, opError("CreateFusion", KindFused, "", ErrNoOriginal)
	}
	target, i := c.findDiscovered(strings.TrimSpace(username))
	if i < 0 {
		return nil, opError("CreateFusion", KindDiscovered, username, ErrNotFound)
	}

	artists, err := Fuse(fusionType, c.original.Artists, target.Artists)
	if err != nil {
		return nil, opError("CreateFusion", KindFused, "", err)
	}

	label := "Union"
	if fusionType == FusionIntersection {
		label = "Shared"
	}
	now := c.clock()
	entry := &Entry{
		Kind:        KindFused,
		Key:         "fuse_" + uuid.NewString(),
		Name:        fmt.Sprintf("You + %s (%s)", target.Username, label),
		FusionType:  fusionType,
		SourceUsers: []string{SelfUser, target.Username},
		CreatedAt:   now,
		LoadedAt:    now,
		Artists:     artists,
	}
	c.install(entry)
	c.fused = append([]*Entry{entry}, c.fused...)
	return c.commit(ctx, cp, "CreateFusion", entry, pubsub.ActionCreated)
}

// RemoveFused drops a fusion by id.
func (c *Catalog) RemoveFused(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := c.checkpoint()

	for i, e := range c.fused {
		if e.Key == id {
			c.fused = append(c.fused[:i:i], c.fused[i+1:]...)
			_, err := c.commitRemoval(ctx, cp, "RemoveFused", e)
			return err
		}
	}
	return opError("RemoveFused", KindFused, id, ErrNotFound)
}

// SetImages attaches image URLs, keyed by lowercased artist name, to an
// entry's artists and marks its images loaded.
func (c *Catalog) SetImages(ctx context.Context, kind Kind, key string, images map[string]string) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := c.checkpoint()

	old := c.find(kind, key)
	if old == nil {
		return nil, opError("SetImages", kind, key, ErrNotFound)
	}

	entry := *old
	entry.Artists = make([]constellation.Artist, len(old.Artists))
	for i, a := range old.Artists {
		if url, ok := images[strings.ToLower(a.Name)]; ok && url != "" {
			a.ImageURL = url
		}
		entry.Artists[i] = a
	}
	entry.ImagesLoaded = true

	c.install(&entry)
	c.replace(&entry)
	return c.commit(ctx, cp, "SetImages", &entry, pubsub.ActionUpdated)
}

// Get returns a copy of one entry.
func (c *Catalog) Get(kind Kind, key string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e := c.find(kind, key)
	if e == nil {
		return Entry{}, opError("Get", kind, key, ErrNotFound)
	}
	return *e, nil
}

// List returns summaries of every entry: the original first, then
// discovered and fused entries, newest first.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, 0, 1+len(c.discovered)+len(c.fused))
	for _, e := range c.all() {
		out = append(out, e.Summary())
	}
	return out
}

// Snapshot returns the derived graph of an entry, building and caching it
// on a miss.
func (c *Catalog) Snapshot(kind Kind, key string) (*Snapshot, error) {
	c.mu.RLock()
	entry := c.find(kind, key)
	c.mu.RUnlock()
	if entry == nil {
		return nil, opError("Snapshot", kind, key, ErrNotFound)
	}

	cacheKey := Key{Kind: entry.Kind, ID: entry.Key}
	if snap := c.cache.Get(cacheKey); snap != nil {
		c.recordCache(true)
		return snap, nil
	}
	c.recordCache(false)

	snap := newSnapshot(cacheKey, c.builder.Build(entry.Artists, entry.Similarity), c.clock())

	// only cache if the entry was not replaced while we were building
	c.mu.RLock()
	if c.find(kind, key) == entry {
		c.cache.Put(cacheKey, snap)
	}
	c.mu.RUnlock()
	return snap, nil
}

// Warm builds every missing snapshot concurrently.
func (c *Catalog) Warm(ctx context.Context) error {
	c.mu.RLock()
	entries := c.all()
	c.mu.RUnlock()

	timer := logging.StartTimer(c.logger, "catalog warmed", logging.Count(len(entries)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := c.Snapshot(e.Kind, e.Key)
			if errors.Is(err, ErrNotFound) {
				// removed since we listed it
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		timer.EndError(err)
		return err
	}
	timer.End()
	return nil
}

// Invalidate drops the cached snapshot of one entry.
func (c *Catalog) Invalidate(kind Kind, key string) {
	c.cache.Invalidate(Key{Kind: kind, ID: key})
}

// Listen reloads the catalog from the store whenever another server
// announces a change, so servers sharing a store see each other's entries
// and never save over them with a stale list. It returns when ctx is
// cancelled or the bus shuts down.
func (c *Catalog) Listen(ctx context.Context) error {
	if c.bus == nil {
		return errors.New("catalog has no event bus")
	}
	sub, err := c.bus.Subscribe(ctx, pubsub.TopicConstellations)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for e := range sub.Channel() {
		if e.Origin == c.bus.ID() {
			continue
		}
		c.logger.Debug("remote change",
			logging.Constellation(e.Kind, e.Key),
			logging.String("action", e.Action),
			logging.String("origin", e.Origin),
		)
		if err := c.Load(ctx); err != nil {
			// keep serving what we have; the next event retries
			c.logger.Warn("failed to reload after remote change", logging.Error(err))
			c.Invalidate(Kind(e.Kind), e.Key)
		}
	}
	return ctx.Err()
}

// install builds the entry's graph once to fill in its stats and seeds the
// cache with the result. Caller holds c.mu.
func (c *Catalog) install(e *Entry) {
	graph := c.builder.Build(e.Artists, e.Similarity)
	e.Stats = computeStats(e.Artists, graph)
	key := Key{Kind: e.Kind, ID: e.Key}
	c.cache.Put(key, newSnapshot(key, graph, c.clock()))
}

// replace swaps e in for the entry with the same kind and key.
func (c *Catalog) replace(e *Entry) {
	switch e.Kind {
	case KindOriginal:
		c.original = e
	case KindDiscovered:
		for i := range c.discovered {
			if c.discovered[i].Key == e.Key {
				c.discovered[i] = e
			}
		}
	case KindFused:
		for i := range c.fused {
			if c.fused[i].Key == e.Key {
				c.fused[i] = e
			}
		}
	}
}

// checkpoint is the catalog contents before a mutation, kept so a failed
// save can be undone.
type checkpoint struct {
	owner      string
	original   *Entry
	discovered []*Entry
	fused      []*Entry
}

// Caller holds c.mu.
func (c *Catalog) checkpoint() checkpoint {
	return checkpoint{
		owner:      c.owner,
		original:   c.original,
		discovered: append([]*Entry(nil), c.discovered...),
		fused:      append([]*Entry(nil), c.fused...),
	}
}

// rollback restores cp after a failed save and drops any snapshot seeded
// for e. Caller holds c.mu.
func (c *Catalog) rollback(cp checkpoint, e *Entry) {
	c.owner = cp.owner
	c.original = cp.original
	c.discovered = cp.discovered
	c.fused = cp.fused
	c.cache.Invalidate(Key{Kind: e.Kind, ID: e.Key})
	c.updateGauges()
}

// commit saves the mutated state and only then announces it. On a failed
// save the mutation is rolled back, so the caller can retry.
func (c *Catalog) commit(ctx context.Context, cp checkpoint, op string, e *Entry, action string) (*Entry, error) {
	if err := c.persist(ctx); err != nil {
		c.rollback(cp, e)
		return nil, opError(op, e.Kind, e.Key, errors.Join(ErrStore, err))
	}
	c.publish(e, action)
	c.updateGauges()
	c.logger.Info("catalog updated",
		logging.Operation(op),
		logging.Constellation(string(e.Kind), e.Key),
		logging.Int("artists", e.Stats.ArtistCount),
		logging.Int("connections", e.Stats.ConnectionCount),
	)
	out := *e
	return &out, nil
}

func (c *Catalog) commitRemoval(ctx context.Context, cp checkpoint, op string, e *Entry) (*Entry, error) {
	if err := c.persist(ctx); err != nil {
		c.rollback(cp, e)
		return nil, opError(op, e.Kind, e.Key, errors.Join(ErrStore, err))
	}
	c.cache.Invalidate(Key{Kind: e.Kind, ID: e.Key})
	c.publish(e, pubsub.ActionRemoved)
	c.updateGauges()
	c.logger.Info("catalog entry removed", logging.Operation(op), logging.Constellation(string(e.Kind), e.Key))
	return e, nil
}

func (c *Catalog) publish(e *Entry, action string) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(pubsub.Event{
		Topic:  pubsub.TopicConstellations,
		Kind:   string(e.Kind),
		Key:    e.Key,
		Action: action,
		At:     c.clock(),
	})
}

// persist saves the current state. Caller holds c.mu.
func (c *Catalog) persist(ctx context.Context) error {
	state := &State{
		Original:   c.original,
		Discovered: make([]Entry, len(c.discovered)),
		Fused:      make([]Entry, len(c.fused)),
	}
	for i, e := range c.discovered {
		state.Discovered[i] = *e
	}
	for i, e := range c.fused {
		state.Fused[i] = *e
	}

	start := time.Now()
	err := c.store.Save(ctx, state)
	c.recordStore("save", err, time.Since(start))
	if err != nil {
		c.logger.Error("failed to save catalog", logging.String("store", c.store.Name()), logging.Error(err))
	}
	return err
}

func (c *Catalog) findDiscovered(username string) (*Entry, int) {
	for i, e := range c.discovered {
		if strings.EqualFold(e.Username, username) {
			return e, i
		}
	}
	return nil, -1
}

func (c *Catalog) find(kind Kind, key string) *Entry {
	switch kind {
	case KindOriginal:
		return c.original
	case KindDiscovered:
		e, _ := c.findDiscovered(key)
		return e
	case KindFused:
		for _, e := range c.fused {
			if e.Key == key {
				return e
			}
		}
	}
	return nil
}

func (c *Catalog) all() []*Entry {
	entries := make([]*Entry, 0, 1+len(c.discovered)+len(c.fused))
	if c.original != nil {
		entries = append(entries, c.original)
	}
	entries = append(entries, c.discovered...)
	return append(entries, c.fused...)
}

func (c *Catalog) updateGauges() {
	if c.metrics == nil {
		return
	}
	original := 0
	if c.original != nil {
		original = 1
	}
	c.metrics.SetCatalogEntries(string(KindOriginal), original)
	c.metrics.SetCatalogEntries(string(KindDiscovered), len(c.discovered))
	c.metrics.SetCatalogEntries(string(KindFused), len(c.fused))
}

func (c *Catalog) recordCache(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(hit)
	}
}

func (c *Catalog) recordStore(op string, err error, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordStoreOperation(c.store.Name(), op, err, d)
	}
}
