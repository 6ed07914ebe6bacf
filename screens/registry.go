package screens

import (
	"fmt"
	"sync"
	"time"

	"sonora/blueprint"
	"sonora/util"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// routes that render no catalog state and so mount no screen
var staticRoutes = []string{blueprint.RouteLanding, blueprint.RouteLogin, blueprint.RouteRegister}

// Registry keeps the mounted screens by id
type Registry struct {
	deps    *Deps
	logger  *zap.Logger
	mu      sync.RWMutex
	screens map[string]Screen
}

func NewRegistry(deps *Deps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		deps:    deps,
		logger:  logger,
		screens: map[string]Screen{},
	}
}

// Navigate parses a route, mounts the screen it names and keeps it. Static routes return a nil
// screen and no error.
func (r *Registry) Navigate(raw string) (*blueprint.Route, Screen, error) {
	route, err := util.ParseRoute(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("route %q: %w", raw, err)
	}
	if lo.Contains(staticRoutes, route.Name) {
		return route, nil, nil
	}

	var screen Screen
	switch route.Name {
	case blueprint.RouteTabs, blueprint.RouteHome:
		screen = NewHome(r.deps)
	case blueprint.RouteSearch:
		screen = NewSearch(r.deps)
	case blueprint.RouteProfile:
		screen = NewProfile(r.deps)
	case blueprint.RouteSongDetail:
		screen = NewSongDetail(r.deps, route.ID)
	case blueprint.RouteArtistDetail:
		screen = NewArtistDetail(r.deps, route.ID)
	case blueprint.RoutePlaylistDetail:
		screen = NewPlaylistDetail(r.deps, route.ID)
	default:
		return nil, nil, fmt.Errorf("route %q: %w", raw, blueprint.EINVALIDROUTE)
	}

	r.mu.Lock()
	r.screens[screen.ID()] = screen
	r.mu.Unlock()
	screen.Mount()

	r.logger.Info("[screens][Registry][Navigate] - screen mounted", zap.String("screen", screen.Name()), zap.String("screen_id", screen.ID()))
	return route, screen, nil
}

// Get returns a mounted screen and marks it active
func (r *Registry) Get(id string) (Screen, error) {
	r.mu.RLock()
	screen, ok := r.screens[id]
	r.mu.RUnlock()
	if !ok {
		return nil, blueprint.ESCREENNOTFOUND
	}
	screen.Touch()
	return screen, nil
}

// Unmount unmounts a screen and forgets it
func (r *Registry) Unmount(id string) error {
	r.mu.Lock()
	screen, ok := r.screens[id]
	delete(r.screens, id)
	r.mu.Unlock()
	if !ok {
		return blueprint.ESCREENNOTFOUND
	}
	screen.Unmount()
	return nil
}

// Len returns the number of mounted screens
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.screens)
}

// Reap unmounts every screen idle for longer than ttl and returns how many went
func (r *Registry) Reap(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	r.mu.Lock()
	var idle []Screen
	for id, screen := range r.screens {
		if screen.LastActive().Before(cutoff) {
			idle = append(idle, screen)
			delete(r.screens, id)
		}
	}
	r.mu.Unlock()

	for _, screen := range idle {
		screen.Unmount()
	}
	if len(idle) > 0 {
		r.logger.Info("[screens][Registry][Reap] - unmounted idle screens", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// UnmountAll unmounts every screen, used on shutdown
func (r *Registry) UnmountAll() {
	r.mu.Lock()
	all := lo.Values(r.screens)
	r.screens = map[string]Screen{}
	r.mu.Unlock()
	for _, screen := range all {
		screen.Unmount()
	}
}

// StartReaper schedules Reap on c. The caller starts and stops c.
func (r *Registry) StartReaper(c *cron.Cron, spec string, ttl time.Duration) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		r.Reap(ttl)
	})
}
