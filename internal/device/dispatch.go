package device

import "github.com/genricoloni/decksync/internal/domain"

// Dispatcher maps key events to loop actions
type Dispatcher struct {
	refreshKey  int
	favoriteKey int
}

// NewDispatcher reads the key assignment from the configuration
func NewDispatcher(cfg domain.Config) *Dispatcher {
	return &Dispatcher{
		refreshKey:  cfg.GetRefreshKey(),
		favoriteKey: cfg.GetFavoriteKey(),
	}
}

// Action returns what the loop should do for ev. Releases are ignored.
func (d *Dispatcher) Action(ev domain.KeyEvent) domain.KeyAction {
	if !ev.Pressed {
		return domain.ActionNone
	}
	switch ev.Key {
	case d.refreshKey:
		return domain.ActionRefresh
	case d.favoriteKey:
		return domain.ActionFavorite
	default:
		return domain.ActionNone
	}
}
