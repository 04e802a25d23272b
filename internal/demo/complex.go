package demo

import (
	"fmt"

	"github.com/five82/sluggish/internal/runtime"
	"github.com/five82/sluggish/internal/state"
)

const shownUsers = 10

// complexPanel shows the nested state tree.
type complexPanel struct {
	app *App
}

func newComplexPanel(a *App) *complexPanel { return &complexPanel{app: a} }

func (p *complexPanel) mount(*runtime.Scope) {}

func (p *complexPanel) render(ctx *AppContext, snap *state.Snapshot) {
	cs := p.app.complex.Get()
	users := cs.Users.Slice()
	lines := make([]string, 0, min(shownUsers, len(users)))
	for _, u := range users[:min(shownUsers, len(users))] {
		lines = append(lines, fmt.Sprintf("%s (%s) - %d posts", u.Name, u.Email, len(u.Posts)))
	}
	settings := cs.Metadata.Settings
	snap.Complex = state.ComplexStats{
		Users:       len(users),
		Theme:       ctx.Theme,
		Language:    settings.Language,
		Email:       settings.Notifications.Email,
		Version:     cs.Metadata.Version,
		LastUpdated: cs.Metadata.LastUpdated,
		UserLines:   lines,
		Clones:      p.app.updater.Clones(),
		Mode:        p.app.updater.Mode.String(),
	}
}

func (p *complexPanel) effects() []*runtime.Effect { return nil }
