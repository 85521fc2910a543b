package settings

import (
	"encoding/json"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/storage"
)

// Appearance carries the preferences that change how the board looks as a
// whole.
type Appearance struct {
	DarkMode bool
	FontSize FontSize
}

// Presenter is the presentation root. ApplyAppearance is called
// synchronously and must not call back into the Store.
type Presenter interface {
	ApplyAppearance(Appearance)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Appearance)

// ApplyAppearance calls f(a).
func (f PresenterFunc) ApplyAppearance(a Appearance) { f(a) }

// Bootstrap reads the stored record and pushes its appearance to p. It runs
// before any UI is built and before the Store exists, so that the first
// frame already uses the restored theme. It never fails; on a missing or
// unreadable record the default appearance is applied.
func Bootstrap(kv storage.KV, p Presenter) Appearance {
	a := Defaults().Appearance()

	raw, err := kv.Get(RecordKey)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
	case err != nil:
		log.Debug("Could not read settings during bootstrap", "err", err)
	default:
		// Only the two appearance fields are read here; the full record is
		// validated later by the Store.
		var rec struct {
			DarkMode *bool   `json:"darkMode"`
			FontSize *string `json:"fontSize"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Debug("Ignoring unreadable settings during bootstrap", "err", err)
			break
		}
		if rec.DarkMode != nil {
			a.DarkMode = *rec.DarkMode
		}
		if rec.FontSize != nil && FontSize(*rec.FontSize).Valid() {
			a.FontSize = FontSize(*rec.FontSize)
		}
	}

	if p != nil {
		p.ApplyAppearance(a)
	}
	return a
}
