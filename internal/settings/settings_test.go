package settings

import (
	"sync"
	"testing"

	"github.com/laoaac/aacboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Presenter that remembers every appearance it was given.
type recorder struct {
	mu      sync.Mutex
	applied []Appearance
}

func (r *recorder) ApplyAppearance(a Appearance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, a)
}

func (r *recorder) last() Appearance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied[len(r.applied)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applied)
}

func TestLoadDefaultsOnEmptyStorage(t *testing.T) {
	s := NewStore(storage.NewMemory())
	defer s.Close()

	got := s.Get()
	assert.Equal(t, Settings{
		DarkMode:     false,
		GridDensity:  4,
		HighContrast: false,
		FontSize:     FontNormal,
	}, got)
}

func TestLoadDefaultsOnCorruptStorage(t *testing.T) {
	for name, raw := range map[string]string{
		"truncated":  `{"darkMode": tr`,
		"wrong type": `{"darkMode": "yes"}`,
		"array":      `[1,2,3]`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(RecordKey, []byte(raw)))

			s := NewStore(kv)
			defer s.Close()
			assert.Equal(t, Defaults(), s.Get())
		})
	}
}

func TestLoadMergesPartialRecordOverDefaults(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(RecordKey, []byte(`{"darkMode":true,"fontSize":"elder"}`)))

	s := NewStore(kv)
	defer s.Close()

	assert.Equal(t, Settings{
		DarkMode:     true,
		GridDensity:  4,
		HighContrast: false,
		FontSize:     FontElder,
	}, s.Get())
}

func TestLoadReplacesInvalidEnums(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(RecordKey, []byte(`{"gridSize":7,"fontSize":"huge","highContrast":true}`)))

	s := NewStore(kv)
	defer s.Close()

	got := s.Get()
	assert.Equal(t, GridDensity4, got.GridDensity)
	assert.Equal(t, FontNormal, got.FontSize)
	assert.True(t, got.HighContrast)
}

func TestDecodeFillsDefaults(t *testing.T) {
	tt := []struct {
		name string
		raw  string
		want Settings
	}{
		{"empty", `{}`, Defaults()},
		{"null", `null`, Defaults()},
		{"zero enums", `{"gridSize":0,"fontSize":""}`, Defaults()},
		{"dark only", `{"darkMode":true}`, Settings{DarkMode: true, GridDensity: GridDensity4, FontSize: FontNormal}},
		{"grid kept", `{"gridSize":2}`, Settings{GridDensity: GridDensity2, FontSize: FontNormal}},
		{"font kept", `{"highContrast":true,"fontSize":"elder"}`, Settings{HighContrast: true, GridDensity: GridDensity4, FontSize: FontElder}},
		{"invalid enums", `{"gridSize":7,"fontSize":"huge","darkMode":true}`, Settings{DarkMode: true, GridDensity: GridDensity4, FontSize: FontNormal}},
		{"negative grid", `{"gridSize":-3,"fontSize":"large"}`, Settings{GridDensity: GridDensity4, FontSize: FontLarge}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decode([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.GridDensity.Valid())
			assert.True(t, got.FontSize.Valid())
		})
	}
}

func TestUpdateRoundTripsAcrossRestart(t *testing.T) {
	kv := storage.NewMemory()

	s := NewStore(kv)
	_, err := s.SetGridDensity(GridDensity3)
	require.NoError(t, err)
	dark := true
	_, err = s.Update(Patch{DarkMode: &dark})
	require.NoError(t, err)
	s.Close()

	restarted := NewStore(kv)
	defer restarted.Close()

	got := restarted.Get()
	assert.True(t, got.DarkMode)
	assert.Equal(t, GridDensity3, got.GridDensity)
	assert.False(t, got.HighContrast)
	assert.Equal(t, FontNormal, got.FontSize)
}

func TestEveryUpdateIsWritten(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv)

	for i := 0; i < 25; i++ {
		s.ToggleHighContrast()
	}
	s.Close()

	// An odd number of toggles leaves high contrast on.
	assert.True(t, NewStore(kv).Get().HighContrast)
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	kv := storage.NewMemory()
	kv.FailWrites = true

	s := NewStore(kv)
	got := s.ToggleDarkMode()
	s.Close()

	assert.True(t, got.DarkMode, "in-memory state still changes")
	assert.True(t, s.Get().DarkMode)

	kv.FailWrites = false
	assert.False(t, NewStore(kv).Get().DarkMode, "the change was not persisted")
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	s := NewStore(storage.NewMemory())
	defer s.Close()

	_, err := s.SetGridDensity(5)
	assert.ErrorIs(t, err, ErrInvalidGridDensity)

	_, err = s.SetFontSize("tiny")
	assert.ErrorIs(t, err, ErrInvalidFontSize)

	assert.Equal(t, Defaults(), s.Get())
}

func TestAppearanceAppliedSynchronously(t *testing.T) {
	rec := &recorder{}
	s := NewStore(storage.NewMemory(), WithPresenter(rec))
	defer s.Close()

	require.Equal(t, 1, rec.count(), "load applies appearance")
	assert.Equal(t, Appearance{DarkMode: false, FontSize: FontNormal}, rec.last())

	s.ToggleDarkMode()
	require.Equal(t, 2, rec.count())
	assert.Equal(t, Appearance{DarkMode: true, FontSize: FontNormal}, rec.last())

	_, err := s.SetFontSize(FontLarge)
	require.NoError(t, err)
	require.Equal(t, 3, rec.count())
	assert.Equal(t, FontLarge, rec.last().FontSize)

	// Non-appearance changes do not touch the presenter.
	s.ToggleHighContrast()
	_, err = s.SetGridDensity(GridDensity2)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.count())
}

func TestToggles(t *testing.T) {
	s := NewStore(storage.NewMemory())
	defer s.Close()

	assert.True(t, s.ToggleDarkMode().DarkMode)
	assert.False(t, s.ToggleDarkMode().DarkMode)
	assert.True(t, s.ToggleHighContrast().HighContrast)

	got, err := s.SetFontSize(FontElder)
	require.NoError(t, err)
	assert.Equal(t, FontElder, got.FontSize)
}

func TestCloseIsIdempotent(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv)
	s.Close()
	s.Close()

	// Updates after Close are still written, synchronously.
	s.ToggleDarkMode()
	assert.True(t, NewStore(kv).Get().DarkMode)
}

func TestBootstrap(t *testing.T) {
	t.Run("empty storage", func(t *testing.T) {
		rec := &recorder{}
		a := Bootstrap(storage.NewMemory(), rec)
		assert.Equal(t, Appearance{DarkMode: false, FontSize: FontNormal}, a)
		assert.Equal(t, a, rec.last())
	})

	t.Run("stored appearance", func(t *testing.T) {
		kv := storage.NewMemory()
		require.NoError(t, kv.Set(RecordKey, []byte(`{"darkMode":true,"fontSize":"large","gridSize":2}`)))

		rec := &recorder{}
		a := Bootstrap(kv, rec)
		assert.Equal(t, Appearance{DarkMode: true, FontSize: FontLarge}, a)
		assert.Equal(t, 1, rec.count())
	})

	t.Run("corrupt record", func(t *testing.T) {
		kv := storage.NewMemory()
		require.NoError(t, kv.Set(RecordKey, []byte(`not json`)))

		a := Bootstrap(kv, nil)
		assert.Equal(t, Defaults().Appearance(), a)
	})

	t.Run("unknown font size", func(t *testing.T) {
		kv := storage.NewMemory()
		require.NoError(t, kv.Set(RecordKey, []byte(`{"fontSize":"giant","darkMode":true}`)))

		a := Bootstrap(kv, nil)
		assert.Equal(t, Appearance{DarkMode: true, FontSize: FontNormal}, a)
	})
}

func TestBootstrapMatchesStore(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv)
	s.ToggleDarkMode()
	_, err := s.SetFontSize(FontElder)
	require.NoError(t, err)
	s.Close()

	assert.Equal(t, s.Get().Appearance(), Bootstrap(kv, nil))
}

func TestParseFontSize(t *testing.T) {
	f, err := ParseFontSize("large")
	require.NoError(t, err)
	assert.Equal(t, FontLarge, f)

	_, err = ParseFontSize("LARGE")
	assert.ErrorIs(t, err, ErrInvalidFontSize)
}
