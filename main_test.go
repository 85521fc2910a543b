package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/laoaac/aacboard/internal/settings"
	"github.com/laoaac/aacboard/internal/symbols"
)

func TestResolveSymbols(t *testing.T) {
	cat := symbols.Default()

	got := resolveSymbols(cat, []string{"n1", "ສະບາຍດີ", "nope", "  "}, false)
	if len(got) != 3 {
		t.Fatalf("expected 3 symbols, got %d", len(got))
	}
	if got[0].ID != "n1" || got[0].IsCustom {
		t.Errorf("expected catalog symbol n1, got %+v", got[0])
	}
	if !got[1].IsCustom || got[1].Text != "ສະບາຍດີ" {
		t.Errorf("expected custom text, got %+v", got[1])
	}
	if !got[2].IsCustom || got[2].Text != "nope" {
		t.Errorf("unknown ids should be spoken as text, got %+v", got[2])
	}

	got = resolveSymbols(cat, []string{"n1", "f4"}, true)
	if len(got) != 1 || got[0].Text != "n1 f4" || !got[0].IsCustom {
		t.Errorf("--text should join arguments, got %+v", got)
	}

	if got := resolveSymbols(cat, []string{" "}, true); len(got) != 0 {
		t.Errorf("blank text should resolve to nothing, got %+v", got)
	}
}

func TestParseSetting(t *testing.T) {
	p, err := parseSetting("dark-mode", "on")
	if err != nil || p.DarkMode == nil || !*p.DarkMode {
		t.Fatalf("dark-mode on: %+v, %v", p, err)
	}

	p, err = parseSetting("high-contrast", "false")
	if err != nil || p.HighContrast == nil || *p.HighContrast {
		t.Fatalf("high-contrast false: %+v, %v", p, err)
	}

	for _, v := range []string{"3", "3x3"} {
		p, err = parseSetting("grid-size", v)
		if err != nil || p.GridDensity == nil || *p.GridDensity != settings.GridDensity3 {
			t.Fatalf("grid-size %s: %+v, %v", v, p, err)
		}
	}

	if _, err := parseSetting("grid-size", "5"); !errors.Is(err, settings.ErrInvalidGridDensity) {
		t.Errorf("expected invalid density, got %v", err)
	}
	if _, err := parseSetting("grid-size", "big"); !errors.Is(err, settings.ErrInvalidGridDensity) {
		t.Errorf("expected invalid density, got %v", err)
	}

	p, err = parseSetting("font-size", "elder")
	if err != nil || p.FontSize == nil || *p.FontSize != settings.FontElder {
		t.Fatalf("font-size elder: %+v, %v", p, err)
	}
	if _, err := parseSetting("font-size", "huge"); !errors.Is(err, settings.ErrInvalidFontSize) {
		t.Errorf("expected invalid font size, got %v", err)
	}

	if _, err := parseSetting("dark-mode", "maybe"); err == nil {
		t.Error("expected error for maybe")
	}
	if _, err := parseSetting("volume", "1"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGenerateTargets(t *testing.T) {
	cat := symbols.Default()

	all, err := generateTargets(cat, true, "")
	if err != nil || len(all) != len(cat.All()) {
		t.Fatalf("expected whole catalog, got %d, %v", len(all), err)
	}

	food, err := generateTargets(cat, false, "food")
	if err != nil || len(food) != 8 {
		t.Fatalf("expected 8 food symbols, got %d, %v", len(food), err)
	}

	if _, err := generateTargets(cat, false, "nope"); err == nil {
		t.Error("expected error for unknown category")
	}
	if _, err := generateTargets(cat, false, ""); err == nil {
		t.Error("expected error when nothing is selected")
	}
}

func TestListSymbols(t *testing.T) {
	groups, err := symbolGroups(symbols.Default(), "", "water")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	listSymbols(&buf, groups, func(id string) (int64, bool) {
		return 2048, id == "n1"
	})

	out := buf.String()
	if !strings.Contains(out, "n1") || !strings.Contains(out, "2.0 kB") {
		t.Errorf("expected n1 with its clip size, got:\n%s", out)
	}
	if !strings.Contains(out, "of 1 symbols have recorded clips") {
		t.Errorf("expected summary line, got:\n%s", out)
	}

	if _, err := symbolGroups(symbols.Default(), "nope", ""); err == nil {
		t.Error("expected error for unknown category")
	}
}
