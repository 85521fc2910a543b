package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/laoaac/aacboard/internal/settings"
	"github.com/spf13/cobra"
)

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Show or change board settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsShow,
	}

	settingsShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the current board settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsShow,
	}

	settingsSetCmd = &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one board setting",
		Long: paragraph(fmt.Sprintf("\n%s one of: %s.",
			keyword("Change"), strings.Join(settingKeys, ", "))),
		Example:   paragraph("aacboard settings set grid-size 3\naacboard settings set font-size elder\naacboard settings set dark-mode on"),
		Args:      cobra.ExactArgs(2),
		ValidArgs: settingKeys,
		RunE:      runSettingsSet,
	}

	settingKeys = []string{"dark-mode", "high-contrast", "grid-size", "font-size"}
)

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}

func runSettingsShow(*cobra.Command, []string) error {
	kv, err := openStorage()
	if err != nil {
		return err
	}
	defer kv.Close() //nolint:errcheck

	store := openSettings(kv, nil)
	defer store.Close()

	printSettings(os.Stdout, store.Get())
	return nil
}

func runSettingsSet(_ *cobra.Command, args []string) error {
	patch, err := parseSetting(args[0], args[1])
	if err != nil {
		return err
	}

	kv, err := openStorage()
	if err != nil {
		return err
	}
	defer kv.Close() //nolint:errcheck

	store := openSettings(kv, nil)
	s, err := store.Update(patch)
	// Close drains the write before the database goes away.
	store.Close()
	if err != nil {
		return err
	}

	printSettings(os.Stdout, s)
	return nil
}

// parseSetting turns a key and textual value into a patch.
func parseSetting(key, value string) (settings.Patch, error) {
	var p settings.Patch

	switch key {
	case "dark-mode", "high-contrast":
		b, err := parseSwitch(value)
		if err != nil {
			return p, fmt.Errorf("%s: %w", key, err)
		}
		if key == "dark-mode" {
			p.DarkMode = &b
		} else {
			p.HighContrast = &b
		}
	case "grid-size":
		// Accepts "3" as well as "3x3".
		cols, _, _ := strings.Cut(value, "x")
		n, err := strconv.Atoi(cols)
		if err != nil {
			return p, fmt.Errorf("%s: %w", key, settings.ErrInvalidGridDensity)
		}
		d := settings.GridDensity(n)
		p.GridDensity = &d
	case "font-size":
		f, err := settings.ParseFontSize(value)
		if err != nil {
			return p, err
		}
		p.FontSize = &f
	default:
		return p, fmt.Errorf("unknown setting %q: use one of %s", key, strings.Join(settingKeys, ", "))
	}
	return p, p.Validate()
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}

func printSettings(w io.Writer, s settings.Settings) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	fmt.Fprintf(w, "%s %s\n", keyword(fmt.Sprintf("%-14s", "dark-mode")), onOff(s.DarkMode))
	fmt.Fprintf(w, "%s %s\n", keyword(fmt.Sprintf("%-14s", "high-contrast")), onOff(s.HighContrast))
	fmt.Fprintf(w, "%s %dx%d\n", keyword(fmt.Sprintf("%-14s", "grid-size")), s.GridDensity, s.GridDensity)
	fmt.Fprintf(w, "%s %s %s\n", keyword(fmt.Sprintf("%-14s", "font-size")), s.FontSize, subtle(s.FontSize.Label()))
}
