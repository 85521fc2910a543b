package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/laoaac/aacboard/internal/clips"
	"github.com/laoaac/aacboard/internal/symbols"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	symbolsCategory string
	symbolsSearch   string

	symbolsCmd = &cobra.Command{
		Use:     "symbols",
		Short:   "List the symbol catalog and which symbols have recorded clips",
		Example: paragraph("aacboard symbols\naacboard symbols --category food\naacboard symbols --search water"),
		Args:    cobra.NoArgs,
		RunE:    runSymbols,
	}
)

func init() {
	symbolsCmd.Flags().StringVarP(&symbolsCategory, "category", "c", "", "only list one category")
	symbolsCmd.Flags().StringVarP(&symbolsSearch, "search", "s", "", "only list symbols matching the query")
}

// clipStat reports the size of the recorded clip for id, if any.
type clipStat func(id string) (int64, bool)

func libraryStat(lib *clips.Library) clipStat {
	return func(id string) (int64, bool) {
		path, err := lib.Path(id)
		if err != nil {
			return 0, false
		}
		fi, err := os.Stat(path)
		if err != nil {
			return 0, false
		}
		return fi.Size(), true
	}
}

func runSymbols(*cobra.Command, []string) error {
	cat := symbols.Default()
	lib := clips.NewLibrary(audioDir(), nil)

	groups, err := symbolGroups(cat, symbolsCategory, symbolsSearch)
	if err != nil {
		return err
	}
	listSymbols(os.Stdout, groups, libraryStat(lib))
	return nil
}

// symbolGroups selects what to list: one search result group, one
// category, or the whole catalog.
func symbolGroups(cat *symbols.Catalog, category, query string) ([]symbols.Category, error) {
	if query != "" {
		return []symbols.Category{{ID: "search", Name: query, Symbols: cat.Search(query)}}, nil
	}
	if category != "" {
		c, ok := cat.Category(category)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", category)
		}
		return []symbols.Category{c}, nil
	}
	return cat.Categories(), nil
}

func listSymbols(w io.Writer, groups []symbols.Category, stat clipStat) {
	var total, recorded int
	var bytes int64

	for _, g := range groups {
		title := g.Name
		if g.NameEn != "" {
			title += " " + subtle(g.NameEn)
		}
		fmt.Fprintf(w, "%s %s\n", keyword(g.Icon+" "+g.ID), title)

		for _, s := range g.Symbols {
			total++
			clip := subtle("synthesized")
			if size, ok := stat(s.ID); ok {
				recorded++
				bytes += size
				clip = humanize.Bytes(uint64(size)) //nolint:gosec
			}
			fmt.Fprintf(w, "  %-4s %s %s %s %s\n",
				s.ID, s.Glyph, pad(s.Text, 16), pad(s.English, 16), clip)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s of %d symbols have recorded clips (%s)\n",
		keyword(fmt.Sprint(recorded)), total, humanize.Bytes(uint64(bytes))) //nolint:gosec
}

// pad fills s with spaces up to width terminal cells.
func pad(s string, width int) string {
	if n := runewidth.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
