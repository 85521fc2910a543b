package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/clips"
	"github.com/laoaac/aacboard/internal/generate"
	"github.com/laoaac/aacboard/internal/symbols"
	"github.com/spf13/cobra"
)

var (
	generateAll      bool
	generateCategory string
	generateForce    bool

	generateCmd = &cobra.Command{
		Use:   "generate [ID TEXT]",
		Short: "Record symbol clips with the speech voice",
		Long: paragraph(fmt.Sprintf("\n%s mp3 clips into the audio directory so the board can play them without synthesizing on demand. Existing clips are kept unless --force is given.", keyword("Generate"))),
		Example: paragraph("aacboard generate n1 \"ນ້ຳ\"\naacboard generate --all\naacboard generate --category food --force"),
		Args: func(cmd *cobra.Command, args []string) error {
			if generateAll || generateCategory != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().BoolVarP(&generateAll, "all", "a", false, "generate clips for every symbol in the catalog")
	generateCmd.Flags().StringVarP(&generateCategory, "category", "c", "", "generate clips for one category")
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "replace existing clips")
}

// generateTargets returns the symbols selected by the flags.
func generateTargets(cat *symbols.Catalog, all bool, category string) ([]symbols.Symbol, error) {
	if category != "" {
		c, ok := cat.Category(category)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", category)
		}
		return c.Symbols, nil
	}
	if all {
		return cat.All(), nil
	}
	return nil, errors.New("nothing to generate")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	edge, err := newEdgeTTS(nil, nil, "generate.timeout", 0)
	if err != nil {
		return err
	}
	if err := edge.Available(); err != nil {
		return err
	}

	lib := clips.NewLibrary(audioDir(), nil, clips.WithLogger(log.Default()))
	gen := generate.New(edge, lib, log.Default())
	gen.Force = generateForce

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if len(args) == 2 {
		res, err := gen.Generate(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	}

	targets, err := generateTargets(symbols.Default(), generateAll, generateCategory)
	if err != nil {
		return err
	}

	results, err := gen.GenerateAll(ctx, targets, printResult)
	generated, skipped, failed := generate.Summary(results)
	fmt.Printf("\n%s generated, %d skipped, %d failed\n", keyword(fmt.Sprint(generated)), skipped, failed)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d clips could not be generated", failed)
	}
	return nil
}

func printResult(res generate.Result) {
	switch {
	case res.Err != nil:
		fmt.Println(failure("✗"), res.ID, subtle(res.Err.Error()))
	case res.Skipped:
		fmt.Println(subtle("•"), res.ID, subtle("exists"))
	default:
		fmt.Println(keyword("✓"), res.ID, subtle(res.Path))
	}
}
