package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/laoaac/aacboard/internal/playback"
	"github.com/laoaac/aacboard/internal/session"
	"github.com/laoaac/aacboard/internal/symbols"
	"github.com/laoaac/aacboard/utils"
	"github.com/spf13/cobra"
)

var (
	speakText bool

	speakCmd = &cobra.Command{
		Use:   "speak SYMBOL|TEXT...",
		Short: "Speak symbols or text without opening the board",
		Long: paragraph(fmt.Sprintf("\n%s each argument in order. Arguments that match a symbol id play its recorded clip; anything else is spoken with the fallback voice.", keyword("Speak"))),
		Example: paragraph("aacboard speak n1 f4\naacboard speak --text \"ສະບາຍດີ\""),
		Args:    cobra.MinimumNArgs(1),
		RunE:    runSpeak,
	}
)

func init() {
	speakCmd.Flags().BoolVar(&speakText, "text", false, "speak all arguments as one piece of text")
}

// resolveSymbols maps arguments to symbols. Known ids become catalog
// symbols; everything else becomes custom text.
func resolveSymbols(cat *symbols.Catalog, args []string, asText bool) []symbols.Symbol {
	if asText {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return nil
		}
		return []symbols.Symbol{symbols.NewCustom(text)}
	}

	out := make([]symbols.Symbol, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if utils.IsSymbolID(arg) {
			if s, ok := cat.Lookup(arg); ok {
				out = append(out, s)
				continue
			}
		}
		out = append(out, symbols.NewCustom(arg))
	}
	return out
}

func runSpeak(cmd *cobra.Command, args []string) error {
	syms := resolveSymbols(symbols.Default(), args, speakText)
	if len(syms) == 0 {
		return session.ErrEmptyText
	}

	// Every symbol yields at most three events, plus the final idle.
	events := make(chan playback.Event, 3*len(syms)+1)
	observe := func(ev playback.Event) {
		select {
		case events <- ev:
		default:
		}
	}

	v, err := openVoice(mute, observe)
	if err != nil {
		return err
	}
	defer v.Close()

	sess := session.New(symbols.Default(), v.controller)
	for _, s := range syms {
		sess.Buffer.Append(s)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sess.SpeakSentence()
	return reportPlayback(ctx, sess, events)
}

// reportPlayback prints events until the board is idle again.
func reportPlayback(ctx context.Context, sess *session.Session, events <-chan playback.Event) error {
	for {
		select {
		case <-ctx.Done():
			sess.Speaker.Stop()
			return nil
		case ev := <-events:
			switch ev.Kind {
			case playback.Started:
				fmt.Println(keyword("▶"), ev.SymbolID, subtle(ev.Source.String()))
			case playback.Errored:
				fmt.Println(failure("✗"), ev.SymbolID, subtle(ev.Err.Error()))
			case playback.IdleEvent:
				return nil
			}
		}
	}
}
