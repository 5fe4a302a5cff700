// morlock is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/engine"
	"github.com/herohde/morlock/pkg/engine/uci"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/seekerror/logw"
)

var (
	depth   = flag.Int("depth", 0, "Search depth limit (0: no limit, bounded only by time/stop)")
	hash    = flag.Int("hash", 64, "Transposition table size in MB (0: disabled)")
	threads = flag.Int("threads", 1, "Number of lazy SMP search workers")
	seed    = flag.Int64("seed", 0, "Zobrist key table seed")
	book    = flag.Bool("book", true, "Use the built-in two-move opening book")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: morlock [options]

MORLOCK is a simple UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	zt := board.NewZobristTable(*seed)
	newRoot := func(h *search.History) search.Searcher {
		full := eval.NewFull(zt)
		return search.Negamax{
			Eval: full,
			Quiet: search.Quiescence{
				Eval: full,
				Lazy: eval.Material{},
			},
			History: h,
		}
	}

	e := engine.New(ctx, "morlock", "herohde", newRoot,
		engine.WithOptions(engine.Options{Depth: uint(*depth), Hash: uint(*hash), Threads: uint(*threads)}),
		engine.WithZobrist(*seed),
	)

	ob, err := engine.NewBook([]engine.Line{{"e2e4"}, {"d2d4"}})
	if err != nil {
		logw.Exitf(ctx, "Invalid opening book: %v", err)
	}

	var uciOpts []uci.Option
	if *book {
		uciOpts = append(uciOpts, uci.UseBook(engine.FixedBook{Book: ob}, *seed))
	}

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in, uciOpts...)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
