package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/herohde/gyrfalcon/pkg/engine"
	"github.com/herohde/gyrfalcon/pkg/engine/console"
	"github.com/herohde/gyrfalcon/pkg/engine/uci"
	"github.com/herohde/gyrfalcon/pkg/eval"
	"github.com/herohde/gyrfalcon/pkg/search"
	"github.com/seekerror/logw"
)

var (
	noise = flag.Int("noise", 10, "Evaluation noise in millipawns (zero if deterministic)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: gyrfalcon [options]

GYRFALCON is a simple UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s := search.PVS{
		Prune: true,
		Eval: search.Quiescence{
			Explore: search.QuiescenceExploration,
			Eval:    eval.NewClassical(*noise, time.Now().UnixNano()),
		},
	}
	e := engine.New(ctx, "gyrfalcon", "herohde", s)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, s, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
