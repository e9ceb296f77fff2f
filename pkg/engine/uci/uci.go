// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/board/fen"
	"github.com/herohde/gyrfalcon/pkg/engine"
	"github.com/herohde/gyrfalcon/pkg/search"
	"github.com/herohde/gyrfalcon/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Option is an UCI driver option.
type Option func(*options)

type options struct {
	useBook bool
	book    engine.Book
	rand    *rand.Rand
}

// UseBook instructs the driver to use the given opening book.
func UseBook(book engine.Book, seed int64) Option {
	return func(opt *options) {
		opt.useBook = true
		opt.book = book
		opt.rand = rand.New(rand.NewSource(seed))
	}
}

// Driver implements a UCI driver for an engine. It is activated if sent "uci".
type Driver struct {
	e   *engine.Engine
	opt options

	out chan<- string

	active       atomic.Bool    // user is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last position line (empty if no last position)

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	var opt options
	for _, fn := range opts {
		fn(&opt)
	}

	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		opt:    opt,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	// * uci
	//
	//	tell engine to use the uci (universal chess interface),
	//	this will be send once as a first command after program boot
	//	to tell the engine to switch to uci mode.
	//	After receiving the uci command the engine must identify itself with the "id" command
	//	and sent the "option" commands to tell the GUI which engine settings the engine supports if any.
	//	After that the engine should sent "uciok" to acknowledge the uci mode.
	//	If no uciok is sent within a certain time period, the engine task will be killed by the GUI.

	logw.Infof(ctx, "UCI protocol initialized")

	// * id
	//	* name <x>
	//		this must be sent after receiving the "uci" command to identify the engine
	//	* author <x>
	//		this must be sent after receiving the "uci" command to identify the engine

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	// * option
	//
	//	This command tells the GUI which parameters can be changed in the engine. Sent once at
	//	engine startup after "uci" and "id", if any parameter can be changed.

	if d.opt.book != nil {
		d.out <- fmt.Sprintf("option name OwnBook type check default %v", d.opt.useBook)
	}

	// * uciok
	//
	//	Must be sent after the id and optional options to tell the GUI that the engine
	//	has sent all infos and is ready in uci mode.

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				// * isready / readyok
				//
				//	Synchronize the engine with the GUI. Must always be answered with "readyok",
				//	even while the engine is calculating.

				d.out <- "readyok"

			case "debug":
				// * debug [ on | off ]
				//
				//	Switch the debug mode of the engine on and off. Not implemented; ignored.

			case "setoption":
				// * setoption name <id> [value <x>]

				var name, value string
				if len(args) > 1 {
					name = args[1]
				}
				if len(args) > 3 {
					value = args[3]
				}

				switch name {
				case "OwnBook":
					d.opt.useBook, _ = strconv.ParseBool(value)
				}

			case "register":
				// * register
				//
				//	Registration handling, not required by this engine.

			case "ucinewgame":
				// * ucinewgame
				//
				//	The next search will be from a different game.

				d.ensureInactive(ctx)
				d.lastPosition = ""

			case "position":
				// * position [fen <fenstring> | startpos ]  moves <move1> .... <movei>

				d.ensureInactive(ctx)

				if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
					// Continuation of game.

					moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
					for _, arg := range strings.Split(moves, " ") {
						if arg == "moves" {
							continue
						}

						if err := d.e.Move(ctx, arg); err != nil {
							logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
							return
						}
					}

					d.lastPosition = line
					break
				}

				// New position.

				position := fen.Initial
				if len(args) >= 7 && args[0] == "fen" {
					position = strings.Join(args[1:7], " ")
				}

				if err := d.e.Reset(ctx, position); err != nil {
					logw.Errorf(ctx, "Invalid position: %v", line)
					return
				}

				move := false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}

					if err := d.e.Move(ctx, arg); err != nil {
						logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
						return
					}
				}
				d.lastPosition = line

			case "go":
				// * go
				//
				//	Start calculating on the current position. searchmoves, ponder, nodes and
				//	mate are accepted but not acted on.

				d.ensureInactive(ctx)

				var opt searchctl.Options
				var tc searchctl.TimeControl
				hasTC := false
				infinite := false
				timeout := time.Duration(0)

				for i := 0; i < len(args); i++ {
					cmd := args[i]
					switch cmd {
					case "wtime", "btime", "movestogo", "depth", "movetime":
						// Next argument is an int.

						i++
						if i == len(args) {
							logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
							return
						}
						n, err := strconv.Atoi(args[i])
						if err != nil {
							logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
							return
						}

						switch cmd {
						case "depth":
							opt.DepthLimit = lang.Some(uint(n))
						case "wtime":
							tc.White = time.Millisecond * time.Duration(n)
							hasTC = true
						case "btime":
							tc.Black = time.Millisecond * time.Duration(n)
							hasTC = true
						case "movestogo":
							tc.Moves = n
							hasTC = true
						case "movetime":
							timeout = time.Millisecond * time.Duration(n)
						}

					case "infinite":
						infinite = true

					default:
						// silently ignore anything not handled.
					}
				}
				if hasTC {
					opt.TimeControl = lang.Some(tc)
				}

				if d.opt.useBook && d.opt.book != nil {
					// Use opening book if possible.

					moves, err := d.opt.book.Find(ctx, d.e.Position())
					if err != nil {
						logw.Errorf(ctx, "Failed to find book move for %v: %v", d.e.Position(), err)
						return
					}

					if len(moves) > 0 {
						winner := moves[d.opt.rand.Intn(len(moves))]
						pv := search.PV{Moves: []board.Move{winner}}

						d.active.Store(true)
						d.searchCompleted(ctx, pv)
						break
					} // else: no book move
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					return
				}
				d.active.Store(true)

				// Forward ponder info. Complete search if it ends, unless infinite.

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.ponder <- pv
					}
					if !infinite {
						d.searchCompleted(ctx, last)
					}
				}()

				// Enforce move time limit, if set.

				if timeout > 0 {
					time.AfterFunc(timeout, func() {
						_, _ = d.e.Halt(ctx)
					})
				}

			case "stop":
				// * stop
				//
				//	Stop calculating as soon as possible and report the bestmove found so far.

				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// * ponderhit
				//
				//	Not implemented: this driver does not start pondering on its own.

			case "quit":
				// * quit
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case pv := <-d.ponder:
			// * info
			//
			//	Forward intermediate search information as it becomes available.

			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		// * bestmove <move1> [ ponder <move2> ]
		//
		//	The engine has stopped searching and found the move <move> best in this position.
		//	Must always be sent after the engine stops searching, directly after a final "info".

		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			// No PV. Position is checkmate or stalemate. Send NullMove.

			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	// "info depth 2 score cp 214 nodes 2124 time 1242 nps 1710 pv e2e4 e7e5 g1f3"

	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if md, ok := pv.Score.MateDistance(); ok {
		moves := (md + 1) / 2
		if pv.Score < 0 {
			moves = -moves
		}
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv")
		parts = append(parts, board.FormatMoves(pv.Moves))
	}

	return strings.Join(parts, " ")
}
