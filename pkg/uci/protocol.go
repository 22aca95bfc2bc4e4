package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"raptorfish/pkg/chess"
	"raptorfish/pkg/engine"
)

// Engine is the subset of *engine.Engine the protocol drives; kept as
// an interface so tests can substitute a stub.
type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, searchParams engine.SearchParams) engine.SearchInfo
	PonderHit()
}

// Protocol is a line-oriented UCI front end over Engine.
type Protocol struct {
	name         string
	author       string
	version      string
	options      []Option
	engine       Engine
	positions    []chess.Position
	thinking     bool
	engineOutput chan engine.SearchInfo
	cancel       context.CancelFunc
}

func New(name, author, version string, e Engine, options []Option) *Protocol {
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    e,
		options:   options,
		positions: []chess.Position{chess.NewStartPosition()},
	}
}

func (uci *Protocol) Run(logger *log.Logger) {
	var commands = make(chan string)

	go func() {
		defer close(commands)
		readCommands(commands)
	}()

	var searchResult engine.SearchInfo
	for {
		select {
		case si, ok := <-uci.engineOutput:
			if ok {
				fmt.Println(searchInfoToUci(si))
				searchResult = si
			} else {
				if len(searchResult.MainLine) != 0 {
					if searchResult.PonderMove != chess.MoveNone {
						fmt.Printf("bestmove %v ponder %v\n", searchResult.MainLine[0], searchResult.PonderMove)
					} else {
						fmt.Printf("bestmove %v\n", searchResult.MainLine[0])
					}
				}
				uci.thinking = false
				uci.cancel = nil
				uci.engineOutput = nil
				searchResult = engine.SearchInfo{}
			}
		case commandLine, ok := <-commands:
			if !ok {
				return // quit
			}
			if err := uci.handle(commandLine); err != nil {
				logger.Println(err)
			}
		}
	}
}

func readCommands(commands chan<- string) {
	var scanner = bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var commandLine = scanner.Text()
		if commandLine == "quit" {
			return
		}
		if commandLine != "" {
			commands <- commandLine
		}
	}
}

func (uci *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if uci.thinking {
		switch commandName {
		case "stop":
			uci.cancel()
			return nil
		case "ponderhit":
			return uci.ponderhitCommand(fields)
		}
		return errors.New("search still run")
	}

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "setoption":
		h = uci.setOptionCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = uci.goCommand
	case "ucinewgame":
		h = uci.uciNewGameCommand
	case "ponderhit":
		h = uci.ponderhitCommand
	}

	if h == nil {
		return errors.New("command not found")
	}

	return h(fields)
}

func (uci *Protocol) uciCommand(fields []string) error {
	fmt.Printf("id name %s %s\n", uci.name, uci.version)
	fmt.Printf("id author %s\n", uci.author)
	for _, option := range uci.options {
		fmt.Println(option.UciString())
	}
	fmt.Println("uciok")
	return nil
}

func (uci *Protocol) setOptionCommand(fields []string) error {
	if len(fields) < 4 {
		return errors.New("invalid setoption arguments")
	}
	var name, value = fields[1], fields[3]
	for _, option := range uci.options {
		if strings.EqualFold(option.UciName(), name) {
			return option.Set(value)
		}
	}
	return errors.New("unhandled option")
}

func (uci *Protocol) isReadyCommand(fields []string) error {
	uci.engine.Prepare()
	fmt.Println("readyok")
	return nil
}

func (uci *Protocol) positionCommand(fields []string) error {
	var args = fields
	if len(args) == 0 {
		return errors.New("unknown position command")
	}
	var token = args[0]
	var fen string
	var movesIndex = findIndexString(args, "moves")
	switch token {
	case "startpos":
		fen = chess.InitialPositionFEN
	case "fen":
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	default:
		return errors.New("unknown position command")
	}
	var p = chess.NewStartPosition()
	if err := p.SetFEN(fen); err != nil {
		return err
	}
	var positions = []chess.Position{p}
	if movesIndex >= 0 && movesIndex+1 < len(args) {
		for _, lan := range args[movesIndex+1:] {
			var move, ok = chess.ParseMove(&positions[len(positions)-1], lan)
			if !ok {
				return errors.New("parse move failed")
			}
			var next = positions[len(positions)-1]
			next.DoMove(move)
			positions = append(positions, next)
		}
	}
	uci.positions = positions
	return nil
}

func (uci *Protocol) goCommand(fields []string) error {
	var limits = parseLimits(fields)
	var ctx, cancel = context.WithCancel(context.Background())
	uci.cancel = cancel
	uci.thinking = true
	uci.engineOutput = make(chan engine.SearchInfo, 3)
	go func() {
		var searchResult = uci.engine.Search(ctx, engine.SearchParams{
			Positions: uci.positions,
			Limits:    limits,
			Progress: func(si engine.SearchInfo) {
				select {
				case uci.engineOutput <- si:
				default:
				}
			},
		})
		uci.engineOutput <- searchResult
		close(uci.engineOutput)
	}()
	return nil
}

func (uci *Protocol) uciNewGameCommand(fields []string) error {
	uci.engine.Clear()
	return nil
}

// ponderhitCommand tells the engine the opponent played the move it
// was pondering on: the search already running keeps going, but now
// under the real clock instead of an open-ended ponder search.
func (uci *Protocol) ponderhitCommand(fields []string) error {
	uci.engine.PonderHit()
	return nil
}

func searchInfoToUci(si engine.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v", si.Depth)
	if si.Score.IsMate {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v time %v nps %v", si.Nodes, timeMs, nps)
	if len(si.MainLine) != 0 {
		fmt.Fprintf(sb, " pv")
		for _, move := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

func parseLimits(args []string) (result engine.LimitsType) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "wtime":
			result.WhiteTime, _ = strconv.Atoi(args[i+1])
			i++
		case "btime":
			result.BlackTime, _ = strconv.Atoi(args[i+1])
			i++
		case "winc":
			result.WhiteIncrement, _ = strconv.Atoi(args[i+1])
			i++
		case "binc":
			result.BlackIncrement, _ = strconv.Atoi(args[i+1])
			i++
		case "movestogo":
			result.MovesToGo, _ = strconv.Atoi(args[i+1])
			i++
		case "depth":
			result.Depth, _ = strconv.Atoi(args[i+1])
			i++
		case "nodes":
			result.Nodes, _ = strconv.Atoi(args[i+1])
			i++
		case "mate":
			result.Mate, _ = strconv.Atoi(args[i+1])
			i++
		case "movetime":
			result.MoveTime, _ = strconv.Atoi(args[i+1])
			i++
		case "infinite":
			result.Infinite = true
		}
	}
	return
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
