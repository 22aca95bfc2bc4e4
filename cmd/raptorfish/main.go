package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"raptorfish/pkg/engine"
	"raptorfish/pkg/eval"
	"raptorfish/pkg/uci"
)

const (
	name   = "Raptorfish"
	author = "raptorfish contributors"
)

var versionName = "dev"

func main() {
	var flgHash = flag.Int("hash", 16, "transposition table size in megabytes")
	var flgThreads = flag.Int("threads", 1, "search thread count")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)
	logger.Println(name, "version", versionName, "NumCPU", runtime.NumCPU())

	var e = engine.NewEngine(func() engine.IEvaluator {
		return eval.NewEvaluator()
	})
	e.Options.Hash = *flgHash
	e.Options.Threads = *flgThreads

	var protocol = uci.New(name, author, versionName, e,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 1, Max: 1 << 16, Value: &e.Options.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &e.Options.Threads},
			&uci.IntOption{Name: "Skill Level", Min: 0, Max: 20, Value: &e.Options.SkillLevel},
		},
	)
	protocol.Run(logger)
}
