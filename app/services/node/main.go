package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/genesis"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/state"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/worker"
	"github.com/everestp/blockchain-protocol/foundation/events"
	"github.com/everestp/blockchain-protocol/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Node struct {
			GenesisPath string `conf:"default:zblock/genesis.json"`
			MinerName   string `conf:"default:miner1"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Node Support

	gen, err := genesis.Load(cfg.Node.GenesisPath)
	if err != nil {
		return fmt.Errorf("loading genesis: %w", err)
	}

	evts := events.New()
	defer evts.Shutdown()

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}

	st, err := state.New(state.Config{
		Genesis:   gen,
		MinerName: cfg.Node.MinerName,
		EvHandler: ev,
		Events:    evts,
	})
	if err != nil {
		return fmt.Errorf("constructing state: %w", err)
	}
	defer st.Shutdown()

	// Start the background mining and reporting processes.
	worker.Run(st, ev)

	// Register for the node lifecycle events so external tooling attached
	// to this process can follow along.
	id := uuid.NewString()
	ch := evts.Acquire(id)
	defer evts.Release(id)

	go func() {
		for msg := range ch {
			log.Debugw("event", "msg", msg)
		}
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	sig := <-shutdown
	log.Infow("shutdown", "status", "shutdown started", "signal", sig)
	defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

	return nil
}
