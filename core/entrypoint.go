package core

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/encodeous/ripsim/perf"
	"github.com/encodeous/ripsim/state"
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
)

// NewEnv builds the simulation environment: logger, RNG and dispatch channel.
func NewEnv(cfg state.SimCfg, level slog.Level) (*state.Env, <-chan func() error, error) {
	ctx, cancel := context.WithCancelCause(context.Background())
	dispatch := make(chan func() error, 128)

	logLevel := &slog.LevelVar{}
	logLevel.Set(level)

	handlers := []slog.Handler{
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        logLevel,
			AddSource:    false,
			CustomPrefix: cfg.Name,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}),
	}

	if cfg.LogPath != "" {
		err := os.MkdirAll(path.Dir(cfg.LogPath), 0700)
		if err != nil {
			cancel(err)
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			cancel(err)
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	env := &state.Env{
		SimCfg:          cfg,
		DispatchChannel: dispatch,
		Context:         ctx,
		Cancel:          cancel,
		Log:             slog.New(slogmulti.Fanout(handlers...)),
		LogLevel:        logLevel,
		Rand:            rand.New(rand.NewPCG(seed, seed)),
	}
	return env, dispatch, nil
}

type RunOpts struct {
	// Interactive runs the command shell on stdin.
	Interactive bool
	// TickEvery advances the simulation on a wall-clock period when nonzero.
	TickEvery time.Duration
}

// Run owns the lifetime of a simulation: it builds the network from the
// scenario config and processes dispatched commands until cancellation.
func Run(cfg *state.SimCfg, level slog.Level, opts RunOpts) error {
	env, dispatch, err := NewEnv(*cfg, level)
	if err != nil {
		return err
	}

	net, err := BuildNetwork(env)
	if err != nil {
		env.Cancel(err)
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			env.Cancel(errors.New("received shutdown signal"))
		case <-env.Context.Done():
		}
		signal.Stop(c)
	}()

	if opts.TickEvery > 0 {
		env.RepeatTask(func() error {
			net.Tick()
			return nil
		}, opts.TickEvery)
	}

	if opts.Interactive {
		sh := NewShell(env, net, os.Stdin, os.Stdout)
		go sh.Run()
	}

	return MainLoop(env, dispatch)
}

// MainLoop runs dispatched commands on the goroutine that owns all
// simulation state.
func MainLoop(env *state.Env, dispatch <-chan func() error) error {
	env.Log.Debug("started main loop")
	for {
		select {
		case fun := <-dispatch:
			if fun == nil {
				continue
			}
			start := time.Now()
			if err := fun(); err != nil {
				env.Log.Error("error occurred during dispatch", "error", err)
				env.Cancel(err)
			}
			perf.DispatchLatency.Add(float64(time.Since(start).Microseconds()))
		case <-env.Context.Done():
			env.Log.Info("stopped main loop", "reason", context.Cause(env.Context).Error())
			return nil
		}
	}
}
