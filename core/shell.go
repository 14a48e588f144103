package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/encodeous/ripsim/state"
)

const shellHelp = `Commands:
    add router <name>
    add route <first> <second>      -- add route between routers, bi-directional
    delete router <name>
    delete route <first> <second>

    tick <seconds>                  -- simulate <seconds> ticks, one second is one tick
    delay <seconds>                 -- delay between ticks

    send <from> <to>                -- simulate sending of a packet along current routes

    print                           -- print network routers and their tables
    graph                           -- print the current network in Graphviz DOT format
    loglevel <level>                -- change logging level: debug, info, warn, error
    exit
`

// Shell is a line oriented command interpreter driving a simulation. All
// state access is dispatched onto the simulation goroutine.
type Shell struct {
	env       *state.Env
	net       *Network
	in        io.Reader
	out       io.Writer
	tickDelay time.Duration
}

func NewShell(env *state.Env, net *Network, in io.Reader, out io.Writer) *Shell {
	return &Shell{env: env, net: net, in: in, out: out}
}

// do runs fun on the simulation goroutine. Validation rejections are
// reported to the shell user, they never cancel the simulation.
func (s *Shell) do(fun func() error) error {
	res, err := s.env.DispatchWait(func() (any, error) {
		return fun(), nil
	})
	if err != nil {
		return err
	}
	if res, ok := res.(error); ok {
		return res
	}
	return nil
}

func (s *Shell) Run() {
	fmt.Fprint(s.out, shellHelp)
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}
		if s.env.Context.Err() != nil {
			return
		}
		if err := s.handle(strings.Fields(strings.TrimSpace(scanner.Text()))); err != nil {
			if errors.Is(err, errShellExit) {
				break
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	s.env.Cancel(errors.New("shell closed"))
}

var errShellExit = errors.New("exit")

func (s *Shell) handle(args []string) error {
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "add":
		return s.handleAdd(args[1:])
	case "delete":
		return s.handleDelete(args[1:])
	case "tick":
		return s.handleTick(args[1:])
	case "delay":
		if len(args) != 2 {
			return errors.New("usage: delay <seconds>")
		}
		secs, err := strconv.ParseFloat(args[1], 64)
		if err != nil || secs < 0 {
			return fmt.Errorf("invalid delay: %s", args[1])
		}
		s.tickDelay = time.Duration(float64(time.Second) * secs)
		return nil
	case "send":
		return s.handleSend(args[1:])
	case "print":
		return s.do(func() error {
			for _, id := range s.net.Routers() {
				r, _ := s.net.Router(id)
				fmt.Fprint(s.out, r.String())
			}
			return nil
		})
	case "graph":
		return s.do(func() error {
			fmt.Fprint(s.out, ExportDot(s.net))
			return nil
		})
	case "loglevel":
		if len(args) != 2 {
			return errors.New("usage: loglevel <level>")
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(args[1])); err != nil {
			return fmt.Errorf("invalid log level: %s", args[1])
		}
		s.env.LogLevel.Set(level)
		return nil
	case "help":
		fmt.Fprint(s.out, shellHelp)
		return nil
	case "exit", "quit":
		return errShellExit
	default:
		return fmt.Errorf("command not found: %s", args[0])
	}
}

func (s *Shell) handleAdd(args []string) error {
	switch {
	case len(args) == 2 && args[0] == "router":
		return s.do(func() error {
			return s.net.AddRouter(state.NodeId(args[1]))
		})
	case len(args) == 3 && args[0] == "route":
		return s.do(func() error {
			return s.net.AddRoute(state.NodeId(args[1]), state.NodeId(args[2]))
		})
	}
	return errors.New("usage: add router <name> | add route <first> <second>")
}

func (s *Shell) handleDelete(args []string) error {
	switch {
	case len(args) == 2 && args[0] == "router":
		return s.do(func() error {
			return s.net.DeleteRouter(state.NodeId(args[1]))
		})
	case len(args) == 3 && args[0] == "route":
		return s.do(func() error {
			return s.net.DeleteRoute(state.NodeId(args[1]), state.NodeId(args[2]))
		})
	}
	return errors.New("usage: delete router <name> | delete route <first> <second>")
}

func (s *Shell) handleTick(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tick <seconds>")
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 0 {
		return fmt.Errorf("invalid tick count: %s", args[0])
	}
	for i := 0; i < count; i++ {
		if err := s.do(func() error {
			s.net.Tick()
			return nil
		}); err != nil {
			return err
		}
		if s.tickDelay > 0 {
			time.Sleep(s.tickDelay)
		}
	}
	fmt.Fprintf(s.out, "ticked %d times, now at tick %d\n", count, s.netTicks())
	return nil
}

func (s *Shell) netTicks() uint64 {
	res, _ := s.env.DispatchWait(func() (any, error) {
		return s.net.Ticks(), nil
	})
	ticks, _ := res.(uint64)
	return ticks
}

func (s *Shell) handleSend(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: send <from> <to>")
	}
	return s.do(func() error {
		res, err := Trace(s.net, state.NodeId(args[0]), state.NodeId(args[1]))
		if err != nil {
			return err
		}
		path := make([]string, 0, len(res.Path))
		for _, id := range res.Path {
			path = append(path, string(id))
		}
		if res.Delivered {
			fmt.Fprintf(s.out, "delivered: %s\n", strings.Join(path, " -> "))
		} else {
			fmt.Fprintf(s.out, "dropped at %s: %s\n", path[len(path)-1], res.Reason)
		}
		return nil
	})
}
