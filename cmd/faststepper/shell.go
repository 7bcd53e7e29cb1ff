package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/harp-tech/faststepper-go/pkg/register"
	"github.com/harp-tech/faststepper-go/pkg/stream"
)

// shell is the interactive command loop.
type shell struct {
	s  *session
	rl *readline.Instance

	mu          sync.Mutex
	watchCancel context.CancelFunc
}

func runShell(ctx context.Context, s *session) error {
	var names []readline.PrefixCompleterInterface
	for d := range register.FastStepperDevice.All() {
		names = append(names, readline.PcItem(d.Name))
	}
	completer := readline.NewPrefixCompleter(
		readline.PcItem("read", names...),
		readline.PcItem("write", names...),
		readline.PcItem("describe", names...),
		readline.PcItem("move"),
		readline.PcItem("watch", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("info"),
		readline.PcItem("registers"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "faststepper> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	sh := &shell{s: s, rl: rl}
	defer sh.stopWatch()
	return sh.run(ctx)
}

func (sh *shell) run(ctx context.Context) error {
	out := sh.rl.Stdout()
	sh.printHelp(out)

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := sh.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			return nil
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "quit" || cmd == "exit" || cmd == "q" {
			return nil
		}
		if err := sh.dispatch(ctx, out, cmd, args); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func (sh *shell) dispatch(ctx context.Context, out io.Writer, cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		sh.printHelp(out)
		return nil
	case "info":
		return cmdInfo(ctx, sh.s, out)
	case "registers", "regs":
		return cmdRegisters(out, nil)
	case "describe":
		return cmdRegisters(out, args)
	case "read", "r":
		return cmdRead(ctx, sh.s, out, args)
	case "write", "w":
		return cmdWrite(ctx, sh.s, out, args)
	case "move":
		return sh.cmdMove(ctx, out, args)
	case "watch":
		return sh.cmdWatch(ctx, out, args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
}

func (sh *shell) printHelp(out io.Writer) {
	fmt.Fprintln(out, `
FastStepper Commands:
  info                      - Show device identity and versions
  registers                 - List the register map
  describe <register>       - Show register details and flag names
  read <register>...        - Read registers (name or address)
  write <register> <value>  - Write a register (flags as A|B or numbers)
  move <position>           - Move to an absolute position and wait
  watch on|off              - Print device events while typing
  help                      - Show this help
  quit                      - Exit`)
}

// cmdMove writes MoveTo and waits until the device reports the motor
// stopped.
func (sh *shell) cmdMove(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: move <position>")
	}
	target, err := register.MoveTo.Descriptor().ParseValue(args[0])
	if err != nil {
		return err
	}
	if sh.watching() {
		return errors.New("turn watch off first; both consume device events")
	}

	if err := sh.s.client.WriteMoveTo(ctx, int32(target)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Moving to %d...\n", target)

	waitCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	for v := range stream.ParseTimestamped(register.Moving, stream.FromChannel(waitCtx, sh.s.client.Events())) {
		if !v.Value.Has(register.MovingIsMoving) {
			fmt.Fprintf(out, "Stopped at t=%.6f\n", v.Seconds)
			return nil
		}
	}
	return fmt.Errorf("no stop reported: %w", waitCtx.Err())
}

func (sh *shell) cmdWatch(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: watch on|off")
	}
	switch args[0] {
	case "on":
		sh.mu.Lock()
		defer sh.mu.Unlock()
		if sh.watchCancel != nil {
			return nil
		}
		watchCtx, cancel := context.WithCancel(ctx)
		sh.watchCancel = cancel
		go func() {
			if err := monitor(watchCtx, sh.s, out, nil); err != nil {
				fmt.Fprintf(out, "watch stopped: %v\n", err)
			}
		}()
		return nil
	case "off":
		sh.stopWatch()
		return nil
	default:
		return errors.New("usage: watch on|off")
	}
}

func (sh *shell) watching() bool {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.watchCancel != nil
}

func (sh *shell) stopWatch() {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.watchCancel != nil {
		sh.watchCancel()
		sh.watchCancel = nil
	}
}
