// Package cli is a line-oriented front end for the game server: it parses
// player verbs, dispatches them and renders the result payloads.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/gameserver"
)

// CLI reads commands from In and writes rendered results to Out.
// Every command acts on the current hunter; "as <id>" switches it.
type CLI struct {
	Server   *gameserver.Server
	In       io.Reader
	Out      io.Writer
	HunterID string

	// EchoInput echoes each command after the prompt (for script playback).
	EchoInput bool

	view *renderer
}

// New creates a CLI acting as hunterID.
func New(srv *gameserver.Server, in io.Reader, out io.Writer, hunterID string) *CLI {
	return &CLI{
		Server:   srv,
		In:       in,
		Out:      out,
		HunterID: hunterID,
		view:     newRenderer(out),
	}
}

// Progress prints a training progress line. Pass it as gameserver.Options.Progress.
func (c *CLI) Progress(hunterID, msg string) {
	c.printLine(c.view.system(fmt.Sprintf("%s: %s", hunterID, msg)))
}

// Run processes commands until EOF, quit or ctx cancellation.
// Only store failures are returned.
func (c *CLI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		c.print(c.view.prompt(c.HunterID + "> "))
		var line string
		select {
		case <-ctx.Done():
			c.printLine("")
			return nil
		case l, ok := <-lines:
			if !ok {
				c.printLine("")
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(line)
		}

		quit, err := c.Execute(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line. It reports whether the player asked to quit.
func (c *CLI) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "quit", "exit":
		c.printLine(c.view.system("Goodbye."))
		return true, nil
	case "help":
		c.printHelp()
		return false, nil
	case "as":
		if len(args) != 1 {
			c.printLine(c.view.failure("Usage: as <hunter id>"))
			return false, nil
		}
		c.HunterID = args[0]
		c.printLine(c.view.system("Now acting as " + c.HunterID + "."))
		return false, nil
	}

	cmd, ok := lookup(verb)
	if !ok {
		c.printLine(c.view.failure(fmt.Sprintf("Unknown command: %s. Type help for available commands.", verb)))
		return false, nil
	}
	if len(args) < cmd.minArgs {
		c.printLine(c.view.failure("Usage: " + cmd.usage))
		return false, nil
	}

	res, err := cmd.run(ctx, c, args)
	if err != nil {
		slog.Error("command failed", "hunter", c.HunterID, "command", verb, "error", err)
		return false, fmt.Errorf("%s: %w", verb, err)
	}
	for _, l := range c.view.result(res, cmd.show) {
		c.printLine(l)
	}
	return false, nil
}

// show selects the extra blocks rendered after the messages.
type show int

const (
	showMessages show = iota
	showEncounter
	showHunter
	showAbilities
	showShadows
)

type command struct {
	usage   string
	help    string
	minArgs int
	show    show
	run     func(ctx context.Context, c *CLI, args []string) (gameserver.Result, error)
}

var commands = []struct {
	verbs []string
	command
}{
	{[]string{"start"}, command{
		usage: "start <name>", help: "Awaken as a hunter", minArgs: 1, show: showHunter,
		run: func(ctx context.Context, c *CLI, args []string) (gameserver.Result, error) {
			return c.Server.Start(ctx, c.HunterID, strings.Join(args, " "))
		},
	}},
	{[]string{"status", "st"}, command{
		usage: "status", help: "Show your hunter and battle", show: showHunter,
		run: func(ctx context.Context, c *CLI, _ []string) (gameserver.Result, error) {
			return c.Server.Status(ctx, c.HunterID)
		},
	}},
	{[]string{"hunt", "h"}, command{
		usage: "hunt", help: "Find a monster near your level", show: showEncounter,
		run: func(ctx context.Context, c *CLI, _ []string) (gameserver.Result, error) {
			return c.Server.Engage(ctx, c.HunterID)
		},
	}},
	{[]string{"attack", "a"}, command{
		usage: "attack", help: "Basic attack", show: showEncounter,
		run: func(ctx context.Context, c *CLI, _ []string) (gameserver.Result, error) {
			return c.Server.Attack(ctx, c.HunterID)
		},
	}},
	{[]string{"defend", "d"}, command{
		usage: "defend", help: "Take half damage this turn", show: showEncounter,
		run: func(ctx context.Context, c *CLI, _ []string) (gameserver.Result, error) {
			return c.Server.Defend(ctx, c.HunterID)
		},
	}},
	{[]string{"flee", "f"}, command{
		usage: "flee", help: "Try to escape", show: showEncounter,
		run: func(ctx context.Context, c *CLI, _ []string) (gameserver.Result, error) {
			return c.Server.Flee(ctx, c.HunterID)
		},
	}},
	{[]string{"use", "u"}, command{
		usage: "use <ability>", help: "Use an ability in battle", minArgs: 1, show: showEncounter,
		run: func(ctx context.Context, c *CLI, args []string) (gameserver.Result, error) {
			return c.Server.UseAbility(ctx, c.HunterID, strings.ToLower(args[0]))
		},
	}},
	{[]string{"abilities", "ab"}, command{
		usage: "abilities", help: "List abilities and cooldowns", show: showAbilities,
		run: func(ctx context.Context, c *CLI, _ []string) (gameserver.Result, error) {
			return c.Server.Abilities(ctx, c.HunterID)
		},
	}},
	{[]string{"extract", "arise"}, command{
		usage: "extract <monster>", help: "Extract a shadow from a defeated monster", minArgs: 1,
		run: func(ctx context.Context, c *CLI, args []string) (gameserver.Result, error) {
			return c.Server.ExtractShadow(ctx, c.HunterID, strings.Join(args, " "))
		},
	}},
	{[]string{"shadows", "army"}, command{
		usage: "shadows", help: "List your shadow army", show: showShadows,
		run: func(ctx context.Context, c *CLI, _ []string) (gameserver.Result, error) {
			return c.Server.Shadows(ctx, c.HunterID)
		},
	}},
	{[]string{"train"}, command{
		usage: "train <number>", help: "Train a shadow for gold", minArgs: 1,
		run: func(ctx context.Context, c *CLI, args []string) (gameserver.Result, error) {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return gameserver.Result{
					Status:   gameserver.StatusFailed,
					Messages: []string{"Usage: train <number>"},
				}, nil
			}
			return c.Server.TrainShadow(ctx, c.HunterID, n)
		},
	}},
	{[]string{"rest"}, command{
		usage: "rest", help: "Recover HP and MP outside battle",
		run: func(ctx context.Context, c *CLI, _ []string) (gameserver.Result, error) {
			return c.Server.Rest(ctx, c.HunterID)
		},
	}},
}

func lookup(verb string) (command, bool) {
	for _, e := range commands {
		for _, v := range e.verbs {
			if v == verb {
				return e.command, true
			}
		}
	}
	return command{}, false
}

func (c *CLI) printHelp() {
	c.printLine(c.view.heading("Commands:"))
	for _, e := range commands {
		c.printLine(fmt.Sprintf("  %-20s %s", e.usage, c.view.system(e.help)))
	}
	c.printLine(fmt.Sprintf("  %-20s %s", "as <hunter id>", c.view.system("Switch hunter")))
	c.printLine(fmt.Sprintf("  %-20s %s", "quit", c.view.system("Exit")))
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}
