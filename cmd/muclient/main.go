// Command muclient is the headless console entrypoint: it loads
// configuration, performs the Connect-Server→Game-Server handover, and then
// reads CLI commands from stdin until "exit" or the process is signalled
// (spec §6 "CLI surface").
//
// Grounded on the teacher's cmd/gameserver/main.go: config-first startup
// (configure slog off the loaded log level before doing anything else),
// context+signal.Notify shutdown, and a run(ctx) error-returning body.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xulek/muonline-console-client/internal/cli"
	"github.com/xulek/muonline-console-client/internal/client"
	"github.com/xulek/muonline-console-client/internal/config"
	"github.com/xulek/muonline-console-client/internal/events"
	"github.com/xulek/muonline-console-client/internal/fsm"
)

const defaultConfigPath = "config/muclient.yaml"
const handshakeTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := defaultConfigPath
	if p := os.Getenv("MUCLIENT_CONFIG"); p != "" {
		configPath = p
	}
	serverID := flag.Uint("server", 1, "game server id to connect to after the server list arrives")
	flag.StringVar(&configPath, "config", configPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("muclient starting", "connect_host", cfg.ConnectHost, "connect_port", cfg.ConnectPort, "protocol", cfg.Protocol)

	c := client.New(cfg)
	go consumeEvents(ctx, c)

	if err := c.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to connect server: %w", err)
	}
	if err := c.WaitForPhase(ctx, fsm.ConnectedToConnectServer, handshakeTimeout); err != nil {
		return fmt.Errorf("waiting for connect server hello: %w", err)
	}
	if err := c.RequestServers(); err != nil {
		return fmt.Errorf("requesting server list: %w", err)
	}
	if err := c.WaitForPhase(ctx, fsm.ReceivedServerList, handshakeTimeout); err != nil {
		return fmt.Errorf("waiting for server list: %w", err)
	}
	if err := c.ConnectGameServer(ctx, uint16(*serverID)); err != nil {
		return fmt.Errorf("connecting to game server %d: %w", *serverID, err)
	}

	dispatcher := cli.NewDispatcher()
	cli.RegisterDefaults(dispatcher)

	return runCommandLoop(ctx, c, dispatcher)
}

// runCommandLoop reads one command per line from stdin until EOF, "exit",
// or ctx cancellation (spec §6 "the core MUST accept these from the input
// pipe").
func runCommandLoop(ctx context.Context, c *client.Client, dispatcher *cli.Dispatcher) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			out, err := dispatcher.Dispatch(c, line)
			if err != nil {
				if errors.Is(err, cli.ErrExit) {
					return nil
				}
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			if out != "" {
				fmt.Println(out)
			}
		}
	}
}

// consumeEvents prints core events to stdout until ctx is cancelled (spec
// §9 "Observer integration": the UI consumes without holding references
// into core data).
func consumeEvents(ctx context.Context, c *client.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.Events():
			if !ok {
				return
			}
			printEvent(ev)
		}
	}
}

func printEvent(ev events.Event) {
	switch e := ev.(type) {
	case events.LogEvent:
		fmt.Printf("[%s] %s\n", logLevelString(e.Level), e.Text)
	case events.ScopeObjectAdded:
		fmt.Printf("[scope] + %04X at (%d,%d)\n", e.Object.MaskedID, e.Object.X, e.Object.Y)
	case events.ScopeObjectRemoved:
		fmt.Printf("[scope] - %04X\n", e.MaskedID)
	case events.CharacterStateChanged:
		fmt.Printf("[state] %s changed\n", e.Field)
	}
}

func logLevelString(l events.LogLevel) string {
	switch l {
	case events.LevelDebug:
		return "debug"
	case events.LevelWarn:
		return "warn"
	case events.LevelError:
		return "error"
	default:
		return "info"
	}
}

// parseLogLevel converts the config's log level string to slog.Level,
// defaulting to Info on anything unrecognized (matches the teacher's
// cmd/gameserver/main.go parseLogLevel).
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
