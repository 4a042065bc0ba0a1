package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vrazzer/LED-control/internal/config"
	"github.com/vrazzer/LED-control/internal/logging"
	"github.com/vrazzer/LED-control/internal/metrics"
	"github.com/vrazzer/LED-control/internal/mqtt"
	"github.com/vrazzer/LED-control/internal/server"
	"github.com/vrazzer/LED-control/internal/session"
	"github.com/vrazzer/LED-control/internal/transport"
	"github.com/vrazzer/LED-control/internal/ui"
)

// shutdownTimeout bounds the status server shutdown.
const shutdownTimeout = 2 * time.Second

// Connect command flags
var (
	cmdLines    []string
	interactive bool
	timeoutFlag time.Duration
	logLevel    string
	listenAddr  string
	mqttBroker  string
	mqttTopic   string
)

var connectCmd = &cobra.Command{
	Use:   "connect <address|alias> [timeout] [command ...]",
	Short: "Connect to a controller and send commands",
	Long: `Connect to an SP630E controller, identify it and send commands.

Commands are taken from the arguments after the optional timeout (seconds),
then from --cmd flags. With no commands, or with --interactive, lines are
read from stdin until end of input; type 'help' for the command list.

Every completed query prints the changed record bytes on stderr and the
decoded state on stdout. Use '?' as a shortcut for a state query.`,
	Example: `  # Query the state
  spe6ctrl connect C0:00:00:00:12:34 ?

  # Turn on and set the level, giving up after 20 seconds
  spe6ctrl connect desk 20 "power 1" "set 128" ?

  # Interactive session with a status server and MQTT publishing
  spe6ctrl connect desk --listen 127.0.0.1:9630 --mqtt-broker tcp://localhost:1883`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runConnect,
}

func init() {
	connectCmd.Flags().StringArrayVarP(&cmdLines, "cmd", "c", nil, "Command to send (repeatable)")
	connectCmd.Flags().BoolVarP(&interactive, "interactive", "I", false, "Read further commands from stdin")
	connectCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Session deadline (default 60s, ignored when interactive)")
	connectCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	connectCmd.Flags().StringVar(&listenAddr, "listen", "", "Serve status, metrics and a WebSocket stream on this address")
	connectCmd.Flags().StringVar(&mqttBroker, "mqtt-broker", "", "Publish state to this MQTT broker (e.g. tcp://localhost:1883)")
	connectCmd.Flags().StringVar(&mqttTopic, "mqtt-topic", "", "MQTT base topic (default spe6ctrl/<address>)")
}

func runConnect(cmd *cobra.Command, args []string) error {
	ca, err := parseConnectArgs(args)
	if err != nil {
		return err
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}
	prefs := reg.Preferences

	if err := logging.Initialize(firstSet(logLevel, prefs.LogLevel)); err != nil {
		return err
	}
	defer logging.Sync()

	address, err := reg.ResolveDevice(ca.Target)
	if err != nil {
		return err
	}

	commands := append(append([]string(nil), ca.Commands...), cmdLines...)
	isInteractive := interactive || len(commands) == 0
	timeout := resolveTimeout(timeoutFlag, ca.Timeout, prefs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := ui.NewConsole(os.Stdout, os.Stderr)
	observers := []session.Observer{console}

	var registry *prometheus.Registry
	if listen := firstSet(listenAddr, prefs.Listen); listen != "" {
		collector := metrics.NewCollector()
		registry = metrics.NewRegistry(collector)
		observers = append(observers, collector)

		srv := server.New(&server.Config{Addr: listen, Address: address}, registry)
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				logging.Warn("Status server shutdown failed", zap.Error(err))
			}
		}()
		observers = append(observers, srv)
	}

	if broker := firstSet(mqttBroker, prefs.MQTTBroker); broker != "" {
		pub, err := mqtt.Connect(mqtt.Config{
			Broker: broker,
			Topic:  firstSet(mqttTopic, prefs.MQTTTopic, mqtt.DefaultTopic(address)),
		})
		if err != nil {
			return err
		}
		defer pub.Close()
		observers = append(observers, pub)
	}

	cfg := session.Config{
		Address:     address,
		Commands:    commands,
		Interactive: isInteractive,
		Timeout:     timeout,
		Dial:        session.DialL2CAP,
		Observers:   observers,
	}
	if isInteractive {
		cfg.Input = &helpInput{
			LineSource: transport.NewInput(int(os.Stdin.Fd())),
			out:        os.Stdout,
			styled:     ui.IsTerminal(os.Stdout),
		}
		if ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stderr) {
			header := ui.NewHeader("spe6ctrl", "connect",
				ui.Param{Key: "Device", Value: address},
				ui.Param{Key: "Commands", Value: strconv.Itoa(len(commands)) + " queued"},
			)
			fmt.Fprintln(os.Stderr, header.Render())
			fmt.Fprintln(os.Stderr, "type 'help' for commands, end input with Ctrl-D")
		}
	}

	mgr, err := session.NewManager(cfg)
	if err != nil {
		return err
	}

	runErr := mgr.Run(ctx)
	recordSeen(reg, address, mgr.Session().Kind)

	switch {
	case runErr == nil, errors.Is(runErr, context.Canceled):
		return nil
	case errors.Is(runErr, session.ErrIncomplete):
		if ui.IsTerminal(os.Stderr) {
			result := ui.NewFailureResult("Session incomplete", runErr, []string{
				"Check the controller is powered and within range",
				"Confirm the address with 'bluetoothctl devices'",
				fmt.Sprintf("%d command(s) were not sent; try a longer timeout", mgr.Pending()),
			})
			fmt.Fprintln(os.Stderr, result.Render())
		}
		return fmt.Errorf("%d command(s) not sent: %w", mgr.Pending(), runErr)
	default:
		return runErr
	}
}

// recordSeen stamps aliases of address with the identified kind.
func recordSeen(reg *config.Registry, address, kind string) {
	if kind == "" || !reg.RecordSeen(address, kind) {
		return
	}
	if err := reg.Save(); err != nil {
		logging.Warn("Failed to save configuration", zap.Error(err))
	}
}
