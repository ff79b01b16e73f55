// Package cli builds the rf24 command: one subcommand per example program
// plus hardware diagnostics.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/michcald/rf24-examples/internal/config"
	"github.com/michcald/rf24-examples/internal/metrics"
	"github.com/michcald/rf24-examples/internal/session"
	"github.com/michcald/rf24-examples/nrf24"
)

// Radio is what the commands need from an opened radio.
type Radio interface {
	session.Radio
	Details() string
	String() string
	Close() error
}

// errUsage marks a command line that was answered with the usage text.
// Printing the usage is not a failure.
var errUsage = errors.New("usage")

// App holds the process environment of the commands. The zero value of
// every field is replaced by the real thing.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Open opens the radio. Defaults to nrf24.New.
	Open func(nrf24.Config) (Radio, error)
	// Clock drives the example loops.
	Clock session.Clock
	// Register runs a function on exit, also when interrupted.
	// Defaults to atexit.Register.
	Register func(func())
	// Exit ends the process after running the registered functions.
	// Defaults to atexit.Exit.
	Exit func(code int)

	cfg   *config.Config
	flags hardwareFlags
}

func (a *App) applyDefaults() {
	if a.In == nil {
		a.In = os.Stdin
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
	if a.Open == nil {
		a.Open = openDevice
	}
	if a.Register == nil {
		a.Register = func(f func()) { atexit.Register(f) }
	}
	if a.Exit == nil {
		a.Exit = atexit.Exit
	}
}

func openDevice(c nrf24.Config) (Radio, error) {
	dev, err := nrf24.New(c)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// Execute runs the command line args and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	a.applyDefaults()
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.Err)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil, errors.Is(err, errUsage):
		return 0
	default:
		fmt.Fprintln(a.Err, "Error:", err)
		return 1
	}
}

// Execute runs the rf24 command with the process arguments.
func Execute() int {
	var a App
	return a.Execute(context.Background(), os.Args[1:])
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rf24",
		Short: "Example programs for nRF24L01 transceivers",
		Long: "Example programs for nRF24L01(+) transceivers. Run the same " +
			"example on two nodes, one as transmitter and one as receiver.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(a.Out, err)
		cmd.Usage()
		return errUsage
	})
	a.flags.register(root)

	root.AddCommand(
		a.gettingStartedCommand(),
		a.ackPayloadsCommand(),
		a.manualAcksCommand(),
		a.scannerCommand(),
		a.detailsCommand(),
	)
	return root
}

func (a *App) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.envFile)
	if err != nil {
		return err
	}
	a.flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// withRadio opens the radio, runs fn and closes the radio again. The
// radio is also closed, and so powered down, when the process exits
// early on a signal.
func (a *App) withRadio(cmd *cobra.Command, fn func(ctx context.Context, r Radio, sc session.Config) error) error {
	rc, err := a.cfg.Radio()
	if err != nil {
		return err
	}

	id := xid.New().String()
	logger := nrf24.NewStdLogger(a.Err, "rf24 "+id+" ", a.cfg.Verbose)
	nrf24.SetLogger(logger)

	radio, err := a.Open(rc)
	if errors.Is(err, nrf24.ErrNotResponding) {
		fmt.Fprintln(a.Out, "radio hardware is not responding!!")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("Radio initialized: " + radio.String())

	var once sync.Once
	shutdown := func() {
		once.Do(func() {
			if err := radio.Close(); err != nil {
				logger.Warn("closing radio: " + err.Error())
			}
		})
	}
	a.Register(shutdown)
	defer shutdown()

	stop := a.notify()
	defer stop()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sc := session.Config{Out: a.Out, Clock: a.Clock, Logger: logger}
	if lvl, ok := a.cfg.ExamplePALevel(); ok {
		sc.PALevel = &lvl
	}
	if addr := a.cfg.MetricsAddr; addr != "" {
		rec := metrics.New()
		sc.Recorder = rec
		go func() {
			if err := rec.Serve(ctx, addr); err != nil {
				logger.Error("metrics server: " + err.Error())
			}
		}()
		logger.Info("Serving metrics on " + addr + "/metrics")
	}

	return fn(ctx, radio, sc)
}

// notify handles SIGINT and SIGTERM until the returned function is called.
func (a *App) notify() func() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		if s, ok := <-sigc; ok {
			a.interrupted(s)
		}
	}()
	return func() {
		signal.Stop(sigc)
		close(sigc)
	}
}

func (a *App) interrupted(s os.Signal) {
	n := -1
	if sig, ok := s.(syscall.Signal); ok {
		n = int(sig)
	}
	fmt.Fprintf(a.Out, " Interrupt signal %d detected. Exiting...\n", n)
	a.Exit(0)
}
