package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michcald/rf24-examples/internal/session"
)

func (a *App) gettingStartedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "getting-started",
		Short: "Send a float back and forth between two nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRadio(cmd, func(ctx context.Context, r Radio, sc session.Config) error {
				fmt.Fprintln(a.Out, cmd.CommandPath())
				g, err := session.NewGettingStarted(r, sc)
				if err != nil {
					return err
				}
				return session.Menu(ctx, a.In, a.Out, g.Transmit, g.Receive)
			})
		},
	}
}

// nodeExample is an example built for one of the two nodes.
type nodeExample interface {
	Transmit(ctx context.Context) error
	Receive(ctx context.Context) error
}

func (a *App) roleCommand(use, short, description string, build func(Radio, int, session.Config) (nodeExample, error)) *cobra.Command {
	var rf roleFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, role := -1, -1
			var err error
			if rf.node != "" {
				if node, err = parseBit("node", rf.node); err != nil {
					cmd.Usage()
					return errUsage
				}
			}
			if rf.role != "" {
				if role, err = parseBit("role", rf.role); err != nil {
					cmd.Usage()
					return errUsage
				}
			}

			return a.withRadio(cmd, func(ctx context.Context, r Radio, sc session.Config) error {
				fmt.Fprintln(a.Out, cmd.CommandPath())
				in := bufio.NewReader(a.In)
				if node < 0 {
					if node, err = session.AskNode(in, a.Out); err != nil {
						return err
					}
				}
				ex, err := build(r, node, sc)
				if err != nil {
					return err
				}
				switch role {
				case 1:
					return ex.Transmit(ctx)
				case 0:
					return ex.Receive(ctx)
				}
				return session.Menu(ctx, in, a.Out, ex.Transmit, ex.Receive)
			})
		},
	}
	rf.register(cmd)

	usage := func(c *cobra.Command) error {
		fmt.Fprint(a.Out, roleUsage(c, description))
		return nil
	}
	cmd.SetUsageFunc(usage)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) { usage(c) })
	return cmd
}

func (a *App) ackPayloadsCommand() *cobra.Command {
	return a.roleCommand("ack-payloads", "Attach replies to ACK packets",
		"A simple example of sending data from 1 nRF24L01 transceiver to another\n"+
			"with Acknowledgement (ACK) payloads attached to ACK packets.\n",
		func(r Radio, node int, sc session.Config) (nodeExample, error) {
			return session.NewAckPayloads(r, node, sc)
		})
}

func (a *App) manualAcksCommand() *cobra.Command {
	return a.roleCommand("manual-acks", "Answer every packet with a packet instead of an ACK",
		"A simple example of sending data from 1 nRF24L01 transceiver to another\n"+
			"with manually transmitted (non-automatic) Acknowledgement (ACK) payloads.\n",
		func(r Radio, node int, sc session.Config) (nodeExample, error) {
			return session.NewManualAcks(r, node, sc)
		})
}

func (a *App) scannerCommand() *cobra.Command {
	var sweeps, reps int
	cmd := &cobra.Command{
		Use:   "scanner",
		Short: "Print carrier activity on every channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reps < 1 || sweeps < 0 {
				return fmt.Errorf("--reps must be positive and --sweeps not negative")
			}
			return a.withRadio(cmd, func(ctx context.Context, r Radio, sc session.Config) error {
				s := session.NewScanner(r, sc)
				s.Reps = reps
				return s.Run(ctx, sweeps)
			})
		},
	}
	cmd.Flags().IntVar(&sweeps, "sweeps", 0, "number of sweeps, 0 scans until interrupted")
	cmd.Flags().IntVar(&reps, "reps", 100, "samples per channel and sweep")
	return cmd
}

func (a *App) detailsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: "Print the radio registers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRadio(cmd, func(ctx context.Context, r Radio, sc session.Config) error {
				fmt.Fprintln(a.Out, r.String())
				fmt.Fprint(a.Out, r.Details())
				return nil
			})
		},
	}
}
