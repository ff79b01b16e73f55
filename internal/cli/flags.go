package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michcald/rf24-examples/internal/config"
)

// hardwareFlags override the configuration loaded from the environment.
// Only flags given on the command line take effect.
type hardwareFlags struct {
	envFile     string
	backend     string
	cePin       int
	csn         int
	spiSpeed    int
	irqPin      int
	channel     int
	paLevel     string
	dataRate    string
	metricsAddr string
	verbose     bool
}

func (f *hardwareFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.envFile, "env-file", "", "read settings from this file (default ./.env when present)")
	fs.StringVar(&f.backend, "backend", config.DefaultBackend, "hardware backend: spidev or bcm2835")
	fs.IntVar(&f.cePin, "ce-pin", config.DefaultCEPin, "GPIO (BCM numbering) wired to CE")
	fs.IntVar(&f.csn, "csn", config.DefaultCSN, "SPI bus and chip select as bus*10+cs, e.g. 10 for /dev/spidev1.0")
	fs.IntVar(&f.spiSpeed, "spi-speed", config.DefaultSpiSpeed, "SPI clock in Hz")
	fs.IntVar(&f.irqPin, "irq-pin", config.DefaultIRQPin, "GPIO wired to IRQ, 0 to poll")
	fs.IntVar(&f.channel, "channel", config.DefaultChannel, "RF channel (0-125)")
	fs.StringVar(&f.paLevel, "pa-level", config.DefaultPALevel, "PA level: min, low, high or max (default: low in the examples, max otherwise)")
	fs.StringVar(&f.dataRate, "data-rate", config.DefaultDataRate, "air data rate: 250kbps, 1mbps or 2mbps")
	fs.StringVar(&f.metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "serve Prometheus metrics on this address")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log driver debug messages")
}

func (f *hardwareFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("backend") {
		cfg.Backend = f.backend
	}
	if set("ce-pin") {
		cfg.CEPin = f.cePin
	}
	if set("csn") {
		cfg.CSN = f.csn
	}
	if set("spi-speed") {
		cfg.SpiSpeed = f.spiSpeed
	}
	if set("irq-pin") {
		cfg.IRQPin = f.irqPin
	}
	if set("channel") {
		cfg.Channel = f.channel
	}
	if set("pa-level") {
		cfg.PALevel = f.paLevel
	}
	if set("data-rate") {
		cfg.DataRate = f.dataRate
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if set("verbose") {
		cfg.Verbose = f.verbose
	}
}

// roleFlags are the -n/--node and -r/--role options of the two node
// examples. Empty means not given.
type roleFlags struct {
	node string
	role string
}

func (f *roleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.node, "node", "n", "", "the identifying radio number")
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "'1' specifies the TX role. '0' specifies the RX role.")
}

// parseBit reads the first character of s, which must be 0 or 1. The
// rest is ignored, so "1x" is 1.
func parseBit(name, s string) (int, error) {
	if s != "" && (s[0] == '0' || s[0] == '1') {
		return int(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid %s %q: want 0 or 1", name, s)
}

// roleUsage renders the help of a node example in the layout of the
// RF24 example programs, followed by the hardware flags.
func roleUsage(cmd *cobra.Command, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "usage: %s [-h] [-n {0,1}] [-r {0,1}]\n\n", cmd.CommandPath())
	b.WriteString(description)
	b.WriteString("\nThis example was written to be used on 2 devices acting as 'nodes'.\n")
	b.WriteString("optional arguments:\n")
	b.WriteString("  -h, --help\t\tshow this help message and exit\n")
	b.WriteString("  -n {0,1}, --node {0,1}\n\t\t\tthe identifying radio number\n")
	b.WriteString("  -r {0,1}, --role {0,1}\n\t\t\t'1' specifies the TX role. '0' specifies the RX role.\n")
	if hw := cmd.InheritedFlags().FlagUsages(); hw != "" {
		b.WriteString("\nhardware arguments:\n")
		b.WriteString(hw)
	}
	return b.String()
}
