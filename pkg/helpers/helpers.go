package helpers

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-mclib/legacy/pkg/client"
	"github.com/go-mclib/legacy/pkg/config"
)

// Flags holds common CLI flags for example bots.
type Flags struct {
	Config               string
	Address              string
	Username             string
	Verbose              bool
	Interactive          bool
	NoRespawn            bool
	Reconnect            time.Duration
	MaxReconnectAttempts int
}

// RegisterFlags registers the standard CLI flags on the default flag set.
func RegisterFlags(f *Flags) {
	RegisterFlagSet(flag.CommandLine, f)
}

// RegisterFlagSet registers the standard CLI flags on fs.
func RegisterFlagSet(fs *flag.FlagSet, f *Flags) {
	fs.StringVar(&f.Config, "config", "", "config file (.yaml, .yml or .toml)")
	fs.StringVar(&f.Address, "s", "", "server address (host:port)")
	fs.StringVar(&f.Username, "u", "", "offline username")
	fs.BoolVar(&f.Verbose, "v", false, "verbose logging")
	fs.BoolVar(&f.Interactive, "i", false, "enable interactive mode with chat input")
	fs.BoolVar(&f.NoRespawn, "no-respawn", false, "do not respawn automatically")
	fs.DurationVar(&f.Reconnect, "reconnect", client.DefaultAutoreconnect, "delay between reconnect attempts (0 = never)")
	fs.IntVar(&f.MaxReconnectAttempts, "reconnects", 5, "max reconnect attempts (-1 = infinite, 0 = none)")
}

// NewClient creates a client from the config file named by f.Config, then
// applies every flag that was set explicitly on fs.
func NewClient(fs *flag.FlagSet, f Flags) (*client.Client, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["s"] {
		host, port, err := splitAddress(f.Address)
		if err != nil {
			return nil, err
		}
		cfg.Host, cfg.Port = host, port
	}
	if set["u"] {
		cfg.Username = f.Username
	}
	if set["v"] {
		cfg.Verbose = f.Verbose
	}
	if set["i"] {
		cfg.Interactive = f.Interactive
	}
	if set["no-respawn"] {
		cfg.AutoRespawn = !f.NoRespawn
	}
	if set["reconnect"] {
		cfg.Autoreconnect = f.Reconnect.String()
	}
	if set["reconnects"] || f.Config == "" {
		cfg.MaxReconnectAttempts = f.MaxReconnectAttempts
	}

	c := client.New()
	if err := cfg.Apply(c); err != nil {
		return nil, err
	}
	return c, nil
}

// splitAddress accepts "host" or "host:port".
func splitAddress(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, client.DefaultPort, nil
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return host, uint16(port), nil
}

// Run connects and starts the client until interrupted, logging errors.
func Run(c *client.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := c.Run(ctx); err != nil {
		c.Logger.Println(err)
	}
}

// Main parses the command line, builds the client and lets setup register
// callbacks before running it.
func Main(setup func(c *client.Client)) {
	var f Flags
	RegisterFlags(&f)
	flag.Parse()

	c, err := NewClient(flag.CommandLine, f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if setup != nil {
		setup(c)
	}
	Run(c)
}
