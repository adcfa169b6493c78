package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"researchctl/internal/client"
	"researchctl/internal/config"
	"researchctl/internal/lifecycle"
	"researchctl/internal/netwatch"
	"researchctl/internal/progress"
	"researchctl/internal/status"
	"researchctl/internal/trace"
	"researchctl/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// options holds the parsed command line.
type options struct {
	configPath string
	server     string
	probe      string
	logFile    string
	verbose    bool

	command string
	args    []string
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $"+config.EnvConfig+")")
	flag.StringVar(&opts.server, "server", "", "base URL of the research service (overrides config and $"+config.EnvServer+")")
	flag.StringVar(&opts.probe, "probe", "", "URL used for connectivity checks (default: server URL)")
	flag.StringVar(&opts.logFile, "log", "", "log file (default from config)")
	flag.BoolVar(&opts.verbose, "verbose", false, "enable detailed logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: researchctl [flags] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  step <path> [key=value...]      run a research step (e.g. step1 or /api/step1)\n")
		fmt.Fprintf(os.Stderr, "  upload <file.pdf>               upload a PDF for analysis\n")
		fmt.Fprintf(os.Stderr, "  export [flags] [key=value...]   export the report as PDF\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	opts.command = flag.Arg(0)
	opts.args = flag.Args()[1:]
	return opts
}

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.server != "" {
		cfg.Server.URL = opts.server
	}
	if opts.probe != "" {
		cfg.Server.ProbeURL = opts.probe
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logFile, err := tea.LogToFile(cfg.LogFile, "researchctl")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	if opts.verbose {
		log.Printf("config: server=%s probe=%s timeout=%s file=%q",
			cfg.Server.URL, cfg.ProbeTarget(), cfg.Server.RequestTimeout, cfg.ConfigPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := trace.NewOTLPProvider(ctx)
	if err != nil {
		log.Printf("trace: exporter disabled: %v", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Printf("trace: shutdown: %v", err)
		}
	}()

	events := make(chan progress.Event, 64)
	prober := netwatch.NewHTTPProber(cfg.ProbeTarget(), cfg.Timing.ProbeTimeout)
	ctrl := status.NewController(
		status.WithTimings(cfg.Timings()),
		status.WithProber(prober),
	)

	// The client is created once the runner exists; the action only runs
	// after the program has started.
	var cl *client.Client
	cmd, err := newCommand(opts.command, opts.args, cfg, func() *client.Client { return cl })
	if err != nil {
		return err
	}

	runnerOpts := append([]ui.RunnerOption{
		ui.WithTitle("researchctl " + opts.command),
		ui.WithController(ctrl),
		ui.WithActivity(events),
		ui.WithLinger(cfg.Timing.Cooldown),
	}, cmd.options...)
	runner := ui.NewRunner(cmd.action, runnerOpts...)

	observer := lifecycle.NewMultiObserver(
		status.NewProgramObserver(runner),
		trace.NewRequestTracer(provider.Tracer()),
		progress.NewActivityObserver(&progress.ChanEmitter{Ch: events}),
	)
	cl = client.New(cfg.Server.URL, cfg.Server.RequestTimeout, observer)

	p := tea.NewProgram(runner, tea.WithMouseCellMotion())
	runner.Attach(p)

	monitor := netwatch.NewMonitor(prober, cfg.Timing.OfflineCheck, func(online bool) {
		runner.Send(status.ConnectivityMsg{Online: online})
	})
	go monitor.Run(ctx)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}

	if runner.Cancelled() {
		return errors.New("cancelled")
	}
	if err := runner.Err(); err != nil {
		return err
	}
	cmd.report(os.Stdout)
	return nil
}

func main() {
	opts := parseFlags()
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "researchctl: %v\n", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
