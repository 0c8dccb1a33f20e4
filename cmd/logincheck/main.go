package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"

	internalcli "github.com/sauceqa/logincheck/internal/cli"
	"github.com/sauceqa/logincheck/internal/config"
	"github.com/sauceqa/logincheck/internal/logging"
	"github.com/sauceqa/logincheck/internal/runner"
	"github.com/sauceqa/logincheck/internal/scenarios"
)

var version = "0.1.0"

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "base-url", Usage: "login page URL (overrides LOGINCHECK_BASE_URL)"},
		&cli.StringSliceFlag{Name: "browser", Aliases: []string{"b"}, Usage: "engine to run on: chromium, firefox or webkit (repeatable)"},
		&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
		&cli.BoolFlag{Name: "video", Usage: "record a video per scenario"},
		&cli.DurationFlag{Name: "slow-mo", Usage: "delay added to every browser action"},
		&cli.DurationFlag{Name: "nav-timeout", Usage: "navigation timeout"},
		&cli.DurationFlag{Name: "action-timeout", Usage: "element lookup and assertion timeout"},
		&cli.StringFlag{Name: "screenshots", Usage: "when to take screenshots: always, on-failure or off"},
		&cli.StringFlag{Name: "screenshot-dir", Usage: "directory for screenshots"},
		&cli.IntFlag{Name: "parallel", Aliases: []string{"j"}, Usage: "scenarios run concurrently per engine"},
		&cli.IntFlag{Name: "retries", Usage: "times a failed scenario is re-run"},
		&cli.BoolFlag{Name: "local", Usage: "start the bundled fixture site and run against it"},
	}
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "regular expression matched against scenario paths"},
		&cli.StringFlag{Name: "cases", Usage: "YAML file with extra credential cases"},
	}
}

// harnessConfig loads the environment configuration and applies any flags set on c.
func harnessConfig(c *cli.Context) (*config.HarnessConfig, error) {
	cfg, err := config.LoadHarnessConfig(os.Getenv)
	if err != nil {
		return nil, err
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("browser") {
		cfg.Browsers = nil
		for _, b := range c.StringSlice("browser") {
			cfg.Browsers = append(cfg.Browsers, config.SplitList(b)...)
		}
	}
	if c.IsSet("headed") {
		cfg.Headless = !c.Bool("headed")
	}
	if c.IsSet("video") {
		cfg.Video = c.Bool("video")
	}
	if c.IsSet("slow-mo") {
		cfg.SlowMo = c.Duration("slow-mo")
	}
	if c.IsSet("nav-timeout") {
		cfg.NavigationTimeout = c.Duration("nav-timeout")
	}
	if c.IsSet("action-timeout") {
		cfg.ActionTimeout = c.Duration("action-timeout")
	}
	if c.IsSet("screenshots") {
		cfg.Screenshots = config.ScreenshotPolicy(c.String("screenshots"))
	}
	if c.IsSet("screenshot-dir") {
		cfg.ScreenshotDir = c.String("screenshot-dir")
	}
	if c.IsSet("parallel") {
		cfg.Parallel = c.Int("parallel")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// selectScenarios returns the built-in scenarios plus any cases file, filtered.
func selectScenarios(c *cli.Context) ([]scenarios.Scenario, error) {
	list := scenarios.All()
	if path := c.String("cases"); path != "" {
		extra, err := scenarios.LoadCases(path)
		if err != nil {
			return nil, err
		}
		list = append(list, extra...)
		if err := scenarios.CheckTitles(list); err != nil {
			return nil, err
		}
	}
	return scenarios.Filter(list, c.String("filter"))
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the login scenarios in real browsers",
		Flags: append(append(runFlags(), selectionFlags()...),
			&cli.StringFlag{Name: "report", Usage: "write a JSON report to this path"},
		),
		Action: func(c *cli.Context) error {
			cfg, err := harnessConfig(c)
			if err != nil {
				return err
			}

			if c.Bool("local") {
				baseURL, stop, err := internalcli.StartFixture()
				if err != nil {
					return fmt.Errorf("failed to start fixture site: %w", err)
				}
				defer func() {
					if err := stop(); err != nil {
						log.Warn("Failed to stop fixture site", "error", err)
					}
				}()
				cfg.BaseURL = baseURL
			}

			list, err := selectScenarios(c)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no scenarios match %q", c.String("filter"))
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("Starting run", "target", cfg.BaseURL, "browsers", cfg.Browsers, "scenarios", len(list))
			rep, runErr := runner.New(*cfg, log.Default()).Run(ctx, list)
			if rep != nil {
				if err := rep.Render(c.App.Writer); err != nil {
					return err
				}
				if path := c.String("report"); path != "" {
					if err := rep.WriteJSON(path); err != nil {
						return err
					}
					log.Info("Report written", "path", path)
				}
			}
			if runErr != nil {
				return runErr
			}
			if rep.Failed() {
				return cli.Exit("one or more scenarios failed", 1)
			}
			return nil
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the scenario paths",
		Flags: selectionFlags(),
		Action: func(c *cli.Context) error {
			list, err := selectScenarios(c)
			if err != nil {
				return err
			}
			for _, s := range list {
				if s.Skipped() {
					fmt.Fprintf(c.App.Writer, "%s (skipped: %s)\n", s.Path(), s.Skip)
					continue
				}
				fmt.Fprintln(c.App.Writer, s.Path())
			}
			return nil
		},
	}
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the local fixture site",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port (overrides PORT)"},
		},
		Action: func(c *cli.Context) error {
			serverConfig := config.LoadServerConfig(os.Getenv)
			if c.IsSet("port") {
				serverConfig.Port = c.String("port")
			}

			deps, err := internalcli.BuildServerDependencies(serverConfig)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Download the Playwright driver and browsers",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "browser", Aliases: []string{"b"}, Usage: "engine to install (repeatable, defaults to BROWSERS)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := harnessConfig(c)
			if err != nil {
				return err
			}
			log.Info("Installing Playwright", "browsers", cfg.Browsers)
			if err := playwright.Install(&playwright.RunOptions{Browsers: cfg.Browsers}); err != nil {
				return fmt.Errorf("failed to install playwright: %w", err)
			}
			return nil
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "logincheck",
		Usage:   "Browser checks for the Swag Labs login page",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides LOGINCHECK_LOG_LEVEL)"},
		},
		Before: func(c *cli.Context) error {
			opts := logging.DefaultOptions(os.Getenv)
			if c.IsSet("log-level") {
				opts.Level = c.String("log-level")
			}
			logging.Install(logging.New(opts))
			return nil
		},
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
			ServeCommand(),
			InstallCommand(),
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, using environment variables")
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
