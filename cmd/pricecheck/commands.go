package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/MrJamesThe3rd/pricewatch/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/pricewatch/internal/alias/store"
	"github.com/MrJamesThe3rd/pricewatch/internal/config"
	"github.com/MrJamesThe3rd/pricewatch/internal/database"
	"github.com/MrJamesThe3rd/pricewatch/internal/http/auth"
	"github.com/MrJamesThe3rd/pricewatch/internal/issues"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	obsStore "github.com/MrJamesThe3rd/pricewatch/internal/observation/store"
	"github.com/MrJamesThe3rd/pricewatch/internal/price"
	"github.com/MrJamesThe3rd/pricewatch/internal/storefront"
)

var errNoTracker = errors.New("issue tracker not configured: set ISSUES_OWNER and ISSUES_REPO")

type services struct {
	db      *sql.DB
	obs     *observation.Service
	aliases *alias.Service
}

func openServices(ctx context.Context, cfg *config.Config) (*services, error) {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &services{
		db:      db,
		obs:     observation.NewService(obsStore.New(db)),
		aliases: alias.NewService(aliasStore.New(db)),
	}, nil
}

func issueClient(cfg *config.Config) (*issues.Client, error) {
	if cfg.IssueTracker.Owner == "" || cfg.IssueTracker.Repo == "" {
		return nil, errNoTracker
	}

	return issues.NewClient(cfg.IssueTracker.APIURL, cfg.IssueTracker.Owner, cfg.IssueTracker.Repo, cfg.IssueTracker.Token)
}

func alertRange(cfg *config.Config) (issues.Range, error) {
	minCents, maxCents, err := cfg.AlertBounds()
	if err != nil {
		return issues.Range{}, err
	}

	return issues.Range{Min: minCents, Max: maxCents}, nil
}

func launchBrowser(cfg *config.Config, headed bool) (*storefront.Browser, error) {
	return storefront.Launch(storefront.Options{
		BaseURL:  cfg.Storefront.BaseURL,
		Headless: cfg.Storefront.Headless && !headed,
		Timeout:  cfg.Storefront.Timeout,
	})
}

var headedFlag = &cli.BoolFlag{Name: "headed", Usage: "show the browser window"}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse price labels",
		ArgsUsage: "TEXT...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "strict", Usage: "fail on the first unreadable label"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one label is required", 2)
			}

			w := c.App.Writer
			for _, text := range c.Args().Slice() {
				cents, err := price.ParseCents(text)
				if err != nil {
					if c.Bool("strict") {
						return fmt.Errorf("parsing %q: %w", text, err)
					}
					fmt.Fprintf(w, "%q\t%g\tunreadable\n", text, price.Parse(text))
					continue
				}

				fmt.Fprintf(w, "%q\t%g\t%s\n", text, price.Parse(text), price.FormatCents(cents))
			}

			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Search the storefront and record the first product's price",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "term", Usage: "search term (default STOREFRONT_SEARCH_TERM)"},
			&cli.BoolFlag{Name: "alert", Usage: "file an issue when the price is unreadable or out of range"},
			headedFlag,
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			term := c.String("term")
			if term == "" {
				term = cfg.Storefront.SearchTerm
			}

			svcs, err := openServices(c.Context, cfg)
			if err != nil {
				return err
			}
			defer svcs.db.Close()

			browser, err := launchBrowser(cfg, c.Bool("headed"))
			if err != nil {
				return err
			}
			defer browser.Close()

			o, err := storefront.NewChecker(browser, svcs.obs, svcs.aliases).Check(c.Context, term)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "%s\t%q\t%s\t%s\n", o.Product, o.RawText, price.FormatCents(o.Amount), o.Status)

			if !c.Bool("alert") {
				return nil
			}

			return fileAlert(c, cfg, o)
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "List product names returned by a storefront search",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "term", Usage: "search term (default STOREFRONT_SEARCH_TERM)"},
			headedFlag,
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			term := c.String("term")
			if term == "" {
				term = cfg.Storefront.SearchTerm
			}

			browser, err := launchBrowser(cfg, c.Bool("headed"))
			if err != nil {
				return err
			}
			defer browser.Close()

			base, done, err := browser.NewPage()
			if err != nil {
				return err
			}
			defer done()

			home := storefront.NewHomePage(base)
			if err := home.Navigate(); err != nil {
				return err
			}

			if err := home.Search(term); err != nil {
				return err
			}

			results := storefront.NewSearchPage(base)
			if results.HasNoResults() {
				fmt.Fprintf(c.App.Writer, "no results for %q\n", term)
				return nil
			}

			names, err := results.ProductNames()
			if err != nil {
				return err
			}

			for i, name := range names {
				fmt.Fprintf(c.App.Writer, "%d\t%s\n", i+1, name)
			}

			return nil
		},
	}
}

func weddingCommand() *cli.Command {
	return &cli.Command{
		Name:  "wedding",
		Usage: "Check that the wedding registry home page loads",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "screenshot", Usage: "write a full page screenshot to this path"},
			headedFlag,
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			browser, err := launchBrowser(cfg, c.Bool("headed"))
			if err != nil {
				return err
			}
			defer browser.Close()

			base, done, err := browser.NewPage()
			if err != nil {
				return err
			}
			defer done()

			wedding := storefront.NewWeddingHomePage(base, cfg.Storefront.WeddingURL)
			if err := wedding.Navigate(); err != nil {
				return err
			}

			if path := c.String("screenshot"); path != "" {
				if err := base.Screenshot(path); err != nil {
					return err
				}
			}

			ok, err := wedding.TitleMatches()
			if err != nil {
				return err
			}

			if !ok {
				title, _ := base.Title()
				return cli.Exit(fmt.Sprintf("unexpected title %q", title), 1)
			}

			fmt.Fprintln(c.App.Writer, "ok")
			return nil
		},
	}
}

func issuesCommand() *cli.Command {
	return &cli.Command{
		Name:  "issues",
		Usage: "Work with the issue tracker",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List open issues",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					client, err := issueClient(cfg)
					if err != nil {
						return err
					}

					list, err := client.List(c.Context)
					if err != nil {
						return err
					}

					for _, is := range list {
						fmt.Fprintf(c.App.Writer, "#%d\t%s\t%s\n", is.Number, is.State, is.Title)
					}

					return nil
				},
			},
			{
				Name:  "alert",
				Usage: "File an issue for the latest observation of a product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "product", Required: true},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					svcs, err := openServices(c.Context, cfg)
					if err != nil {
						return err
					}
					defer svcs.db.Close()

					o, err := latest(c.Context, svcs.obs, c.String("product"))
					if err != nil {
						return err
					}

					return fileAlert(c, cfg, o)
				},
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue an API bearer token signed with APP_JWT_SECRET",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Value: "pricecheck"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cfg.App.JWTSecret == "" {
				return cli.Exit("APP_JWT_SECRET is not set", 1)
			}

			token, err := auth.IssueToken(cfg.App.JWTSecret, c.String("subject"), c.Duration("ttl"), time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

// latest returns the most recent non-ignored observation of product.
func latest(ctx context.Context, svc *observation.Service, product string) (*observation.Observation, error) {
	obs, err := svc.List(ctx, observation.ListFilter{Product: &product})
	if err != nil {
		return nil, err
	}

	var newest *observation.Observation
	for _, o := range obs {
		if o.Status == observation.StatusIgnored {
			continue
		}

		if newest == nil || o.ObservedAt.After(newest.ObservedAt) {
			newest = o
		}
	}

	if newest == nil {
		return nil, fmt.Errorf("%w: no observations for %q", observation.ErrNotFound, product)
	}

	return newest, nil
}

func fileAlert(c *cli.Context, cfg *config.Config, o *observation.Observation) error {
	r, err := alertRange(cfg)
	if err != nil {
		return err
	}

	title, body, ok := issues.Alert(o, r)
	if !ok {
		fmt.Fprintln(c.App.Writer, "price within expected range, no alert")
		return nil
	}

	client, err := issueClient(cfg)
	if err != nil {
		return err
	}

	is, err := client.Create(c.Context, title, body)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "filed #%d %s\n", is.Number, is.HTMLURL)
	return nil
}
