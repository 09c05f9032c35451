package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

var ErrNoProducts = errors.New("search returned no products")

type Options struct {
	BaseURL   string
	Headless  bool
	Timeout   time.Duration
	Selectors Selectors
}

// Browser owns a Playwright driver and a Chromium instance.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

// Launch starts Playwright and Chromium. Browsers must be installed
// beforehand with the playwright install command.
func Launch(opts Options) (*Browser, error) {
	if opts.Selectors.SearchBox == "" {
		opts.Selectors = DefaultSelectors()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}

	return &Browser{pw: pw, browser: browser, opts: opts}, nil
}

func (b *Browser) Close() error {
	if err := b.browser.Close(); err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}

	return b.pw.Stop()
}

// NewPage opens a fresh context and returns its base page object.
func (b *Browser) NewPage() (BasePage, func(), error) {
	bctx, err := b.browser.NewContext()
	if err != nil {
		return BasePage{}, nil, fmt.Errorf("creating context: %w", err)
	}

	if b.opts.Timeout > 0 {
		bctx.SetDefaultTimeout(float64(b.opts.Timeout.Milliseconds()))
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return BasePage{}, nil, fmt.Errorf("creating page: %w", err)
	}

	return NewBasePage(page, b.opts.BaseURL, b.opts.Selectors), func() { _ = bctx.Close() }, nil
}

// Scrape searches for term and reads the first result's title and price
// label.
func (b *Browser) Scrape(ctx context.Context, term string) (*Listing, error) {
	base, done, err := b.NewPage()
	if err != nil {
		return nil, err
	}
	defer done()

	home := NewHomePage(base)
	if err := home.Navigate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := home.SearchWithEnter(term); err != nil {
		return nil, err
	}

	results := NewSearchPage(base)
	if results.ProductCount() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoProducts, term)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := results.ClickProduct(0); err != nil {
		return nil, err
	}

	product := NewProductPage(base)

	title, err := product.ProductTitle()
	if err != nil {
		return nil, fmt.Errorf("reading product title: %w", err)
	}

	label, err := product.PriceText()
	if err != nil {
		return nil, fmt.Errorf("reading price label: %w", err)
	}

	return &Listing{
		Title:     title,
		PriceText: label,
		URL:       product.URL(),
		Available: product.Available(),
	}, nil
}
