package storefront

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

var ErrUnknownTab = errors.New("unknown tab")

// BasePage carries the actions shared by every page object.
type BasePage struct {
	page    playwright.Page
	baseURL string
	sel     Selectors
}

func NewBasePage(page playwright.Page, baseURL string, sel Selectors) BasePage {
	return BasePage{page: page, baseURL: strings.TrimSuffix(baseURL, "/"), sel: sel}
}

// Goto opens path relative to the base URL. Absolute URLs are used as is.
func (p BasePage) Goto(path string) error {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = p.baseURL + "/" + strings.TrimPrefix(path, "/")
	}

	if _, err := p.page.Goto(target); err != nil {
		return fmt.Errorf("opening %s: %w", target, err)
	}

	return p.WaitForLoad()
}

func (p BasePage) WaitForLoad() error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
}

func (p BasePage) Title() (string, error) {
	return p.page.Title()
}

func (p BasePage) URL() string {
	return p.page.URL()
}

// Text returns the trimmed text content of the first element matching loc.
func (p BasePage) Text(loc playwright.Locator) (string, error) {
	s, err := loc.First().TextContent()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(s), nil
}

func (p BasePage) Visible(loc playwright.Locator) bool {
	ok, err := loc.First().IsVisible()
	return err == nil && ok
}

func (p BasePage) WaitVisible(loc playwright.Locator) error {
	return loc.First().WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
}

func (p BasePage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})

	return err
}

type HomePage struct {
	BasePage
}

func NewHomePage(base BasePage) *HomePage {
	return &HomePage{BasePage: base}
}

func (h *HomePage) Navigate() error {
	return h.Goto("/")
}

func (h *HomePage) searchBox() playwright.Locator {
	return h.page.Locator(h.sel.SearchBox)
}

// Search types term and clicks the search button.
func (h *HomePage) Search(term string) error {
	if err := h.searchBox().Fill(term); err != nil {
		return fmt.Errorf("filling search box: %w", err)
	}

	if err := h.page.Locator(h.sel.SearchButton).Click(); err != nil {
		return fmt.Errorf("clicking search: %w", err)
	}

	return nil
}

// SearchWithEnter types term and submits with the Enter key.
func (h *HomePage) SearchWithEnter(term string) error {
	box := h.searchBox()

	if err := box.Fill(term); err != nil {
		return fmt.Errorf("filling search box: %w", err)
	}

	if err := box.Press("Enter"); err != nil {
		return fmt.Errorf("submitting search: %w", err)
	}

	return nil
}

func (h *HomePage) SearchBoxVisible() bool {
	return h.Visible(h.searchBox())
}

func (h *HomePage) LogoVisible() bool {
	return h.Visible(h.page.Locator(h.sel.Logo))
}

func (h *HomePage) tab(name string) (playwright.Locator, error) {
	label, ok := h.sel.Tabs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTab, name)
	}

	return h.page.GetByRole(*playwright.AriaRoleLink, playwright.PageGetByRoleOptions{
		Name: label,
	}), nil
}

func (h *HomePage) TabVisible(name string) bool {
	loc, err := h.tab(name)
	if err != nil {
		return false
	}

	return h.Visible(loc)
}

func (h *HomePage) ClickTab(name string) error {
	loc, err := h.tab(name)
	if err != nil {
		return err
	}

	return loc.First().Click()
}

type SearchPage struct {
	BasePage
	// WaitMS bounds how long ProductCount waits for the first card.
	WaitMS float64
}

func NewSearchPage(base BasePage) *SearchPage {
	return &SearchPage{BasePage: base, WaitMS: 5000}
}

func (s *SearchPage) cards() playwright.Locator {
	return s.page.Locator(s.sel.ProductCards).Filter(playwright.LocatorFilterOptions{
		Has: s.page.Locator("img"),
	})
}

// ProductCount returns the number of product cards, 0 when none show up in
// time.
func (s *SearchPage) ProductCount() int {
	cards := s.cards()

	err := cards.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(s.WaitMS),
	})
	if err != nil {
		return 0
	}

	n, err := cards.Count()
	if err != nil {
		return 0
	}

	return n
}

func (s *SearchPage) ClickProduct(index int) error {
	if err := s.cards().Nth(index).Click(); err != nil {
		return fmt.Errorf("opening product %d: %w", index, err)
	}

	return s.WaitForLoad()
}

func (s *SearchPage) HasNoResults() bool {
	return s.Visible(s.page.Locator(s.sel.NoResults))
}

func (s *SearchPage) ProductNames() ([]string, error) {
	n := s.ProductCount()
	names := make([]string, 0, n)

	for i := range n {
		name, err := s.Text(s.cards().Nth(i))
		if err != nil {
			return nil, fmt.Errorf("reading product %d: %w", i, err)
		}

		names = append(names, name)
	}

	return names, nil
}

type ProductPage struct {
	BasePage
}

func NewProductPage(base BasePage) *ProductPage {
	return &ProductPage{BasePage: base}
}

func (p *ProductPage) waitText(selector string) (string, error) {
	loc := p.page.Locator(selector)

	if err := p.WaitVisible(loc); err != nil {
		return "", err
	}

	return p.Text(loc)
}

func (p *ProductPage) ProductTitle() (string, error) {
	return p.waitText(p.sel.ProductTitle)
}

// PriceText returns the raw price label as displayed.
func (p *ProductPage) PriceText() (string, error) {
	return p.waitText(p.sel.ProductPrice)
}

// Price returns the displayed price as a number, 0 when the label cannot be
// read.
func (p *ProductPage) Price() (float64, error) {
	text, err := p.PriceText()
	if err != nil {
		return 0, err
	}

	return price.Parse(text), nil
}

func (p *ProductPage) Available() bool {
	text, err := p.Text(p.page.Locator(p.sel.Availability))
	if err != nil {
		return false
	}

	return strings.Contains(strings.ToLower(text), "disponible")
}

const WeddingTitle = "Novios Falabella, Novios, Lista de regalo, Premio, Aportes, Luna de Miel"

type WeddingHomePage struct {
	BasePage
	url string
}

func NewWeddingHomePage(base BasePage, url string) *WeddingHomePage {
	return &WeddingHomePage{BasePage: base, url: url}
}

func (w *WeddingHomePage) Navigate() error {
	return w.Goto(w.url)
}

// TitleMatches reports whether the page carries the expected title.
func (w *WeddingHomePage) TitleMatches() (bool, error) {
	title, err := w.Title()
	if err != nil {
		return false, err
	}

	return title == WeddingTitle, nil
}
