package storefront

// Selectors holds the locators used by the page objects. Sites change their
// markup often, so these are data rather than code.
type Selectors struct {
	SearchBox    string
	SearchButton string
	Logo         string
	ProductCards string
	ProductTitle string
	ProductPrice string
	Availability string
	NoResults    string
	// Tabs maps a tab name to the accessible name of its link.
	Tabs map[string]string
}

// DefaultSelectors matches the current Falabella storefront markup.
func DefaultSelectors() Selectors {
	return Selectors{
		SearchBox:    `input[id="testId-SearchBar-Input"]`,
		SearchButton: `button.SearchBar-module_searchBtnIcon__YqTAF`,
		Logo:         `a[id="testId-logo-btn"]`,
		ProductCards: `#testId-searchResults-products a[data-pod="catalyst-pod"]`,
		ProductTitle: `[data-testid="product-title"], h1.product-title`,
		ProductPrice: `[data-testid="product-price"], .product-price, .price-container`,
		Availability: `[data-testid="availability"], .availability-status`,
		NoResults:    `[data-testid="no-results"], .no-results-message`,
		Tabs: map[string]string{
			"Ofertas":         "Ofertas",
			"Escolar":         "Escolares",
			"Llega Hoy":       "Llega Hoy",
			"Retira en 90min": "Retira desde 90min",
		},
	}
}
