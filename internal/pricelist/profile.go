package pricelist

// Profile describes the column layout of a price list export.
type Profile struct {
	Format     Format
	ProductCol string
	PriceCol   string
	DateCol    string
	URLCol     string // optional
	DateLayout string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	return []string{p.ProductCol, p.PriceCol, p.DateCol}
}

// profiles is the ordered list of layouts tried during auto-detection.
var profiles = []Profile{
	{
		Format:     FormatFalabella,
		ProductCol: "Producto",
		PriceCol:   "Precio",
		DateCol:    "Fecha",
		URLCol:     "Enlace",
		DateLayout: "02-01-2006",
	},
	{
		Format:     FormatShop,
		ProductCol: "Product",
		PriceCol:   "Price",
		DateCol:    "Date",
		URLCol:     "URL",
		DateLayout: "2006-01-02",
	},
	{
		Format:     FormatCatalog,
		ProductCol: "Item",
		PriceCol:   "Amount",
		DateCol:    "Date",
		DateLayout: "02/01/2006",
	},
}
