package models

// ProductRecord is a normalized product fetched from the Shopify admin
// API. It lives only for the duration of a single generation request.
//
// Every record handed to the renderer has a non-empty Title and URL.
// PriceAmount is kept as the decimal string the platform returned to
// avoid floating-point rounding of currency; it defaults to "0" and
// CurrencyCode to "JPY" when the platform omits price data.
type ProductRecord struct {
	Title string `json:"title"`

	// Image is the featured image URL; empty when the product has none.
	Image string `json:"image,omitempty"`

	// DescriptionHTML is fetched but not currently rendered; kept on
	// the record for a future article layout.
	DescriptionHTML string `json:"descriptionHtml,omitempty"`

	PriceAmount  string `json:"priceAmount"`
	CurrencyCode string `json:"currencyCode"`

	// URL is the canonical storefront URL, or a constructed
	// domain-plus-handle URL when the store does not publish one.
	URL string `json:"url"`
}
