package page

// PageType classifies a page for compression-strategy dispatch. The set is
// closed: the compressor switches exhaustively over it, so adding a type
// is a compile-time-checked change.
type PageType string

const (
	TypeProductDetail PageType = "product_detail"
	TypeSearchResults PageType = "search_results"
	TypeListing       PageType = "listing"
	TypeArticle       PageType = "article"
	TypeLogin         PageType = "login"
	TypeCheckout      PageType = "checkout"
	TypeForm          PageType = "form"
	TypeDashboard     PageType = "dashboard"
	TypeHelpFAQ       PageType = "help_faq"
	TypeSettings      PageType = "settings"
	TypeError         PageType = "error"
	TypeDocumentation PageType = "documentation"
	TypeLanding       PageType = "landing"
	TypeDefault       PageType = "default"
)

// Types lists every page type, in dispatch order.
var Types = []PageType{
	TypeProductDetail, TypeSearchResults, TypeListing, TypeArticle,
	TypeLogin, TypeCheckout, TypeForm, TypeDashboard, TypeHelpFAQ,
	TypeSettings, TypeError, TypeDocumentation, TypeLanding, TypeDefault,
}

// ParsePageType maps a string to a PageType, falling back to TypeDefault
// for unknown values. "news" is accepted as an alias for article pages.
func ParsePageType(s string) PageType {
	switch PageType(s) {
	case TypeProductDetail, TypeSearchResults, TypeListing, TypeArticle,
		TypeLogin, TypeCheckout, TypeForm, TypeDashboard, TypeHelpFAQ,
		TypeSettings, TypeError, TypeDocumentation, TypeLanding:
		return PageType(s)
	}
	if s == "news" {
		return TypeArticle
	}
	return TypeDefault
}

// IsListingLike reports whether the page presents repeated item cards.
func (t PageType) IsListingLike() bool {
	return t == TypeSearchResults || t == TypeListing
}
