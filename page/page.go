// Package page declares the value types shared across the domap pipeline:
// the final PageMap artifact, the structural DOM fingerprint, the closed
// PageType set, and extracted metadata.
//
// The package is a leaf: it imports nothing from domap and carries no
// behaviour beyond equality and classification helpers, so every other
// package can depend on it without cycles.
package page

// PageMap is the compact artifact produced for one page build. It is what
// an automated agent consumes instead of the raw markup: a short list of
// actionable elements plus a compressed content summary.
//
// Interactables are supplied by an external accessibility-tree detector
// and merged in unchanged; everything else comes from the domap pipeline.
type PageMap struct {
	URL           string          `json:"url"`
	Title         string          `json:"title"`
	PageType      PageType        `json:"page_type"`
	Interactables []Interactable  `json:"interactables,omitempty"`
	PrunedContext string          `json:"pruned_context"`
	PrunedTokens  int             `json:"pruned_tokens"`
	Images        []Image         `json:"images,omitempty"`
	Metadata      Metadata        `json:"metadata"`
	Warnings      []string        `json:"warnings,omitempty"`
	Navigation    NavigationHints `json:"navigation_hints"`

	// PrunedRegions names the semantic regions (nav, header, footer, aside)
	// the filter removed, so downstream consumers can warn when an agent
	// asks about content that lived in a pruned region.
	PrunedRegions []string `json:"pruned_regions,omitempty"`
}

// TokenBudget is the per-build token allowance, derived from the locale
// hint and the measured CJK character ratio. Recomputed on every build,
// never cached.
type TokenBudget struct {
	PrunedContext int     `json:"pruned_context"`
	Total         int     `json:"total"`
	Multiplier    float64 `json:"multiplier"`
	Locale        string  `json:"locale,omitempty"`
	CJKRatio      float64 `json:"cjk_ratio"`
}

// Interactable is one actionable element, as reported by the external
// accessibility-tree detector. The Ref is the handle an agent uses to act
// on the element; it must survive Tier-B content refreshes unchanged.
type Interactable struct {
	Ref   string `json:"ref"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// Image is one content image kept in the artifact.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// NavigationHints carries pagination facts and the breadcrumb trail.
type NavigationHints struct {
	Pagination  *Pagination `json:"pagination,omitempty"`
	Breadcrumbs []string    `json:"breadcrumbs,omitempty"`
}

// Pagination describes where the current page sits in a paginated set.
// Extracted from the raw HTML, never from pruned HTML: the navigation
// landmarks it lives in are removed upstream.
type Pagination struct {
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages,omitempty"`
	TotalItems  int    `json:"total_items,omitempty"`
	HasNext     bool   `json:"has_next"`
	HasPrev     bool   `json:"has_prev"`
	PageParam   string `json:"page_param,omitempty"`
}
