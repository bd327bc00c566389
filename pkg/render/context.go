package render

import "encoding/json"

// Context carries the per-request inputs the renderer reads: document
// metadata for the head, the initial client state, and the hydration
// switch. It is created by the caller, immutable for the duration of one
// render, and never shared across requests.
type Context struct {
	// Meta describes the document head (title, SEO tags, stylesheets).
	Meta PageMeta

	// InitialState maps state keys to JSON-serializable values that
	// interactive regions reference via their StateRef.
	InitialState map[string]any

	// EnableHydration controls whether a hydration manifest chunk is
	// emitted after the body.
	EnableHydration bool

	// ClientScript is the path of the client runtime script referenced
	// from the document footer. Empty disables the script tag.
	ClientScript string
}

// PageMeta describes everything rendered into the document head.
type PageMeta struct {
	// Lang is the html element's lang attribute. Defaults to "en".
	Lang string

	// Title is the page title.
	Title string

	// Description is the meta description.
	Description string

	// Keywords populate the meta keywords tag.
	Keywords []string

	// Robots is the robots directive (e.g. "index,follow").
	Robots string

	// Canonical is the canonical link URL.
	Canonical string

	// OpenGraph holds og:* properties, keyed without the "og:" prefix.
	OpenGraph map[string]string

	// TwitterCard holds twitter:* properties, keyed without the prefix.
	TwitterCard map[string]string

	// StructuredData is a JSON-LD document emitted as a script tag.
	// It must be valid JSON.
	StructuredData json.RawMessage

	// Extra holds additional meta tags beyond the named fields.
	Extra []MetaTag

	// Links holds link tags (favicon, preload, etc.).
	Links []LinkTag

	// StyleSheets are external stylesheet URLs.
	StyleSheets []string

	// Styles are inline CSS blocks.
	Styles []string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Content   string // content attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
	Charset   string // charset attribute
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string // rel attribute
	Href        string // href attribute
	Type        string // type attribute
	Sizes       string // sizes attribute
	CrossOrigin string // crossorigin attribute
	Media       string // media attribute
}
