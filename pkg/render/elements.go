package render

// booleanAttrs are attributes rendered by presence only.
var booleanAttrs = map[string]bool{
	"async":          true,
	"autofocus":      true,
	"autoplay":       true,
	"checked":        true,
	"controls":       true,
	"default":        true,
	"defer":          true,
	"disabled":       true,
	"formnovalidate": true,
	"hidden":         true,
	"ismap":          true,
	"loop":           true,
	"multiple":       true,
	"muted":          true,
	"novalidate":     true,
	"open":           true,
	"playsinline":    true,
	"readonly":       true,
	"required":       true,
	"reversed":       true,
	"selected":       true,
}

// isBooleanAttr returns true if the attribute is rendered by presence only.
func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
