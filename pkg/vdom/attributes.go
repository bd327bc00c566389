package vdom

import (
	"sort"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with the Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Styles sets the style attribute from a key-value style map. Keys are
// emitted in sorted order so output is deterministic.
func Styles(styles map[string]string) Attr {
	if len(styles) == 0 {
		return Attr{}
	}
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(styles[k])
	}
	return attr("style", b.String())
}

// Links and media

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Forms

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Boolean attributes

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// Readonly sets the readonly attribute.
func Readonly() Attr { return attr("readonly", true) }

// Required sets the required attribute.
func Required() Attr { return attr("required", true) }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", true) }

// Selected sets the selected attribute.
func Selected() Attr { return attr("selected", true) }

// Events

// On attaches a named event handler (e.g. On("click", fn)). Handlers are
// never rendered as attribute values; they mark the element interactive so
// the renderer assigns it a hydration region ID and emits a data-on-*
// marker for the client runtime.
func On(event string, handler any) Attr {
	return attr("on"+strings.ToLower(event), handler)
}

// OnClick attaches a click handler.
func OnClick(handler any) Attr { return On("click", handler) }

// OnInput attaches an input handler.
func OnInput(handler any) Attr { return On("input", handler) }

// OnSubmit attaches a submit handler.
func OnSubmit(handler any) Attr { return On("submit", handler) }

// OnChange attaches a change handler.
func OnChange(handler any) Attr { return On("change", handler) }
