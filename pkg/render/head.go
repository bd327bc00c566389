package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteDocumentOpen writes everything that precedes body content: doctype,
// the html element, the full head built from meta, and the opening body
// tag. The chunk scheduler emits this as the Header chunk.
func WriteDocumentOpen(w io.Writer, meta PageMeta) error {
	lang := meta.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := w.Write([]byte("<!DOCTYPE html>\n")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := writeHead(w, meta); err != nil {
		return err
	}
	_, err := w.Write([]byte("<body>\n"))
	return err
}

// WriteDocumentClose writes the closing document structure, optionally
// preceded by the client runtime script tag. The chunk scheduler emits
// this as the Footer chunk.
func WriteDocumentClose(w io.Writer, clientScript string) error {
	if clientScript != "" {
		if _, err := fmt.Fprintf(w, `  <script src="%s" defer></script>`+"\n",
			escapeAttr(clientScript)); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte("</body>\n</html>\n"))
	return err
}

// writeHead renders the document head section.
func writeHead(w io.Writer, meta PageMeta) error {
	if _, err := w.Write([]byte("<head>\n")); err != nil {
		return err
	}

	if _, err := w.Write([]byte(`  <meta charset="utf-8">` + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")); err != nil {
		return err
	}

	if meta.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(meta.Title)); err != nil {
			return err
		}
	}
	if meta.Description != "" {
		if err := writeMetaTag(w, MetaTag{Name: "description", Content: meta.Description}); err != nil {
			return err
		}
	}
	if len(meta.Keywords) > 0 {
		if err := writeMetaTag(w, MetaTag{Name: "keywords", Content: strings.Join(meta.Keywords, ", ")}); err != nil {
			return err
		}
	}
	if meta.Robots != "" {
		if err := writeMetaTag(w, MetaTag{Name: "robots", Content: meta.Robots}); err != nil {
			return err
		}
	}

	// OpenGraph and Twitter Card properties, sorted for stable output.
	for _, key := range sortedKeys(meta.OpenGraph) {
		if err := writeMetaTag(w, MetaTag{Property: "og:" + key, Content: meta.OpenGraph[key]}); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(meta.TwitterCard) {
		if err := writeMetaTag(w, MetaTag{Name: "twitter:" + key, Content: meta.TwitterCard[key]}); err != nil {
			return err
		}
	}

	for _, tag := range meta.Extra {
		if err := writeMetaTag(w, tag); err != nil {
			return err
		}
	}

	if meta.Canonical != "" {
		if err := writeLinkTag(w, LinkTag{Rel: "canonical", Href: meta.Canonical}); err != nil {
			return err
		}
	}
	for _, link := range meta.Links {
		if err := writeLinkTag(w, link); err != nil {
			return err
		}
	}
	for _, href := range meta.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	for _, style := range meta.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}

	if len(meta.StructuredData) > 0 {
		if _, err := fmt.Fprintf(w, `  <script type="application/ld+json">%s</script>`+"\n",
			string(meta.StructuredData)); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte("</head>\n"))
	return err
}

// writeMetaTag renders a meta element.
func writeMetaTag(w io.Writer, meta MetaTag) error {
	if _, err := w.Write([]byte("  <meta")); err != nil {
		return err
	}

	if meta.Charset != "" {
		if _, err := fmt.Fprintf(w, ` charset="%s"`, escapeAttr(meta.Charset)); err != nil {
			return err
		}
	}
	if meta.Name != "" {
		if _, err := fmt.Fprintf(w, ` name="%s"`, escapeAttr(meta.Name)); err != nil {
			return err
		}
	}
	if meta.Property != "" {
		if _, err := fmt.Fprintf(w, ` property="%s"`, escapeAttr(meta.Property)); err != nil {
			return err
		}
	}
	if meta.HTTPEquiv != "" {
		if _, err := fmt.Fprintf(w, ` http-equiv="%s"`, escapeAttr(meta.HTTPEquiv)); err != nil {
			return err
		}
	}
	if meta.Content != "" {
		if _, err := fmt.Fprintf(w, ` content="%s"`, escapeAttr(meta.Content)); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte(">\n"))
	return err
}

// writeLinkTag renders a link element.
func writeLinkTag(w io.Writer, link LinkTag) error {
	if _, err := w.Write([]byte("  <link")); err != nil {
		return err
	}

	if link.Rel != "" {
		if _, err := fmt.Fprintf(w, ` rel="%s"`, escapeAttr(link.Rel)); err != nil {
			return err
		}
	}
	if link.Href != "" {
		if _, err := fmt.Fprintf(w, ` href="%s"`, escapeAttr(link.Href)); err != nil {
			return err
		}
	}
	if link.Type != "" {
		if _, err := fmt.Fprintf(w, ` type="%s"`, escapeAttr(link.Type)); err != nil {
			return err
		}
	}
	if link.Sizes != "" {
		if _, err := fmt.Fprintf(w, ` sizes="%s"`, escapeAttr(link.Sizes)); err != nil {
			return err
		}
	}
	if link.CrossOrigin != "" {
		if _, err := fmt.Fprintf(w, ` crossorigin="%s"`, escapeAttr(link.CrossOrigin)); err != nil {
			return err
		}
	}
	if link.Media != "" {
		if _, err := fmt.Fprintf(w, ` media="%s"`, escapeAttr(link.Media)); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte(">\n"))
	return err
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
