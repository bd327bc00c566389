package hydrate

import (
	"bytes"
	"encoding/json"

	"github.com/brook-ui/brook/pkg/vdom"
)

// ManifestVersion is the current manifest schema version.
const ManifestVersion = 1

// StateScriptID is the DOM id of the inline script carrying the manifest.
const StateScriptID = "__brook_state__"

// Manifest describes the interactive regions of a rendered document so the
// client runtime can re-attach behavior without re-rendering. Regions are
// listed in document emission order; every region ID refers to markup the
// browser has already received by the time the manifest arrives.
type Manifest struct {
	Version int               `json:"version"`
	Regions []vdom.RegionDecl `json:"regions"`
}

// BuildManifest assembles a manifest from the region declarations observed
// across a whole render. It is pure computation over already-validated
// input: it cannot fail independently of the upstream render.
func BuildManifest(regions []vdom.RegionDecl) *Manifest {
	m := &Manifest{
		Version: ManifestVersion,
		Regions: make([]vdom.RegionDecl, len(regions)),
	}
	copy(m.Regions, regions)
	return m
}

// payload is the serialized handoff: manifest plus the initial state the
// regions reference.
type payload struct {
	Manifest *Manifest      `json:"manifest"`
	State    map[string]any `json:"state,omitempty"`
}

// ScriptTag serializes the manifest and initial state into an inline JSON
// script tag. Output is byte-identical for identical input: struct fields
// have a fixed order and encoding/json sorts map keys. The encoder's HTML
// escaping keeps "</script>" sequences out of the inline body.
func ScriptTag(m *Manifest, initialState map[string]any) ([]byte, error) {
	data, err := json.Marshal(payload{Manifest: m, State: initialState})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`<script type="application/json" id="` + StateScriptID + `">`)
	buf.Write(data)
	buf.WriteString("</script>\n")
	return buf.Bytes(), nil
}
