// Package hydrate builds the hydration handoff: a deterministic,
// serializable manifest of the interactive regions a render produced,
// attached as the final content chunk so the browser can re-activate
// interactivity without a re-render.
package hydrate
