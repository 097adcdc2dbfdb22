package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/pretty"

	"github.com/joss/urp-models/internal/config"
	"github.com/joss/urp-models/internal/models"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Models formats the registry entries. env is used to flag entries whose
// API key variable is not set.
func (r *Renderer) Models(entries []models.NamedEntry, env config.Environ) string {
	if len(entries) == 0 {
		return "No custom models configured\n"
	}

	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("Custom Models\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}

	for _, e := range entries {
		r.formatEntry(&sb, e, env)
	}

	if r.pretty {
		fmt.Fprintf(&sb, "\nTotal: %d\n", len(entries))
	}
	return sb.String()
}

func (r *Renderer) formatEntry(sb *strings.Builder, ne models.NamedEntry, env config.Environ) {
	e := ne.Entry
	envVar := e.EnvVar()
	keySet := envVar == "" || config.IsSet(env, envVar)

	if !r.pretty {
		fmt.Fprintf(sb, "%s\ttype=%s\turl=%s\tkey=%s\tctx=%d\tkey_set=%v\n",
			ne.Key, e.Type, e.Endpoint.URL, e.Endpoint.APIKey, e.ContextLength, keySet)
		return
	}

	status := color.GreenString("✓")
	if !keySet {
		status = color.RedString("✗")
	}

	fmt.Fprintf(sb, "%s %s\n", status, color.New(color.Bold).Sprint(ne.Key))
	if e.Type == "" {
		fmt.Fprintf(sb, "    %s\n", color.HiBlackString(truncate(ne.Raw, 70)))
		return
	}
	fmt.Fprintf(sb, "    Type:    %s\n", e.Type)
	if e.Endpoint.URL != "" {
		fmt.Fprintf(sb, "    URL:     %s\n", e.Endpoint.URL)
	}
	if e.Endpoint.APIKey != "" {
		key := e.Endpoint.APIKey
		if !keySet {
			key += color.YellowString(" (not set)")
		}
		fmt.Fprintf(sb, "    API key: %s\n", key)
	}
	if e.ContextLength > 0 {
		fmt.Fprintf(sb, "    Context: %s tokens\n", FormatTokens(e.ContextLength))
	}
}

// JSON pretty-prints a JSON document, colourised when colored is set.
func JSON(doc []byte, colored bool) string {
	out := pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: "    "})
	if colored {
		out = pretty.Color(out, nil)
	}
	return string(out)
}

// FormatTokens formats a token count in human-readable form.
func FormatTokens(n int) string {
	switch {
	case n >= 1000000 && n%1000000 == 0:
		return fmt.Sprintf("%dM", n/1000000)
	case n >= 1000 && n%1000 == 0:
		return fmt.Sprintf("%dk", n/1000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// truncate shortens s to n runes, ending in "...".
func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
