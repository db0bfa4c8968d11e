package view

import (
	"context"
	"io"
	"strings"

	"github.com/Sternrassler/character-table/pkg/i18n"
	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/message"
)

// htmxScript is loaded by the page shell to swap in the list fragment.
const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

var viewRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "character_view_renders_total",
	Help: "Total list view renders by state",
}, []string{"state"}) // "loading", "error", "empty", "populated"

// htmlWriter accumulates the first write error so components can write
// straight-line markup.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// Loading renders an indeterminate progress indicator.
func Loading(p *message.Printer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="state state-loading" role="status" aria-busy="true">`)
		h.raw(`<span class="spinner" aria-hidden="true"></span><span class="visually-hidden">`)
		h.text(p.Sprintf(i18n.KeyLoading))
		h.raw(`</span></div>`)
		return h.err
	})
}

// ErrorMessage renders the static failure message.
func ErrorMessage(p *message.Printer) templ.Component {
	return staticMessage(p, "state-error", i18n.KeyError)
}

// EmptyState renders the static "no data" message.
func EmptyState(p *message.Printer) templ.Component {
	return staticMessage(p, "state-empty", i18n.KeyEmpty)
}

func staticMessage(p *message.Printer, class, key string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="state ` + class + `"><h5>`)
		h.text(p.Sprintf(key))
		h.raw(`</h5></div>`)
		return h.err
	})
}

// CharacterTable renders a header row and one row per entry of rows, in order.
func CharacterTable(p *message.Printer, rows []Row) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<table class="characters"><thead><tr>`)
		for _, key := range []string{i18n.KeyColumnName, i18n.KeyColumnSpecies, i18n.KeyColumnOrigin, i18n.KeyColumnLocation} {
			h.raw(`<th>`)
			h.text(p.Sprintf(key))
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range rows {
			writeRow(h, row)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}

func writeRow(h *htmlWriter, row Row) {
	h.raw(`<tr data-key="`)
	h.text(row.Key)
	h.raw(`"><td class="name">`)
	if row.ImageURL != "" {
		h.raw(`<img class="avatar" alt="" src="`)
		h.text(string(templ.URL(row.ImageURL)))
		h.raw(`">`)
	}
	h.raw(`<span>`)
	h.text(row.Name)
	h.raw(`</span></td><td>`)
	h.text(row.Species)
	h.raw(`</td><td>`)
	h.text(row.Origin)
	h.raw(`</td><td>`)
	h.text(row.Location)
	h.raw(`</td></tr>`)
}

// Fragment renders exactly one of the four states of model.
func Fragment(p *message.Printer, model Model) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		viewRendersTotal.WithLabelValues(model.State.String()).Inc()

		switch model.State {
		case StateError:
			return ErrorMessage(p).Render(ctx, w)
		case StateEmpty:
			return EmptyState(p).Render(ctx, w)
		case StatePopulated:
			return CharacterTable(p, model.Rows).Render(ctx, w)
		default:
			return Loading(p).Render(ctx, w)
		}
	})
}

// PageOptions configures the page shell.
type PageOptions struct {
	// Lang is the document language (BCP 47).
	Lang string
	// FragmentURL is fetched on load to replace the loading indicator.
	FragmentURL string
}

// Page renders the full document. It shows the loading state and loads the
// list fragment from FragmentURL once the page is displayed.
func Page(p *message.Printer, opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		lang := strings.TrimSpace(opts.Lang)
		if lang == "" {
			lang = i18n.Default().String()
		}

		h.raw(`<!DOCTYPE html><html lang="`)
		h.text(lang)
		h.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(p.Sprintf(i18n.KeyTitle))
		h.raw(`</title><script src="` + htmxScript + `"></script><style>`)
		h.raw(pageStyle)
		h.raw(`</style></head><body><main><div id="character-list" hx-get="`)
		h.text(opts.FragmentURL)
		h.raw(`" hx-trigger="load" hx-swap="innerHTML">`)
		if h.err != nil {
			return h.err
		}
		viewRendersTotal.WithLabelValues(StateLoading.String()).Inc()
		if err := Loading(p).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</div></main></body></html>`)
		return h.err
	})
}

const pageStyle = `body{font-family:sans-serif;margin:0}` +
	`main{display:flex;justify-content:center;padding:16px}` +
	`.state{display:flex;justify-content:center;padding:16px}` +
	`.spinner{width:40px;height:40px;border:4px solid #ccc;border-top-color:#3f51b5;border-radius:50%;animation:spin 1s linear infinite}` +
	`@keyframes spin{to{transform:rotate(360deg)}}` +
	`.visually-hidden{position:absolute;width:1px;height:1px;overflow:hidden;clip:rect(0 0 0 0)}` +
	`table.characters{border-collapse:collapse;box-shadow:0 1px 3px rgba(0,0,0,.2)}` +
	`table.characters th,table.characters td{padding:8px 16px;border-bottom:1px solid #e0e0e0;text-align:left}` +
	`td.name{display:flex;align-items:center;gap:16px}` +
	`img.avatar{max-height:3rem;width:auto;border-radius:50%}`
