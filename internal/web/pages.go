package web

// pages.go renders the upload form and import result as templ components.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/JonMunkholm/catalog-import/internal/logging"
)

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem;color:#1f2937}
h1{font-size:1.5rem}table{border-collapse:collapse}td{padding:.25rem 1rem .25rem 0}
.ok{color:#047857}.warn{color:#b45309}.err{color:#b91c1c}pre{background:#f3f4f6;padding:1rem;overflow:auto}`

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// layout wraps body in the shared page chrome.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body>",
			templ.EscapeString(title), pageStyle); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func indexPage(maxFileSize int64, chunkSize int) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>Import product catalog</h1>
<p>Columns: %s. The first row is the header.</p>
<form method="post" action="/imports" enctype="multipart/form-data">
<p><input type="file" name="file" accept=".xlsx,.csv,.tsv" required></p>
<p><label>Chunk size <input type="number" name="chunk_size" min="1" placeholder="%d"></label></p>
<p><button type="submit">Import</button></p>
</form>
<p>Maximum file size: %d MB. <a href="/api/imports/template">Download the template</a>.</p>`,
			templ.EscapeString(strings.Join(core.ImportColumns, ", ")), chunkSize, maxFileSize>>20)
		return err
	})
	return layout("Catalog import", body)
}

func resultPage(resp ImportResponse) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		class, heading := "ok", "Import succeeded"
		if resp.Status == core.StatusCompletedWithErrors {
			class, heading = "warn", "Import completed with errors"
		}

		var b strings.Builder
		fmt.Fprintf(&b, `<h1 class="%s">%s</h1><table>`, class, heading)
		for _, row := range []struct {
			label string
			value int
		}{
			{"Rows read", resp.TotalRows},
			{"Valid rows", resp.ValidRows},
			{"Products created", resp.Created},
			{"Products updated", resp.Updated},
		} {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td></tr>", row.label, row.value)
		}
		fmt.Fprintf(&b, "<tr><td>Run</td><td><code>%s</code></td></tr></table>", templ.EscapeString(resp.RunID))

		if resp.Warning != nil {
			fmt.Fprintf(&b, `<p class="err">%s (%s)</p>`, templ.EscapeString(resp.Warning.Message), resp.Warning.Code)
		}
		if resp.DownloadURL != "" {
			fmt.Fprintf(&b, `<p><a href="%s">Download %s</a></p>`, templ.EscapeString(resp.DownloadURL), core.ErrorLogFileName)
		}
		if len(resp.Errors) > 0 {
			fmt.Fprintf(&b, "<pre>%s</pre>", templ.EscapeString(strings.Join(resp.Errors, "\n")))
		}
		b.WriteString(`<p><a href="/">Import another file</a></p>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout("Import result", body)
}

func errorPage(msg core.UserMessage) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1 class="err">%s</h1><p>%s</p><p>Reference: <code>%s</code></p><p><a href="/">Back</a></p>`,
			templ.EscapeString(msg.Message), templ.EscapeString(msg.Action), templ.EscapeString(msg.Code))
		return err
	})
	return layout("Import failed", body)
}
