package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var htmlTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

const timestampLayout = "2006年01月02日 15:04"

type htmlData struct {
	Title     string
	Timestamp string
	Stats     Stats
	Cards     []Card
}

// RenderHTML writes the styled report page for page to w.
func RenderHTML(w io.Writer, page Page) error {
	data := htmlData{
		Title:     page.title(),
		Timestamp: page.generatedAt().Format(timestampLayout),
		Stats:     ComputeStats(page.Articles),
		Cards:     BuildCards(page.Articles),
	}
	if err := htmlTemplate.ExecuteTemplate(w, "report.html.tmpl", data); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}
