package delivery

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates. Register them with gin.Engine.SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"preview": preview,
	}).ParseFS(templateFS, "templates/*.html")
}

// preview cuts text to n runes for list cards
func preview(n int, text string) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "…"
}
