package templates

import (
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/csg33k/household-census/internal/dashboard"
)

var funcs = template.FuncMap{
	"na":         notAvailable,
	"when":       when,
	"ms":         millis,
	"pathEscape": url.PathEscape,
}

// notAvailable substitutes the placeholder for blank table cells.
func notAvailable(s string) string {
	if s == "" {
		return dashboard.NotAvailable
	}
	return s
}

func when(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%d ms", d.Milliseconds())
}
