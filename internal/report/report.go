// Package report renders transactions, budgets and summaries as markdown.
package report

import (
	"embed"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

//go:embed templates/*.md
var templates embed.FS

// Renderer formats amounts in a fixed display currency.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates. An empty currency prints plain
// two-decimal numbers.
func New(currency string) *Renderer {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return core.FormatAmount(d, currency) },
		"cell":  cell,
	}
	return &Renderer{
		tmpl: template.Must(template.New("report").Funcs(funcs).ParseFS(templates, "templates/*.md")),
	}
}

func (r *Renderer) List(txs []core.Transaction) (string, error) {
	return r.render("list.md", struct{ Transactions []core.Transaction }{txs})
}

func (r *Renderer) Budget(status core.BudgetStatus) (string, error) {
	return r.render("budget.md", status)
}

func (r *Renderer) Summary(sum core.Summary) (string, error) {
	return r.render("summary.md", sum)
}

// Transaction renders a one-line confirmation such as
// "Transaction **3** created: ...".
func (r *Renderer) Transaction(action string, t core.Transaction) (string, error) {
	return r.render("transaction.md", struct {
		core.Transaction
		Action string
	}{t, action})
}

func (r *Renderer) render(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// cell keeps free text from breaking a markdown table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
