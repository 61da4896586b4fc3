package storefront

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/joao-fontenele/aurana-storefront/internal/datefmt"
	"github.com/joao-fontenele/aurana-storefront/internal/domain"
)

//go:embed templates/*.html static
var assets embed.FS

var pageNames = []string{"index.html", "order_success.html", "profile.html"}

func templateFuncs(dates datefmt.Formatter) template.FuncMap {
	return template.FuncMap{
		"date":   displayDate(dates),
		"rub":    formatRub,
		"status": statusLabel,
	}
}

func parsePages(funcs template.FuncMap) (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// displayDate accepts the shapes timestamps arrive in: domain times,
// optional customer times and raw stored strings.
func displayDate(dates datefmt.Formatter) func(v any) string {
	return func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return dates.Display(t)
		case *time.Time:
			if t == nil {
				return datefmt.Unknown
			}
			return dates.Display(*t)
		case string:
			return dates.Format(t)
		default:
			return datefmt.Unknown
		}
	}
}

// formatRub groups thousands with spaces: 12500 -> "12 500 ₽".
func formatRub(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[i])
	}
	return sign + string(out) + " ₽"
}

var statusLabels = map[domain.OrderStatus]string{
	domain.OrderStatusNew:       "Новый",
	domain.OrderStatusConfirmed: "Подтверждён",
	domain.OrderStatusCompleted: "Выполнен",
	domain.OrderStatusCancelled: "Отменён",
}

func statusLabel(s domain.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
