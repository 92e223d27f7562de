package display

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/larder/internal/domain"
)

// PlainText renders a recipe as unstyled text for the clipboard and the
// list command.
func PlainText(r *domain.Recipe, readiness float64) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	title := r.Title
	if domain.IsBlank(title) {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "%s %s · %d portions · %s · ready %s\n",
		domain.FormatNumber(r.Duration), r.Unit, r.Portions, r.Category, FormatReadiness(readiness))
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	if len(r.Ingredients) > 0 {
		b.WriteString("\nIngredients:\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "  - %s", ing.Name)
			if ing.Quantity > 0 {
				fmt.Fprintf(&b, ", %s", domain.FormatNumber(ing.Quantity))
				if ing.Unit != "" {
					fmt.Fprintf(&b, " %s", ing.Unit)
				}
			}
			b.WriteByte('\n')
		}
	}
	if steps := strings.TrimSpace(r.Steps); steps != "" {
		fmt.Fprintf(&b, "\nSteps:\n%s\n", steps)
	}
	return b.String()
}
