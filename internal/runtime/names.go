package runtime

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName renders a registered component type name for human-facing
// surfaces: "todo-list" becomes "Todo List". A Caser is stateful, so one
// is built per call.
func DisplayName(typeName string) string {
	parts := strings.FieldsFunc(typeName, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	if len(parts) == 0 {
		return typeName
	}

	caser := cases.Title(language.English)
	for i, part := range parts {
		parts[i] = caser.String(part)
	}
	return strings.Join(parts, " ")
}
