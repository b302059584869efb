package utils

import "strings"

// BacktickIdentifier adds backticks around an identifier, handling nested identifiers.
// It properly handles database.table style identifiers by backticking each part.
//
// Examples:
//   - "table" -> "`table`"
//   - "database.table" -> "`database`.`table`"
//   - "`table`" -> "`table`" (already backticked, not double-backticked)
//   - "" -> ""
//
// MySQL statements built by the mysql dialect quote table and database names
// with this function.
func BacktickIdentifier(name string) string {
	if name == "" {
		return ""
	}

	// A single backticked identifier may itself contain dots
	if IsBackticked(name) {
		return name
	}

	parts := strings.Split(name, ".")
	for i, part := range parts {
		if IsBackticked(part) {
			continue
		}
		parts[i] = "`" + strings.ReplaceAll(part, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

// IsBackticked checks if a string is already wrapped in backticks.
//
// Examples:
//   - "`table`" -> true
//   - "table" -> false
//   - "`db`.`table`" -> false (qualified name, not a single backticked identifier)
//   - "" -> false
func IsBackticked(s string) bool {
	return len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' && !strings.Contains(s[1:len(s)-1], "`")
}

// Unquote removes identifier quoting: backticks (MySQL), double quotes
// (PostgreSQL, ANSI), square brackets and single quotes.
//
// Examples:
//   - "`table`" -> "table"
//   - "\"orders\"" -> "orders"
//   - "[dbo]" -> "dbo"
//   - "table" -> "table"
func Unquote(s string) string {
	return strings.NewReplacer("`", "", `"`, "", "'", "", "[", "", "]", "").Replace(s)
}

// UnqualifiedName strips quoting and any schema or database qualifier from a
// (possibly qualified) identifier.
//
// Examples:
//   - "public.orders" -> "orders"
//   - "`shop`.`accounts`" -> "accounts"
//   - "\"orders\"" -> "orders"
func UnqualifiedName(s string) string {
	name := Unquote(strings.TrimSpace(s))
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return strings.TrimSpace(name)
}
