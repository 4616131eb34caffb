package util

import (
	"fmt"
	"regexp"
	"strings"
)

var dashCaseRegexp = regexp.MustCompile(`[-_]+([a-z0-9])`)

// DashCaseToCamelCase converts a dash-case or snake_case string to camelCase
func DashCaseToCamelCase(input string) string {
	return dashCaseRegexp.ReplaceAllStringFunc(input, func(match string) string {
		parts := dashCaseRegexp.FindStringSubmatch(match)
		if len(parts) > 1 {
			return strings.ToUpper(parts[1])
		}
		return match
	})
}

// DashCaseToPascalCase converts a dash-case string to PascalCase
func DashCaseToPascalCase(input string) string {
	c := DashCaseToCamelCase(input)
	if c == "" {
		return c
	}
	return strings.ToUpper(c[:1]) + c[1:]
}

// InternalError panics with an internal error message. Used for malformed input that
// cannot come out of a correct lowering pass.
func InternalError(format string, args ...interface{}) {
	panic(fmt.Sprintf("internal error: "+format, args...))
}
