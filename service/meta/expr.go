package meta

import (
	"os"
	"regexp"
)

// envExpr matches ${env.KEY} where KEY consists of letters, digits or '_'.
var envExpr = regexp.MustCompile(`\$\{env\.([A-Za-z0-9_]*)}`)

// expandEnv substitutes every ${env.KEY} occurrence with the value of the
// KEY environment variable, empty when unset. Malformed expressions are left
// untouched so a document referencing them fails loudly at decode time.
func expandEnv(value string) string {
	return envExpr.ReplaceAllStringFunc(value, func(expr string) string {
		key := envExpr.FindStringSubmatch(expr)[1]
		return os.Getenv(key)
	})
}
