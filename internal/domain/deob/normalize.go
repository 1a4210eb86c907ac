package deob

import "regexp"

var (
	trailingExport = regexp.MustCompile(`\bexport\s*\{[^}]*\}\s*;?\s*$`)
	exportDefault  = regexp.MustCompile(`(^|[;}\n])(\s*)export\s+default\s+`)
	exportDecl     = regexp.MustCompile(`(^|[;}\n])(\s*)export\s+((?:async\s+)?(?:const|let|var|function|class)\b)`)
)

// StripExports drops ES module export syntax so the bundle reads as a plain
// script: a trailing `export { ... };` clause is removed, `export default`
// keeps only its expression and an exported declaration loses its leading
// `export` keyword.
func StripExports(text string) string {
	text = trailingExport.ReplaceAllString(text, "")
	text = exportDefault.ReplaceAllString(text, "$1$2")

	return exportDecl.ReplaceAllString(text, "$1$2$3")
}
