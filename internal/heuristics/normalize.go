package heuristics

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case and compatibility forms so keyword tables see
// "ＵＲＧＥＮＴ" and "urgent" alike
func Normalize(text string) string {
	return cases.Fold().String(norm.NFKC.String(text))
}
