// Package inflect holds the naive name transforms the API's URL and
// resource naming conventions rely on. Plurals are a trailing "s".
package inflect

import "strings"

// Singularize strips one trailing "s". "Categories" becomes "Categorie".
func Singularize(word string) string {
	return strings.TrimSuffix(word, "s")
}

// Camelize upper-cases the first letter of each underscore-delimited word
// and joins them: "pre_authorization" becomes "PreAuthorization".
func Camelize(word string) string {
	var b strings.Builder
	for _, part := range strings.Split(word, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// TrimIDSuffix turns a foreign-id field name into the referenced type name:
// "user_id" becomes "user".
func TrimIDSuffix(field string) string {
	return strings.TrimSuffix(field, "_id")
}
