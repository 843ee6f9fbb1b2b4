package columns

import (
	"strings"
	"unicode"
)

// TableName derives a table name from a type name: every upper-case letter
// is lowered and, unless it is the first character, preceded by an underscore.
//
//	ClazzName -> clazz_name
//	ABStudent -> a_b_student
func TableName(typeName string) string {
	var b strings.Builder
	b.Grow(len(typeName) + 4)
	for _, r := range typeName {
		if unicode.IsUpper(r) {
			if b.Len() > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
