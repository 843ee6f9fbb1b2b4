package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableName(t *testing.T) {
	tests := []struct {
		typeName string
		want     string
	}{
		{"ClazzName", "clazz_name"},
		{"A", "a"},
		{"ABStudent", "a_b_student"},
		{"student", "student"},
		{"HTTPLog", "h_t_t_p_log"},
		{"Ünit", "ünit"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			assert.Equal(t, tt.want, TableName(tt.typeName))
		})
	}
}
