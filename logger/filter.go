package logger

import (
	"net/url"
	"reflect"
	"strings"
)

const (
	// DefaultMaskValue replaces sensitive values.
	DefaultMaskValue = "***"
	// DefaultMaxDepth bounds recursion into nested maps, slices and structs.
	DefaultMaxDepth = 8
)

// FilterConfig lists the field names treated as sensitive. Matching is a
// case-insensitive substring test.
type FilterConfig struct {
	SensitiveFields []string
	MaskValue       string
}

// DefaultFilterConfig covers credentials and connection strings.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "api_key", "apikey",
			"token", "authorization",
			"credential",
			"dsn", "connection_string", "connectionstring", "database_url", "db_url",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks sensitive values before they reach the log.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter builds a filter. A nil config uses
// DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks value when key names a sensitive field. Connection
// strings keep their shape with only the password replaced.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.maskString(value)
	}
	return value
}

// FilterValue masks value when key is sensitive and otherwise walks maps,
// slices and structs looking for sensitive keys.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filterValue(key, value, DefaultMaxDepth)
}

// FilterFields applies FilterValue to every entry of fields.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterValue(key string, value any, depth int) any {
	if f.isSensitiveField(key) {
		if s, ok := value.(string); ok {
			return f.maskString(s)
		}
		return f.config.MaskValue
	}
	if value == nil || depth <= 0 {
		return value
	}

	if m, ok := value.(map[string]any); ok {
		filtered := make(map[string]any, len(m))
		for k, v := range m {
			filtered[k] = f.filterValue(k, v, depth-1)
		}
		return filtered
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return value
		}
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = f.filterValue(key, rv.Index(i).Interface(), depth-1)
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return value
		}
		return f.filterStruct(rv.Elem(), depth)
	case reflect.Struct:
		return f.filterStruct(rv, depth)
	default:
		return value
	}
}

func (f *SensitiveDataFilter) filterStruct(rv reflect.Value, depth int) map[string]any {
	rt := rv.Type()
	result := make(map[string]any, rv.NumField())
	for i := range rv.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonName(&field)
		if name == "" {
			continue
		}
		result[name] = f.filterValue(name, rv.Field(i).Interface(), depth-1)
	}
	return result
}

// jsonName prefers the json tag name. An empty result means skip.
func jsonName(field *reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, sensitive := range f.config.SensitiveFields {
		if strings.Contains(lower, strings.ToLower(sensitive)) {
			return true
		}
	}
	return false
}

func (f *SensitiveDataFilter) maskString(value string) string {
	if value == "" {
		return value
	}
	if masked, ok := f.maskDSN(value); ok {
		return masked
	}
	return f.config.MaskValue
}

// MaskDSN hides the password in a connection string using the default mask.
// URL DSNs, the MySQL user:pass@tcp(...) form and keyword/value DSNs are
// recognized. Anything else is masked entirely.
func MaskDSN(dsn string) string {
	return NewSensitiveDataFilter(nil).maskString(dsn)
}

func (f *SensitiveDataFilter) maskDSN(value string) (string, bool) {
	if strings.Contains(value, "://") {
		return f.maskURL(value)
	}
	eq, at := strings.Index(value, "="), strings.LastIndex(value, "@")
	if eq >= 0 && (at < 0 || eq < at) {
		return f.maskKeywords(value)
	}
	if at < 0 {
		return "", false
	}
	user, _, hasPassword := strings.Cut(value[:at], ":")
	if !hasPassword {
		return "", false
	}
	return user + ":" + f.config.MaskValue + value[at:], true
}

func (f *SensitiveDataFilter) maskURL(value string) (string, bool) {
	parsed, err := url.Parse(value)
	if err != nil {
		return "", false
	}
	if parsed.User == nil {
		return value, true
	}
	if _, ok := parsed.User.Password(); !ok {
		return value, true
	}

	var b strings.Builder
	b.WriteString(parsed.Scheme)
	b.WriteString("://")
	b.WriteString(parsed.User.Username())
	b.WriteByte(':')
	b.WriteString(f.config.MaskValue)
	b.WriteByte('@')
	b.WriteString(parsed.Host)
	b.WriteString(parsed.EscapedPath())
	if parsed.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(parsed.RawQuery)
	}
	if parsed.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(parsed.Fragment)
	}
	return b.String(), true
}

// maskKeywords handles "host=h user=u password=p" and the semicolon form
// used by SQL Server. It reports false when no keyword was sensitive.
func (f *SensitiveDataFilter) maskKeywords(value string) (string, bool) {
	sep := " "
	if strings.Contains(value, ";") {
		sep = ";"
	}
	masked := false
	parts := strings.Split(value, sep)
	for i, part := range parts {
		k, _, ok := strings.Cut(part, "=")
		if ok && f.isSensitiveField(strings.TrimSpace(k)) {
			parts[i] = k + "=" + f.config.MaskValue
			masked = true
		}
	}
	return strings.Join(parts, sep), masked
}
