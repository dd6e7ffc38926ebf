package settings

// Values holds validated settings keyed by name.
type Values map[string]any

// String returns a string setting.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns an int setting.
func (v Values) Int(name string) int {
	n, _ := v[name].(int)
	return n
}

// Float returns a float setting.
func (v Values) Float(name string) float64 {
	switch n := v[name].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

// Bool returns a bool setting.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// List returns a list setting.
func (v Values) List(name string) []string {
	l, _ := v[name].([]string)
	return l
}

// Common are the settings every command accepts; they map onto the id,
// class and style properties of the token the command creates.
var Common = Schema{
	{Name: "id", Default: "", Type: String, Description: "Unique identifier, used as the HTML id and reference key."},
	{Name: "class", Default: "", Type: String, Description: "Extra CSS classes for the rendered element."},
	{Name: "style", Default: "", Type: String, Description: "Inline CSS style for the rendered element."},
}

// Attributes returns the Common settings as token properties.
func (v Values) Attributes() map[string]any {
	return map[string]any{
		"id":    v.String("id"),
		"class": v.String("class"),
		"style": v.String("style"),
	}
}
