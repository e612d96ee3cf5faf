package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is one configuration key together with its default value.
type Field struct {
	Key         string
	Value       any
	Description string

	// Validate rejects values that have the right type but make no sense.
	Validate func(value any) error
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Episodl + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// Parse converts raw command line values into the type of the default value
// and validates the result.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: value is required", f.Key)
	}

	var (
		value any
		err   error
	)
	switch f.Value.(type) {
	case string:
		value = raw[0]
	case int:
		value, err = strconv.Atoi(raw[0])
	case bool:
		value, err = strconv.ParseBool(raw[0])
	case []string:
		value = raw
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", f.Key, f.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: expected %s, got %q", f.Key, f.Type(), raw[0])
	}

	if f.Validate != nil {
		if err := f.Validate(value); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Key, err)
		}
	}

	return value, nil
}

func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// MarshalJSON reports the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Env         string `json:"env"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.Type(),
		Env:         f.Env(),
	})
}

// Type names the Go type of the default value.
func (f *Field) Type() string {
	if f.Value == nil {
		return "unknown"
	}
	return reflect.TypeOf(f.Value).String()
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = lo.Must(template.New("field").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"purple": style.Fg(color.Purple),
	"blue":   style.Fg(color.Blue),
	"hl":     highlight,
	"current": func(k string) any {
		return viper.Get(k)
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (current .Key) }}
{{ blue "Default:" }} {{ hl .Value }}
{{ blue "Type:" }}    {{ .Type }}`))
