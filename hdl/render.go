package hdl

import (
	"bytes"
	"io"
	"strconv"
	"text/template"
)

const moduleTemplate = `// Generated by ipgen. Do not edit.
{{- $m := . }}

module {{ .Name }}{{ if .Params }} #({{ range $i, $p := .Params }}
    parameter {{ $p.Name }} = {{ $p.Value }}{{ sep $i (len $m.Params) }}{{ end }}
){{ end }} ({{ range $i, $p := .Ports }}
    {{ printf "%-6s" (print $p.Dir) }} wire {{ printf "%-8s" (bits $p.Width) }} {{ $p.Name }}{{ sep $i (len $m.Ports) }}{{ end }}
);
{{ range .Instances }}{{ $inst := . }}
    {{ .Module }}{{ if .Params }} #({{ range $i, $p := .Params }}
        .{{ $p.Name }}({{ $p.Value }}){{ sep $i (len $inst.Params) }}{{ end }}
    ){{ end }} {{ .Name }} ({{ range $i, $c := .Connections }}
        .{{ $c.Port }}({{ $c.Expr }}){{ sep $i (len $inst.Connections) }}{{ end }}
    );
{{ end }}
endmodule
`

var moduleTmpl = template.Must(template.New("module").Funcs(template.FuncMap{
	"sep": func(i, n int) string {
		if i < n-1 {
			return ","
		}

		return ""
	},
	"bits": func(w int) string {
		if w <= 1 {
			return ""
		}

		return "[" + strconv.Itoa(w-1) + ":0]"
	},
}).Parse(moduleTemplate))

// Render writes the module as HDL text.
func (m Module) Render(w io.Writer) error {
	return moduleTmpl.Execute(w, m)
}

// Text renders the module into a string.
func (m Module) Text() (string, error) {
	buf := new(bytes.Buffer)
	if err := m.Render(buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
