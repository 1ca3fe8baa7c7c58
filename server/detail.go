package server

import (
	"html/template"
	"net/http"

	"github.com/sarchlab/ipgen/core"
)

type paramDetail struct {
	Name        string
	Kind        string
	Default     any
	Domain      string
	Description string
}

type interfaceDetail struct {
	Name    string
	Family  string
	Role    string
	Signals int
}

type portDetail struct {
	Name      string
	Direction string
	Width     int
	Source    string
	Net       string
}

type coreDetail struct {
	Name        string
	Version     string
	Type        string
	Module      string
	Language    string
	Simulation  bool
	Description string
	Params      []paramDetail
	Interfaces  []interfaceDetail
	Ports       []portDetail
}

// describe flattens a descriptor, with interfaces and ports resolved under
// the default parameters.
func describe(d core.Descriptor) (coreDetail, error) {
	detail := coreDetail{
		Name:        d.Name,
		Version:     d.Version,
		Type:        d.Type,
		Module:      d.Module,
		Language:    d.Language.String(),
		Simulation:  d.Simulation,
		Description: d.Description,
	}

	for _, spec := range d.Schema.Specs() {
		detail.Params = append(detail.Params, paramDetail{
			Name:        spec.Name,
			Kind:        spec.Kind.String(),
			Default:     spec.Default,
			Domain:      spec.Domain(),
			Description: spec.Description,
		})
	}

	ifaces, bindings, err := d.Bind(d.Schema.Defaults())
	if err != nil {
		return coreDetail{}, err
	}

	for _, i := range ifaces {
		detail.Interfaces = append(detail.Interfaces, interfaceDetail{
			Name:    i.Name(),
			Family:  i.Family().String(),
			Role:    i.Role().String(),
			Signals: len(i.Signals()),
		})
	}

	for _, b := range bindings {
		detail.Ports = append(detail.Ports, portDetail{
			Name:      b.Port,
			Direction: b.Dir.String(),
			Width:     b.Width,
			Source:    b.Kind.String(),
			Net:       b.Net,
		})
	}

	return detail, nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>ipgen cores</title></head>
<body>
<h1>Cores</h1>
<table>
<tr><th>Name</th><th>Version</th><th>Module</th><th>Description</th></tr>
{{- range .}}
<tr>
<td><a href="/api/core/{{.Name}}">{{.Name}}</a></td>
<td>{{.Version}}</td>
<td>{{.Module}}</td>
<td>{{.Description}}</td>
</tr>
{{- end}}
</table>
</body>
</html>
`))

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := indexTemplate.Execute(w, s.registry.List())
	dieOnErr(err)
}
