// Package scaffold generates the boilerplate files for a new domain from a
// fixed manifest of templates. It is used by the admin CLI only.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ErrExists is returned when the domain package is already present.
var ErrExists = errors.New("domain already exists")

// File is one manifest entry: the output path pattern and the template that
// renders it.
type File struct {
	Path     string
	Template string
}

// Manifest lists every file generated for a domain. Paths are relative to
// the repository root; {pkg} is replaced with the package name.
var Manifest = []File{
	{Path: "internal/models/{pkg}.go", Template: "model.go.tmpl"},
	{Path: "internal/{pkg}/service.go", Template: "service.go.tmpl"},
	{Path: "internal/{pkg}/service_test.go", Template: "service_test.go.tmpl"},
	{Path: "internal/api/handler/{pkg}.go", Template: "handler.go.tmpl"},
}

// Domain is the data every template is rendered with.
type Domain struct {
	Module  string
	Package string
	Type    string
	Route   string
}

// NewDomain derives the package, type and route names from name, e.g.
// "service_request" becomes package "servicerequest", type
// "ServiceRequest" and route "/service-requests".
func NewDomain(module, name string) (Domain, error) {
	if !validName.MatchString(name) {
		return Domain{}, fmt.Errorf("invalid domain name %q", name)
	}

	words := strings.FieldsFunc(splitCamel(name), func(r rune) bool { return r == '_' })
	var typ, pkg strings.Builder
	for _, w := range words {
		lw := strings.ToLower(w)
		pkg.WriteString(lw)
		typ.WriteString(strings.ToUpper(lw[:1]) + lw[1:])
	}
	route := "/" + strings.ToLower(strings.Join(words, "-")) + "s"

	return Domain{Module: module, Package: pkg.String(), Type: typ.String(), Route: route}, nil
}

// splitCamel inserts an underscore before each upper case letter that
// follows a lower case letter or digit.
func splitCamel(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteRune('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// Generate renders the manifest for d below root and returns the paths it
// wrote. Nothing is written when the domain package exists or any file
// fails to render.
func Generate(root string, d Domain) ([]string, error) {
	if _, err := os.Stat(filepath.Join(root, "internal", d.Package)); err == nil {
		return nil, fmt.Errorf("%w: internal/%s", ErrExists, d.Package)
	}

	rendered := make(map[string][]byte, len(Manifest))
	paths := make([]string, 0, len(Manifest))
	for _, f := range Manifest {
		rel := strings.ReplaceAll(f.Path, "{pkg}", d.Package)

		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, f.Template, d); err != nil {
			return nil, fmt.Errorf("render %s: %w", rel, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", rel, err)
		}

		full := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Stat(full); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrExists, rel)
		}
		rendered[full] = src
		paths = append(paths, rel)
	}

	for _, rel := range paths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(full, rendered[full], 0o644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
