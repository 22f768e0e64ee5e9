// Package generator renders the artifacts of a cluster configuration bundle.
//
// Generator implements bundle.Generators and additionally derives the export
// side payload (Dockerfile and POJO classes) from a cluster definition.
package generator

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
)

var (
	javaTypeRegex  = regexp.MustCompile(`^[A-Za-z_$][\w$]*(\.[A-Za-z_$][\w$]*)*$`)
	javaIdentRegex = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	nonIdentRegex  = regexp.MustCompile(`[^A-Za-z0-9]+`)
	artifactRegex  = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// Option configures a Generator.
type Option func(*Generator)

// WithPlatformVersion sets the platform version used by the Dockerfile.
func WithPlatformVersion(version string) Option {
	return func(g *Generator) {
		if version != "" {
			g.platformVersion = version
		}
	}
}

// Generator renders bundle artifacts from text templates.
type Generator struct {
	platformVersion string
	templates       *template.Template
}

var _ bundle.Generators = (*Generator)(nil)

// New creates a generator with all templates parsed.
func New(opts ...Option) *Generator {
	g := &Generator{
		platformVersion: bundle.DefaultPlatformVersion,
		templates:       parseTemplates(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Payload derives the export side payload of a cluster.
func (g *Generator) Payload(cluster *models.Cluster) (models.ExportPayload, error) {
	docker, err := g.Docker(cluster)
	if err != nil {
		return models.ExportPayload{}, err
	}

	metas, err := g.Pojos(cluster)
	if err != nil {
		return models.ExportPayload{}, err
	}

	return models.ExportPayload{Docker: docker, Metadatas: metas}, nil
}

func parseTemplates() *template.Template {
	root := template.New("generator").Funcs(template.FuncMap{
		"esc":         escapeXML,
		"jstr":        strconv.Quote,
		"cap":         capitalize,
		"placeholder": placeholder,
		"sqlType":     sqlType,
		"javaClass":   javaClassLiteral,
		"boxed":       boxed,
		"isPrimitive": isPrimitive,
		"javaIdentOf": javaIdent,
	})

	for name, text := range map[string]string{
		"properties": propertiesTemplate,
		"xml":        xmlTemplate,
		"factory":    factoryTemplate,
		"startup":    startupTemplate,
		"pom":        pomTemplate,
		"readme":     readmeTemplate,
		"readmeJdbc": readmeJdbcTemplate,
		"docker":     dockerTemplate,
		"pojo":       pojoTemplate,
	} {
		template.Must(root.New(name).Parse(text))
	}

	return root
}

func (g *Generator) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := g.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on writer errors, which bytes.Buffer never returns.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func placeholder(bean, key string) string {
	return "${" + bean + ".jdbc." + key + "}"
}

// javaIdent converts an arbitrary name into a CamelCase Java identifier part.
func javaIdent(name string) string {
	var b strings.Builder
	for _, part := range nonIdentRegex.Split(name, -1) {
		b.WriteString(capitalize(part))
	}
	if b.Len() == 0 {
		return "Cache"
	}
	return b.String()
}

func artifactID(name string) string {
	id := strings.Trim(artifactRegex.ReplaceAllString(name, "-"), "-")
	if id == "" {
		return "cluster"
	}
	return strings.ToLower(id)
}

// splitType splits "org.example.Person" into "org.example" and "Person".
func splitType(typeName string) (string, string) {
	idx := strings.LastIndex(typeName, ".")
	if idx < 0 {
		return "", typeName
	}
	return typeName[:idx], typeName[idx+1:]
}

func validType(typeName string) error {
	if !javaTypeRegex.MatchString(typeName) {
		return fmt.Errorf("invalid Java type name %q", typeName)
	}
	return nil
}
