// Package prompts holds the catalog of analysis prompts offered to MCP
// clients. Prompt texts live in an embedded YAML file and are rendered
// with text/template.
package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var builtin []byte

// ErrUnknownPrompt is returned by Render for a name not in the catalog.
var ErrUnknownPrompt = errors.New("unknown prompt")

// Argument describes one prompt input.
type Argument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

// Prompt is one catalog entry.
type Prompt struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Arguments   []Argument `yaml:"arguments"`
	Template    string     `yaml:"template"`

	tmpl *template.Template
}

type file struct {
	Prompts []*Prompt `yaml:"prompts"`
}

var statementNames = map[string]string{
	"income":    "Income Statement",
	"balance":   "Balance Sheet",
	"cash-flow": "Cash Flow Statement",
}

var funcs = template.FuncMap{
	"statementName": func(kind string) string {
		if name, ok := statementNames[kind]; ok {
			return name
		}
		if kind == "" {
			return kind
		}
		return strings.ToUpper(kind[:1]) + strings.ToLower(kind[1:])
	},
	"commaList": func(s string) string {
		return strings.Join(strings.Split(s, ","), ", ")
	},
}

// Catalog is a parsed set of prompts.
type Catalog struct {
	list   []*Prompt
	byName map[string]*Prompt
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(builtin)
}

// MustLoad is Load for catalogs known to be valid.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse reads a YAML catalog and compiles every template.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	c := &Catalog{byName: make(map[string]*Prompt, len(f.Prompts))}
	for _, p := range f.Prompts {
		if p.Name == "" {
			return nil, errors.New("parse prompts: prompt without a name")
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("parse prompts: duplicate prompt %s", p.Name)
		}
		t, err := template.New(p.Name).Funcs(funcs).Option("missingkey=zero").Parse(p.Template)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %s: %w", p.Name, err)
		}
		p.tmpl = t
		c.list = append(c.list, p)
		c.byName[p.Name] = p
	}
	return c, nil
}

// All returns the prompts in catalog order.
func (c *Catalog) All() []*Prompt {
	return append([]*Prompt(nil), c.list...)
}

// Get looks a prompt up by name.
func (c *Catalog) Get(name string) (*Prompt, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Render fills the named prompt with args.
func (c *Catalog) Render(name string, args map[string]string) (string, error) {
	p, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	return p.Render(args)
}

// Render checks required arguments and executes the template.
func (p *Prompt) Render(args map[string]string) (string, error) {
	data := make(map[string]string, len(p.Arguments))
	for _, a := range p.Arguments {
		v := strings.TrimSpace(args[a.Name])
		if a.Required && v == "" {
			return "", fmt.Errorf("prompt %s: missing required argument %q", p.Name, a.Name)
		}
		data[a.Name] = args[a.Name]
	}
	var b strings.Builder
	if err := p.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", p.Name, err)
	}
	return b.String(), nil
}
