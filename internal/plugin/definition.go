package plugin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inkweld/inkweld/internal/docmodel"
)

// Definition is the declarative plugin format used for local, package, and
// remote plugins: metadata, an ordered list of content rewrite rules, and an
// optional CSS fragment. Loading a definition is the uniform
// load-validate-wrap boundary: any shape problem surfaces here, never as a
// raw failure deeper in the pipeline.
type Definition struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`

	Rules []RewriteRule `yaml:"rules,omitempty"`
	CSS   string        `yaml:"css,omitempty"`
}

// RewriteRule is one ordered find/replace applied to every content file.
// When Regex is set, Find is compiled as a regular expression and Replace may
// reference capture groups.
type RewriteRule struct {
	Find    string `yaml:"find"`
	Replace string `yaml:"replace"`
	Regex   bool   `yaml:"regex,omitempty"`
}

// LoadDefinitionFile reads and validates a plugin definition from disk.
func LoadDefinitionFile(path string) (*DefinitionPlugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plugin definition: %w", err)
	}
	p, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("plugin definition %s: %w", path, err)
	}
	return p, nil
}

// ParseDefinition parses and validates definition content, wrapping it in the
// uniform Plugin interface.
func ParseDefinition(data []byte) (*DefinitionPlugin, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("definition is missing a name")
	}
	if def.Version == "" {
		def.Version = "0.0.0"
	}

	p := &DefinitionPlugin{def: def}
	for i, rule := range def.Rules {
		if rule.Find == "" {
			return nil, fmt.Errorf("rule %d: find must be non-empty", i)
		}
		if !rule.Regex {
			p.compiled = append(p.compiled, nil)
			continue
		}
		re, err := regexp.Compile(rule.Find)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid pattern %q: %w", i, rule.Find, err)
		}
		p.compiled = append(p.compiled, re)
	}
	return p, nil
}

// DefinitionPlugin adapts a validated Definition to the Plugin interface.
type DefinitionPlugin struct {
	def      Definition
	compiled []*regexp.Regexp // nil for literal rules, index-aligned with def.Rules
}

func (p *DefinitionPlugin) Metadata() Metadata {
	return Metadata{
		Name:        p.def.Name,
		Version:     p.def.Version,
		Description: p.def.Description,
	}
}

func (p *DefinitionPlugin) CSS() string {
	return p.def.CSS
}

func (p *DefinitionPlugin) Transform(ctx context.Context, doc *docmodel.Document) error {
	for _, f := range doc.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		content := f.Content
		for i, rule := range p.def.Rules {
			if re := p.compiled[i]; re != nil {
				content = re.ReplaceAll(content, []byte(rule.Replace))
			} else {
				content = bytes.ReplaceAll(content, []byte(rule.Find), []byte(rule.Replace))
			}
		}
		f.Content = content
	}
	return nil
}
