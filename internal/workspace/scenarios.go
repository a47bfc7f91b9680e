package workspace

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/handbook"
)

//go:embed scenarios.yaml
var scenariosTmpl string

// Demo scenario keys.
const (
	ScenarioParentComplaint = "parentComplaint"
	ScenarioFacultyLeave    = "facultyLeave"
)

// Report is an archived risk assessment.
type Report struct {
	ID       int    `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Date     string `json:"date" yaml:"date"`
	Scenario string `json:"scenario" yaml:"scenario"`
	Issue    string `json:"issue" yaml:"issue"`
}

type scenarioFile struct {
	Scenarios yaml.Node `yaml:"scenarios"`
	Reports   []Report  `yaml:"reports"`
}

type scenarioSet struct {
	byKey   map[string]any
	keys    []string
	reports []Report
}

func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// loadScenarios renders the scenario template against hb and decodes it
// into ordered values.
func loadScenarios(hb *handbook.Handbook) (*scenarioSet, error) {
	funcs := template.FuncMap{
		"section": func(id string) string {
			s, _ := hb.Lookup(id)
			return s.Text
		},
		"banner": hb.Banner,
		"indent": indent,
	}
	tmpl, err := template.New("scenarios").Funcs(funcs).Parse(scenariosTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("render scenarios: %w", err)
	}

	var file scenarioFile
	if err := yaml.Unmarshal(buf.Bytes(), &file); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	if file.Scenarios.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode scenarios: scenarios is not a mapping")
	}

	set := &scenarioSet{byKey: make(map[string]any), reports: file.Reports}
	nodes := file.Scenarios.Content
	for i := 0; i+1 < len(nodes); i += 2 {
		v, err := content.FromYAML(nodes[i+1])
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", nodes[i].Value, err)
		}
		set.byKey[nodes[i].Value] = v
		set.keys = append(set.keys, nodes[i].Value)
	}
	for _, r := range set.reports {
		if _, ok := set.byKey[r.Scenario]; !ok {
			return nil, fmt.Errorf("report %d references unknown scenario %q", r.ID, r.Scenario)
		}
	}
	return set, nil
}

func (s *scenarioSet) issueFor(key string) string {
	for _, r := range s.reports {
		if r.Scenario == key {
			return r.Issue
		}
	}
	return ""
}
