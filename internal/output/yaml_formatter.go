package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/fund-calculator/internal/domain"
)

// YAMLFormatter serializes the report as YAML. Keys match the JSON output.
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(report *domain.Report) ([]byte, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	// JSON input decodes as flow style with quoted scalars; render plain
	// block style instead. The encoder still quotes strings that would
	// otherwise read back as numbers or booleans.
	clearStyle(&doc)
	return yaml.Marshal(&doc)
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
