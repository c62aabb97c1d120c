package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sofmeright/lintrc/src/config"
)

// Config rendering formats for print-config.
const (
	ConfigJSON = "json"
	ConfigYAML = "yaml"
	ConfigTOML = "toml"
)

// RenderConfig writes a resolved configuration object in the given format.
// Map keys are emitted in sorted order by every encoder.
func RenderConfig(w io.Writer, cfg config.Object, format string) error {
	if cfg == nil {
		cfg = config.Object{}
	}

	switch strings.ToLower(format) {
	case "", ConfigJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any(cfg))
	case ConfigYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(cfg)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case ConfigTOML:
		enc := toml.NewEncoder(w)
		if err := enc.Encode(map[string]any(cfg)); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown config format %q (want json, yaml or toml)", format)
	}
}
