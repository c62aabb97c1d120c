package modules

import (
	"encoding/json"
	"fmt"
)

// decodeOptions copies rule options onto dst, which holds the defaults.
// Options arrive as decoded JSON/YAML values, so they are round-tripped
// through JSON to reach the module's tagged struct.
func decodeOptions(module string, opts map[string]any, dst any) error {
	if len(opts) == 0 {
		return nil
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("%s: marshal options: %w", module, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%s: unmarshal options: %w", module, err)
	}
	return nil
}
