// File path: internal/persona/porting.go
package persona

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/b08x/script-craft-v2/internal/common"
)

// Export serializes the persona list as pretty-printed JSON suitable for a
// downloadable file.
func Export(personas []Persona) ([]byte, error) {
	if personas == nil {
		personas = []Persona{}
	}
	data, err := json.MarshalIndent(personas, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode personas: %w", err)
	}
	return data, nil
}

// Import parses a previously exported persona list. Any pre-existing id is
// discarded and regenerated, missing nested fields are defaulted, and entries
// without a name or role are skipped and counted rather than failing the
// whole import.
func Import(data []byte) ([]Persona, int, error) {
	var incoming []Persona
	if err := json.Unmarshal(data, &incoming); err != nil {
		return nil, 0, fmt.Errorf("decode personas: %w", err)
	}
	logger := common.Logger()
	accepted := make([]Persona, 0, len(incoming))
	skipped := 0
	for _, p := range incoming {
		if err := Validate(p); err != nil {
			skipped++
			logger.Warn("persona: import entry skipped", "name", p.Name, "error", err)
			continue
		}
		p = Normalize(p)
		p.ID = uuid.NewString()
		accepted = append(accepted, p)
	}
	logger.Info("persona: import finished", "accepted", len(accepted), "skipped", skipped)
	return accepted, skipped, nil
}
