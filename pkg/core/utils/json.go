package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes common JSON defects in pasted research notes and model
// output: single quotes, unquoted keys, trailing commas, unclosed arrays,
// code-fence wrappers.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON repair failed: %v", err)
	}
	return repaired, nil
}

// RepairAndUnmarshal repairs raw JSON and decodes it into the target.
// Falls back to the original text when repair itself fails.
func RepairAndUnmarshal(raw string, target interface{}) error {
	repaired, err := RepairJSON(raw)
	if err != nil {
		repaired = raw
	}
	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return fmt.Errorf("decoding repaired JSON: %w", err)
	}
	return nil
}

// ParseHJSONToStruct parses Hjson (comments, unquoted keys, optional
// commas) directly into a Go struct. Analyst-written driver files use this.
func ParseHJSONToStruct(data string, target interface{}) error {
	if err := hjson.Unmarshal([]byte(data), target); err != nil {
		return fmt.Errorf("parsing HJSON: %v", err)
	}
	return nil
}
