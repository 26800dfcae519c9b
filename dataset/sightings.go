package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/aldo-g/earliest-elephant/typedef"
)

// DecodeSightings parses the sighting dataset, a JSON array of records, keeping file order.
func DecodeSightings(data []byte) ([]typedef.SightingRecord, error) {
	var records []typedef.SightingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode sightings: %w", err)
	}
	return records, nil
}
