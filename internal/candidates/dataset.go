package candidates

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Load reads a JSON array of resume records.
func Load(path string) ([]*Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resumes: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding resumes from %s: %w", path, err)
	}

	resumes := make([]*Resume, 0, len(records))
	for i, record := range records {
		resume, err := FromMap(record)
		if err != nil {
			return nil, fmt.Errorf("resume #%d in %s: %w", i, path, err)
		}
		resumes = append(resumes, resume)
	}
	return resumes, nil
}

// FromMap decodes one loosely typed resume record, as found in exported
// datasets where years are often numbers rather than strings.
func FromMap(record map[string]any) (*Resume, error) {
	var resume Resume
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		WeaklyTypedInput: true,
		Result:           &resume,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(record); err != nil {
		return nil, err
	}
	if resume.ID == "" {
		return nil, fmt.Errorf("record has no id")
	}
	return &resume, nil
}

// Save writes resumes as an indented JSON array.
func Save(path string, resumes []*Resume) error {
	if resumes == nil {
		resumes = []*Resume{}
	}

	data, err := json.MarshalIndent(resumes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding resumes: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing resumes to %s: %w", path, err)
	}
	return nil
}
