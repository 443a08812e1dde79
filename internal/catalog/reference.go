package catalog

import (
	"encoding/json"
	"errors"
	"os"

	"icontitle/internal/matcher"
)

// LoadReference reads the reference catalog: a JSON array of
// {"path", "description"} objects. Entry order is preserved.
func LoadReference(filePath string) ([]matcher.ReferenceEntry, error) {
	data, err := readInput(filePath)
	if err != nil {
		return nil, err
	}

	var entries []matcher.ReferenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &Error{Kind: MalformedDocument, Path: filePath, Err: err}
	}
	return entries, nil
}

// readInput reads a whole input document, mapping open failures to MissingInput.
func readInput(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &Error{Kind: MissingInput, Path: filePath, Err: os.ErrNotExist}
		}
		return nil, &Error{Kind: MissingInput, Path: filePath, Err: err}
	}
	return data, nil
}
