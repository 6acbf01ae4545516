package relay

import (
	"encoding/json"
	"fmt"
	"os"
)

// Directory resolves a sender's phone number to their ledger address.
// Injected into the broadcaster so deployments choose where the mapping
// lives; nothing in the relay holds it as process-wide state.
type Directory interface {
	Lookup(phone string) (address string, ok bool)
}

// FileDirectory is a Directory loaded once from a JSON file of
// phone-number-to-address entries.
type FileDirectory struct {
	entries map[string]string
}

// LoadDirectory reads a JSON object like {"+33759687877": "rsGQ..."}.
func LoadDirectory(path string) (*FileDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse directory file: %w", err)
	}
	return &FileDirectory{entries: entries}, nil
}

// Lookup returns the address registered for a phone number.
func (d *FileDirectory) Lookup(phone string) (string, bool) {
	address, ok := d.entries[phone]
	return address, ok
}

// EmptyDirectory is a Directory with no entries, for deployments that
// require every PARAMS request to carry its address explicitly.
type EmptyDirectory struct{}

// Lookup never resolves.
func (EmptyDirectory) Lookup(string) (string, bool) {
	return "", false
}
