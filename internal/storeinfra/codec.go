// Package storeinfra holds the Collection Store backends. Every backend reads
// and writes the whole collection in one operation.
package storeinfra

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-itemstore/item"
)

// decodeCollection parses a JSON array of items. Empty input is an empty collection.
func decodeCollection(data []byte) ([]item.Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []item.Item{}, nil
	}

	var items []item.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if items == nil {
		items = []item.Item{}
	}
	return items, nil
}

// encodeCollection renders items as a pretty printed JSON array.
func encodeCollection(items []item.Item) ([]byte, error) {
	if items == nil {
		items = []item.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}
