package item

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Item is a single catalog entry.
type Item struct {
	ID       int64
	Name     string
	Category string
	Price    float64

	// Extra holds fields this service does not manage, keyed by their JSON name.
	Extra map[string]json.RawMessage
}

// managed fields, in the order they are encoded
type itemFields struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

var managedFields = map[string]struct{}{
	"id":       {},
	"name":     {},
	"category": {},
	"price":    {},
}

// MarshalJSON encodes the managed fields first, then extra fields sorted by name.
func (it Item) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(itemFields{
		ID:       it.ID,
		Name:     it.Name,
		Category: it.Category,
		Price:    it.Price,
	})
	if err != nil {
		return nil, err
	}

	keys := it.extraKeys()
	if len(keys) == 0 {
		return base, nil
	}

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, key := range keys {
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(it.Extra[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the managed fields and keeps everything else in Extra.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var fields itemFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*it = Item{
		ID:       fields.ID,
		Name:     fields.Name,
		Category: fields.Category,
		Price:    fields.Price,
	}

	for key, value := range raw {
		if _, ok := managedFields[key]; ok {
			continue
		}
		if it.Extra == nil {
			it.Extra = make(map[string]json.RawMessage)
		}
		it.Extra[key] = value
	}
	return nil
}

func (it Item) extraKeys() []string {
	if len(it.Extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(it.Extra))
	for key, value := range it.Extra {
		if _, ok := managedFields[key]; ok || len(value) == 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FromPayload validates payload and builds an Item from it.
// A client supplied id is discarded; ids are assigned by the service.
func FromPayload(payload map[string]any) (Item, error) {
	if err := Validate(payload); err != nil {
		return Item{}, err
	}

	price, _ := toFloat(payload["price"])
	it := Item{
		Name:     payload["name"].(string),
		Category: payload["category"].(string),
		Price:    price,
	}

	for key, value := range payload {
		if _, ok := managedFields[key]; ok {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return Item{}, NewValidationError(key, err)
		}
		if it.Extra == nil {
			it.Extra = make(map[string]json.RawMessage)
		}
		it.Extra[key] = encoded
	}
	return it, nil
}
