package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tx is a view of the document inside View or Update.
type Tx struct {
	doc      document
	writable bool
	dirty    bool
}

// Collections returns the names of all collections present in the document.
func (tx *Tx) Collections() []string {
	names := make([]string, 0, len(tx.doc))
	for name := range tx.doc {
		names = append(names, name)
	}
	return names
}

// Len returns the number of records in collection.
func (tx *Tx) Len(collection string) int {
	return len(tx.doc[collection])
}

// NextID returns max(id)+1 for collection, or 1 when it is empty. Ids freed
// by deleting the current maximum are handed out again.
func (tx *Tx) NextID(collection string) (int, error) {
	max := 0
	for _, raw := range tx.doc[collection] {
		id, err := idOf(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", collection, err)
		}
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

func (tx *Tx) set(collection string, records []json.RawMessage) error {
	if !tx.writable {
		return ErrReadOnly
	}
	tx.doc[collection] = records
	tx.dirty = true
	return nil
}

func (tx *Tx) indexOf(collection string, id int) (int, error) {
	for i, raw := range tx.doc[collection] {
		rid, err := idOf(raw)
		if err != nil {
			return -1, fmt.Errorf("%s: %w", collection, err)
		}
		if rid == id {
			return i, nil
		}
	}
	return -1, nil
}

func idOf(raw json.RawMessage) (int, error) {
	var rec struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return 0, fmt.Errorf("malformed record: %w", err)
	}
	return rec.ID, nil
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return rawToMap(data)
}

func rawToMap(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	m := map[string]any{}
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}
