package store

import (
	"encoding/json"
	"fmt"
)

// All decodes every record of collection in stored order.
func All[T any](tx *Tx, collection string) ([]T, error) {
	return Filter(tx, collection, func(T) bool { return true })
}

// Filter decodes the records of collection that satisfy pred.
func Filter[T any](tx *Tx, collection string, pred func(T) bool) ([]T, error) {
	out := make([]T, 0, len(tx.doc[collection]))
	for _, raw := range tx.doc[collection] {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", collection, err)
		}
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Find returns the first record of collection that satisfies pred.
func Find[T any](tx *Tx, collection string, pred func(T) bool) (T, bool, error) {
	var zero T
	for _, raw := range tx.doc[collection] {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return zero, false, fmt.Errorf("failed to decode %s record: %w", collection, err)
		}
		if pred(rec) {
			return rec, true, nil
		}
	}
	return zero, false, nil
}

// Get returns the record with the given id or ErrNotFound.
func Get[T any](tx *Tx, collection string, id int) (T, error) {
	var rec T
	i, err := tx.indexOf(collection, id)
	if err != nil {
		return rec, err
	}
	if i < 0 {
		return rec, fmt.Errorf("%s %d: %w", collection, id, ErrNotFound)
	}
	if err := json.Unmarshal(tx.doc[collection][i], &rec); err != nil {
		return rec, fmt.Errorf("failed to decode %s record: %w", collection, err)
	}
	return rec, nil
}

// Insert appends rec to collection under a freshly assigned id and returns
// the stored record. Any id already set on rec is overwritten.
func Insert[T any](tx *Tx, collection string, rec T) (T, error) {
	var out T
	if !tx.writable {
		return out, ErrReadOnly
	}
	id, err := tx.NextID(collection)
	if err != nil {
		return out, err
	}
	m, err := toMap(rec)
	if err != nil {
		return out, fmt.Errorf("failed to encode %s record: %w", collection, err)
	}
	m["id"] = id

	raw, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("failed to encode %s record: %w", collection, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s record: %w", collection, err)
	}

	if err := tx.set(collection, append(tx.doc[collection], raw)); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Patch shallow-merges patch into the record with the given id. The id itself
// cannot be changed.
func Patch[T any](tx *Tx, collection string, id int, patch map[string]any) (T, error) {
	var out T
	if !tx.writable {
		return out, ErrReadOnly
	}
	i, err := tx.indexOf(collection, id)
	if err != nil {
		return out, err
	}
	if i < 0 {
		return out, fmt.Errorf("%s %d: %w", collection, id, ErrNotFound)
	}

	m, err := rawToMap(tx.doc[collection][i])
	if err != nil {
		return out, fmt.Errorf("failed to decode %s record: %w", collection, err)
	}
	for k, v := range patch {
		m[k] = v
	}
	m["id"] = id

	raw, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("failed to encode %s record: %w", collection, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("patch does not fit %s record: %w", collection, err)
	}

	tx.doc[collection][i] = raw
	tx.dirty = true
	return out, nil
}

// Replace stores rec in place of the record with the given id.
func Replace[T any](tx *Tx, collection string, id int, rec T) (T, error) {
	m, err := toMap(rec)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to encode %s record: %w", collection, err)
	}
	return Patch[T](tx, collection, id, m)
}

// Delete removes the record with the given id.
func Delete(tx *Tx, collection string, id int) error {
	i, err := tx.indexOf(collection, id)
	if err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("%s %d: %w", collection, id, ErrNotFound)
	}
	old := tx.doc[collection]
	records := make([]json.RawMessage, 0, len(old)-1)
	records = append(records, old[:i]...)
	records = append(records, old[i+1:]...)
	return tx.set(collection, records)
}

// DeleteWhere removes every record that satisfies pred and returns how many
// were removed.
func DeleteWhere[T any](tx *Tx, collection string, pred func(T) bool) (int, error) {
	old := tx.doc[collection]
	records := make([]json.RawMessage, 0, len(old))
	removed := 0
	for _, raw := range old {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return 0, fmt.Errorf("failed to decode %s record: %w", collection, err)
		}
		if pred(rec) {
			removed++
			continue
		}
		records = append(records, raw)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, tx.set(collection, records)
}
