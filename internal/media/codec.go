package media

import (
	"encoding/json"
	"fmt"
)

// Encode serializes an item for storage. The kind is not part of the payload;
// callers keep it alongside.
func Encode(it Item) ([]byte, error) {
	switch v := it.(type) {
	case Movie:
		return json.Marshal(v)
	case Series:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("encode: unknown item type %T", it)
	}
}

// Decode restores an item previously produced by Encode.
func Decode(kind Kind, data []byte) (Item, error) {
	switch kind {
	case KindMovie:
		var m Movie
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode movie: %w", err)
		}
		return m, nil
	case KindSeries:
		var s Series
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode series: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("decode: unknown kind %q", kind)
	}
}
