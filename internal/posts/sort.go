package posts

import (
	"fmt"
	"slices"
	"time"

	"github.com/jonesrussell/blog-generator/internal/storage"
)

type sortKey struct {
	doc       storage.Document
	createdAt time.Time
	hasTime   bool
}

// SortNewestFirst orders docs by created_at descending. Documents without
// created_at sort last and ties keep their original order. If any
// created_at cannot be read as a time, docs is left untouched and the
// error is returned.
func SortNewestFirst(docs []storage.Document) error {
	keys := make([]sortKey, len(docs))
	for i, doc := range docs {
		t, ok, err := createdAt(doc)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		keys[i] = sortKey{doc: doc, createdAt: t, hasTime: ok}
	}

	slices.SortStableFunc(keys, func(a, b sortKey) int {
		switch {
		case a.hasTime && !b.hasTime:
			return -1
		case !a.hasTime && b.hasTime:
			return 1
		case !a.hasTime && !b.hasTime:
			return 0
		default:
			return b.createdAt.Compare(a.createdAt)
		}
	})

	for i := range keys {
		docs[i] = keys[i].doc
	}
	return nil
}

func createdAt(doc storage.Document) (time.Time, bool, error) {
	v, ok := doc[storage.FieldCreatedAt]
	if !ok || v == nil {
		return time.Time{}, false, nil
	}

	switch val := v.(type) {
	case time.Time:
		return val, true, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, val)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parse created_at: %w", err)
		}
		return t, true, nil
	default:
		return time.Time{}, false, fmt.Errorf("unsupported created_at type %T", v)
	}
}
