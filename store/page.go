package store

// CursorOffset returns the index just past the cursor id within an already
// ordered id list, or 0 for an empty cursor. An unknown cursor is a caller
// error.
func CursorOffset(ids []string, after string) (int, error) {
	if after == "" {
		return 0, nil
	}
	for i, id := range ids {
		if id == after {
			return i + 1, nil
		}
	}
	return 0, &NotFoundError{Kind: "cursor", ID: after}
}

// Window slices [start, start+limit) out of list and reports whether more
// entries follow. A non-positive limit applies the default page size.
func Window[T any](list []T, start, limit int) ([]T, bool) {
	if limit <= 0 {
		limit = ThreadPageSize
	}
	if start >= len(list) {
		return nil, false
	}
	end := min(start+limit, len(list))
	return list[start:end], end < len(list)
}
