package readmodel

// Page is one slice of a paginated query. Cursor is the offset of the first
// item in Content; More is set while items remain past this page.
type Page[T any] struct {
	Cursor  int  `json:"cursor"`
	More    bool `json:"more"`
	Content []T  `json:"content"`
}

// Window selects a page. A nil Take returns every matching item and ignores
// Cursor.
type Window struct {
	Cursor int
	Take   *int
}

// Limit returns the SQL LIMIT and OFFSET for the window. A limit of -1 means
// no limit.
func (w Window) Limit() (limit, offset int) {
	if w.Take == nil {
		return -1, 0
	}
	take := *w.Take
	if take < 0 {
		take = 0
	}
	cursor := w.Cursor
	if cursor < 0 {
		cursor = 0
	}
	return take, cursor
}

// NewPage assembles a page from the rows of one window and the total number
// of rows matching the same filter.
func NewPage[T any](w Window, content []T, total int) Page[T] {
	if content == nil {
		content = []T{}
	}
	_, offset := w.Limit()
	return Page[T]{
		Cursor:  offset,
		More:    offset+len(content) < total,
		Content: content,
	}
}

// Take returns a pointer to n, for building a Window inline.
func Take(n int) *int {
	return &n
}
