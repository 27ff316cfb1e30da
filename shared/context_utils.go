package shared

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultPageSize is the page size of cursor paginated list endpoints.
const DefaultPageSize = 25

func SetProject(ctx Context, project models.Project) {
	ctx.Set("project", project)
}

func GetProject(ctx Context) models.Project {
	return ctx.Get("project").(models.Project)
}

func HasProject(ctx Context) bool {
	_, ok := ctx.Get("project").(models.Project)
	return ok
}

func GetParam(ctx Context, param string) string {
	v := ctx.Param(param)
	if v == "" {
		fallback := ctx.Get(param)
		if fallback == nil {
			return ""
		}
		return fallback.(string)
	}
	return v
}

// PageCursor points at a single row of a (created_at, id) ordered listing.
// Reverse flips the scan direction, which is how "previous" links work.
type PageCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        uuid.UUID `json:"id"`
	Reverse   bool      `json:"reverse,omitempty"`
}

func EncodeCursor(cursor PageCursor) string {
	raw, _ := json.Marshal(cursor)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func DecodeCursor(s string) (PageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return PageCursor{}, errors.Wrap(err, "could not decode cursor")
	}

	var cursor PageCursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return PageCursor{}, errors.Wrap(err, "could not unmarshal cursor")
	}
	return cursor, nil
}

// GetCursor reads the cursor query param. A missing param is not an error,
// it just means the first page.
func GetCursor(ctx Context) (*PageCursor, error) {
	raw := ctx.QueryParam("cursor")
	if raw == "" {
		return nil, nil
	}

	cursor, err := DecodeCursor(raw)
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}

type CursorPage[T any] struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// CursorsForPage derives the next and previous cursors for a page of rows.
// The rows must be in display order and hasMore tells whether the query in
// scan direction found more rows beyond the page.
func CursorsForPage[T any](items []T, requestCursor *PageCursor, hasMore bool, cursorOf func(T) PageCursor) (next *PageCursor, previous *PageCursor) {
	if len(items) == 0 {
		return nil, nil
	}

	first := cursorOf(items[0])
	first.Reverse = true
	last := cursorOf(items[len(items)-1])
	last.Reverse = false

	switch {
	case requestCursor == nil:
		// first page - there is nothing before it
		if hasMore {
			next = &last
		}
	case requestCursor.Reverse:
		next = &last
		if hasMore {
			previous = &first
		}
	default:
		previous = &first
		if hasMore {
			next = &last
		}
	}
	return next, previous
}

// NewCursorPage builds the paginated response envelope. Cursors are rendered
// as urls of the current request with the cursor query param swapped out.
func NewCursorPage[T any](ctx Context, results []T, next *PageCursor, previous *PageCursor) CursorPage[T] {
	page := CursorPage[T]{
		Results: results,
	}
	if page.Results == nil {
		page.Results = []T{}
	}

	if next != nil {
		page.Next = utils.Ptr(cursorURL(ctx, *next))
	}
	if previous != nil {
		page.Previous = utils.Ptr(cursorURL(ctx, *previous))
	}
	return page
}

func cursorURL(ctx Context, cursor PageCursor) string {
	request := ctx.Request()

	query := request.URL.Query()
	query.Set("cursor", EncodeCursor(cursor))

	if request.Host == "" {
		return request.URL.Path + "?" + query.Encode()
	}
	return ctx.Scheme() + "://" + request.Host + request.URL.Path + "?" + query.Encode()
}
