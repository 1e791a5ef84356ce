package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query string keys recognized by listing endpoints.
const (
	QueryKeyTopic  = "topic"
	QueryKeySortBy = "sort_by"
	QueryKeyOrder  = "order"
	QueryKeyLimit  = "limit"
	QueryKeyPage   = "p"
)

// Listing defaults.
const (
	DefaultLimit = 10
	DefaultPage  = 1
)

// SortColumn is a column an article listing may be ordered by.
type SortColumn string

const (
	SortByCreatedAt SortColumn = "created_at"
	SortByVotes     SortColumn = "votes"
	SortByTitle     SortColumn = "title"
	SortByTopic     SortColumn = "topic"
	SortByAuthor    SortColumn = "author"
)

// IsValid reports whether c is one of the sortable columns.
func (c SortColumn) IsValid() bool {
	switch c {
	case SortByCreatedAt, SortByVotes, SortByTitle, SortByTopic, SortByAuthor:
		return true
	default:
		return false
	}
}

// SortOrder is the direction of a listing.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// IsValid reports whether o is asc or desc. The match is case-sensitive.
func (o SortOrder) IsValid() bool {
	return o == OrderAsc || o == OrderDesc
}

// SQL returns the direction keyword for an ORDER BY clause.
func (o SortOrder) SQL() string {
	if o == OrderAsc {
		return "ASC"
	}
	return "DESC"
}

// KeySet is the set of query string keys an endpoint accepts.
type KeySet map[string]struct{}

// NewKeySet builds a KeySet from keys.
func NewKeySet(keys ...string) KeySet {
	ks := make(KeySet, len(keys))
	for _, k := range keys {
		ks[k] = struct{}{}
	}
	return ks
}

// Contains reports whether key is in the set.
func (ks KeySet) Contains(key string) bool {
	_, ok := ks[key]
	return ok
}

var (
	// ArticleListKeys are the keys accepted by the article listing.
	ArticleListKeys = NewKeySet(QueryKeyTopic, QueryKeySortBy, QueryKeyOrder, QueryKeyLimit, QueryKeyPage)

	// CommentListKeys are the keys accepted by the comment listing.
	CommentListKeys = NewKeySet(QueryKeyLimit, QueryKeyPage)
)

// ListQuery is the validated shape of a listing request. It is only produced
// by ValidateListQuery.
type ListQuery struct {
	Topic  *string
	SortBy SortColumn
	Order  SortOrder
	Limit  int
	Page   int
}

// DefaultListQuery returns the query used when no parameters are supplied.
func DefaultListQuery() ListQuery {
	return ListQuery{
		SortBy: SortByCreatedAt,
		Order:  OrderDesc,
		Limit:  DefaultLimit,
		Page:   DefaultPage,
	}
}

// ValidateListQuery checks raw against allowed and the per-key value rules.
//
// Checks run in a fixed order and the first violation wins: unknown keys,
// then sort_by, order, limit and p. When a key repeats its first value is
// used.
func ValidateListQuery(raw url.Values, allowed KeySet) (ListQuery, error) {
	for key := range raw {
		if !allowed.Contains(key) {
			return ListQuery{}, NewError(KindInvalidQueryShape)
		}
	}

	q := DefaultListQuery()

	if v, ok := first(raw, QueryKeySortBy); ok {
		col := SortColumn(v)
		if !col.IsValid() {
			return ListQuery{}, NewError(KindInvalidSortColumn)
		}
		q.SortBy = col
	}

	if v, ok := first(raw, QueryKeyOrder); ok {
		order := SortOrder(v)
		if !order.IsValid() {
			return ListQuery{}, NewError(KindInvalidOrder)
		}
		q.Order = order
	}

	if v, ok := first(raw, QueryKeyLimit); ok {
		n, ok := parsePositiveInt(v)
		if !ok {
			return ListQuery{}, NewError(KindInvalidLimit)
		}
		q.Limit = n
	}

	if v, ok := first(raw, QueryKeyPage); ok {
		n, ok := parsePositiveInt(v)
		if !ok {
			return ListQuery{}, NewError(KindInvalidPage)
		}
		q.Page = n
	}

	if v, ok := first(raw, QueryKeyTopic); ok {
		q.Topic = &v
	}

	return q, nil
}

func first(raw url.Values, key string) (string, bool) {
	vs, ok := raw[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// parsePositiveInt reads the leading integer of s: optional whitespace, an
// optional sign and at least one digit. Anything after the digits is
// ignored, so "5abc" yields 5. The result must be >= 1.
func parsePositiveInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Plan is the storage window and ordering derived from a ListQuery.
type Plan struct {
	Offset         int
	Limit          int
	OrderColumn    SortColumn
	OrderDirection SortOrder
}

// Plan computes the row window for q. Offset is (Page-1)*Limit, saturating
// at math.MaxInt.
func (q ListQuery) Plan() Plan {
	limit, page := q.Limit, q.Page
	if limit < 1 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = DefaultPage
	}

	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}

	return Plan{
		Offset:         offset,
		Limit:          limit,
		OrderColumn:    q.SortBy,
		OrderDirection: q.Order,
	}
}

// Page is one window of a listing plus the number of rows matching the
// filter regardless of the window.
type Page[T any] struct {
	Items      []T
	TotalCount int64
}

// EmptyPage returns a page with no items and a zero total.
func EmptyPage[T any]() Page[T] {
	return Page[T]{Items: []T{}, TotalCount: 0}
}

// ExistenceRef names a row to look for: a table, its key column and a value.
type ExistenceRef struct {
	Table  string
	Column string
	Value  any
}

// ArticleRef references an article by id.
func ArticleRef(id int64) ExistenceRef {
	return ExistenceRef{Table: "articles", Column: "article_id", Value: id}
}

func CommentRef(id int64) ExistenceRef {
	return ExistenceRef{Table: "comments", Column: "comment_id", Value: id}
}

func TopicRef(slug string) ExistenceRef {
	return ExistenceRef{Table: "topics", Column: "slug", Value: slug}
}

func UserRef(username string) ExistenceRef {
	return ExistenceRef{Table: "users", Column: "username", Value: username}
}
