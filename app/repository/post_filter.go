package repository

import (
	"strings"

	"github.com/gracechapel/chapelcms/app/models"
)

// postFilter accumulates predicates with their positional arguments.
type postFilter struct {
	clauses []string
	args    []any
}

func (f *postFilter) add(clause string, args ...any) {
	f.clauses = append(f.clauses, clause)
	f.args = append(f.args, args...)
}

// where renders the clause, including the keyword, or "" when empty.
func (f *postFilter) where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

// buildPostFilter is shared by List and Count so both always agree.
func buildPostFilter(opts PostListOptions) *postFilter {
	f := &postFilter{}
	if status := strings.TrimSpace(opts.Status); status != "" && status != "all" {
		f.add("p.status = ?", status)
	}
	if category := strings.TrimSpace(opts.Category); category != "" {
		f.add("c.slug = ?", category)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		like := "%" + escapeLike(search) + "%"
		f.add("(p.title LIKE ? ESCAPE '!' OR p.excerpt LIKE ? ESCAPE '!' OR p.content LIKE ? ESCAPE '!')", like, like, like)
	}
	return f
}

// A backslash escape would need doubling under MySQL's default sql_mode but
// not in SQLite, so '!' is the escape character instead.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes s match literally inside a LIKE ... ESCAPE '!' pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var postSortColumns = map[string]string{
	"created_at":   "p.created_at",
	"createdAt":    "p.created_at",
	"updated_at":   "p.updated_at",
	"published_at": "p.published_at",
	"publishedAt":  "p.published_at",
	"title":        "p.title",
	"views":        "p.views",
	"likes":        "p.likes",
}

// postOrder whitelists the sort column and direction. The id tiebreak keeps
// pages stable when sort values repeat.
func postOrder(sortBy, sortOrder string) string {
	col, ok := postSortColumns[sortBy]
	if !ok {
		col = "p.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", p.id " + dir
}

func publishedOnly() *postFilter {
	f := &postFilter{}
	f.add("p.status = ?", models.STATUS_PUBLISHED)
	return f
}
