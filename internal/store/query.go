package store

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Query accumulates optional filter constraints and builds a single
// conjunctive bson filter. Constraints that were never added contribute
// nothing, so a zero Query matches every document.
type Query struct {
	filter  bson.M
	nothing bool
}

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return &Query{filter: bson.M{}}
}

// Eq constrains field to an exact value.
func (q *Query) Eq(field string, value any) *Query {
	q.filter[field] = value
	return q
}

// In constrains field to any of the given values.
func (q *Query) In(field string, values any) *Query {
	q.filter[field] = bson.M{"$in": values}
	return q
}

// NotIn excludes documents whose field matches any of the given values.
func (q *Query) NotIn(field string, values any) *Query {
	q.filter[field] = bson.M{"$nin": values}
	return q
}

// Or constrains documents to satisfy at least one of the given clauses.
// Each call contributes its own independent constraint, so Or groups and
// Search still combine conjunctively with each other.
func (q *Query) Or(clauses ...bson.M) *Query {
	group := make(bson.A, 0, len(clauses))
	for _, c := range clauses {
		group = append(group, c)
	}
	return q.anyOf(group)
}

// Search adds a case-insensitive substring match over the given fields,
// satisfied when any single field matches. The term is treated literally.
func (q *Query) Search(term string, fields ...string) *Query {
	clauses := make(bson.A, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, bson.M{f: bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}})
	}
	return q.anyOf(clauses)
}

// anyOf records one disjunctive group. A single group lives at $or; from
// the second group on, all groups move under $and so none replaces another.
func (q *Query) anyOf(group bson.A) *Query {
	if prior, ok := q.filter["$or"]; ok {
		delete(q.filter, "$or")
		and, _ := q.filter["$and"].(bson.A)
		q.filter["$and"] = append(and, bson.M{"$or": prior}, bson.M{"$or": group})
		return q
	}
	if and, ok := q.filter["$and"].(bson.A); ok {
		q.filter["$and"] = append(and, bson.M{"$or": group})
		return q
	}
	q.filter["$or"] = group
	return q
}

// CreatedOn constrains created_at to the local calendar day containing the
// given instant.
func (q *Query) CreatedOn(at time.Time) *Query {
	at = at.Local()
	start := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	q.filter["created_at"] = bson.M{"$gte": start, "$lte": end}
	return q
}

// MatchNothing turns the query into one that matches no document. Used when
// a natural-key constraint fails to resolve under strict filtering.
func (q *Query) MatchNothing() *Query {
	q.nothing = true
	return q
}

// Build returns the accumulated filter.
func (q *Query) Build() bson.M {
	if q.nothing {
		return bson.M{"_id": bson.M{"$exists": false}}
	}
	return q.filter
}

// ListOptions carries sort and pagination arguments. The zero value sorts
// newest-first with no offset or cap.
type ListOptions struct {
	// SortField sorts ascending by the named field. Empty sorts by
	// created_at descending.
	SortField string
	Skip      int64
	Limit     int64
}

// Sort returns the sort document for the options.
func (o ListOptions) Sort() bson.D {
	if o.SortField != "" {
		return bson.D{{Key: o.SortField, Value: 1}}
	}
	return bson.D{{Key: "created_at", Value: -1}}
}
