package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestQuery_ZeroMatchesEverything(t *testing.T) {
	require.Equal(t, bson.M{}, NewQuery().Build())
}

func TestQuery_MergesIndependentConstraints(t *testing.T) {
	q := NewQuery().
		Eq("status", "PUBLISHED").
		Eq("category", "abc").
		Search("term", "title", "body")

	filter := q.Build()
	require.Equal(t, "PUBLISHED", filter["status"])
	require.Equal(t, "abc", filter["category"])
	require.Equal(t, bson.A{
		bson.M{"title": bson.M{"$regex": "term", "$options": "i"}},
		bson.M{"body": bson.M{"$regex": "term", "$options": "i"}},
	}, filter["$or"])
}

func TestQuery_OrGroupSurvivesSearch(t *testing.T) {
	member := bson.NewObjectID()
	filter := NewQuery().
		Or(bson.M{"members": member}, bson.M{"company": member}).
		Search("term", "title", "body").
		Build()

	require.NotContains(t, filter, "$or")
	and := filter["$and"].(bson.A)
	require.Len(t, and, 2)
	require.Equal(t, bson.A{
		bson.M{"members": member},
		bson.M{"company": member},
	}, and[0].(bson.M)["$or"])
	require.Equal(t, bson.A{
		bson.M{"title": bson.M{"$regex": "term", "$options": "i"}},
		bson.M{"body": bson.M{"$regex": "term", "$options": "i"}},
	}, and[1].(bson.M)["$or"])
}

func TestQuery_SearchThenOr(t *testing.T) {
	filter := NewQuery().
		Search("term", "title").
		Or(bson.M{"members": "u1"}).
		Build()

	require.NotContains(t, filter, "$or")
	and := filter["$and"].(bson.A)
	require.Len(t, and, 2)
}

func TestQuery_SearchQuotesRegexMetacharacters(t *testing.T) {
	filter := NewQuery().Search("a.b*c", "name").Build()
	or := filter["$or"].(bson.A)
	require.Len(t, or, 1)
	clause := or[0].(bson.M)["name"].(bson.M)
	require.Equal(t, `a\.b\*c`, clause["$regex"])
	require.Equal(t, "i", clause["$options"])
}

func TestQuery_CreatedOnSpansLocalDay(t *testing.T) {
	at := time.Date(2024, 3, 15, 13, 45, 12, 0, time.Local)
	filter := NewQuery().CreatedOn(at).Build()

	window := filter["created_at"].(bson.M)
	start := window["$gte"].(time.Time)
	end := window["$lte"].(time.Time)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), start)
	require.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999000000, time.Local), end)
}

func TestQuery_CreatedOnMidnightBoundary(t *testing.T) {
	at := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	filter := NewQuery().CreatedOn(at).Build()

	window := filter["created_at"].(bson.M)
	require.Equal(t, at, window["$gte"])
}

func TestQuery_MatchNothing(t *testing.T) {
	filter := NewQuery().Eq("status", "PUBLISHED").MatchNothing().Build()
	require.Equal(t, bson.M{"_id": bson.M{"$exists": false}}, filter)
}

func TestQuery_InAndNotIn(t *testing.T) {
	filter := NewQuery().
		In("account", []string{"ADMIN"}).
		NotIn("email", []string{"a@b.c"}).
		Build()
	require.Equal(t, bson.M{"$in": []string{"ADMIN"}}, filter["account"])
	require.Equal(t, bson.M{"$nin": []string{"a@b.c"}}, filter["email"])
}

func TestListOptions_Sort(t *testing.T) {
	require.Equal(t, bson.D{{Key: "created_at", Value: -1}}, ListOptions{}.Sort())
	require.Equal(t, bson.D{{Key: "title", Value: 1}}, ListOptions{SortField: "title"}.Sort())
}
