package validation

import (
	"strings"
	"testing"
	"time"

	"yamdb/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,max=150,username,notme"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

type title struct {
	Name   string   `json:"name" validate:"required,max=256"`
	Year   int      `json:"year" validate:"pastyear"`
	Genres []string `json:"genre" validate:"required,min=1,dive,slug"`
	Score  int      `json:"score" validate:"gte=1,lte=10"`
	Role   string   `json:"role" validate:"omitempty,role"`
}

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC) }
}

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var e *entity.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, entity.KindValidation, e.Kind)
	return e.Fields
}

func TestSignup_Valid(t *testing.T) {
	v := New(nil)
	assert.NoError(t, v.Struct(signup{Username: "alice", Email: "a@x.com"}))
	assert.NoError(t, v.Struct(signup{Username: "al.ice+1@home-x_y", Email: "a@x.com"}))
	assert.NoError(t, v.Struct(signup{Username: "Алиса", Email: "a@x.com"}))
}

func TestSignup_ReservedUsernameAnyCase(t *testing.T) {
	v := New(nil)
	for _, name := range []string{"me", "Me", "mE", "ME"} {
		for _, email := range []string{"a@x.com", "not-an-email", ""} {
			f := fields(t, v.Struct(signup{Username: name, Email: email}))
			assert.Contains(t, f, "username", "username=%q email=%q", name, email)
		}
	}
}

func TestSignup_FieldRules(t *testing.T) {
	v := New(nil)

	f := fields(t, v.Struct(signup{Username: "bad name!", Email: "nope"}))
	assert.Contains(t, f, "username")
	assert.Equal(t, []string{"Enter a valid email address."}, f["email"])

	f = fields(t, v.Struct(signup{Username: strings.Repeat("a", UsernameMaxLength+1), Email: "a@x.com"}))
	assert.Equal(t, []string{"Ensure this field has no more than 150 characters."}, f["username"])

	f = fields(t, v.Struct(signup{}))
	assert.Equal(t, []string{"This field is required."}, f["username"])
	assert.Equal(t, []string{"This field is required."}, f["email"])
}

func TestYear_ReevaluatedPerCall(t *testing.T) {
	year := 2025
	v := New(func() time.Time { return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC) })
	in := title{Name: "Film", Year: 2026, Genres: []string{"drama"}, Score: 5}

	f := fields(t, v.Struct(in))
	assert.Equal(t, []string{"Year cannot be later than the current year."}, f["year"])

	year = 2026
	assert.NoError(t, v.Struct(in))
}

func TestYear_CurrentAndNext(t *testing.T) {
	v := New(fixedClock(2026))

	assert.NoError(t, v.Struct(title{Name: "Now", Year: 2026, Genres: []string{"drama"}, Score: 1}))
	fields(t, v.Struct(title{Name: "Later", Year: 2027, Genres: []string{"drama"}, Score: 1}))
}

func TestTitle_GenresAndScore(t *testing.T) {
	v := New(fixedClock(2026))

	f := fields(t, v.Struct(title{Name: "X", Year: 2000, Genres: []string{}, Score: 0}))
	assert.Equal(t, []string{"This list may not be empty."}, f["genre"])
	assert.Equal(t, []string{"Score must be between 1 and 10."}, f["score"])

	f = fields(t, v.Struct(title{Name: "X", Year: 2000, Genres: []string{"not a slug"}, Score: 11}))
	assert.Contains(t, f, "genre[0]")
	assert.Contains(t, f, "score")
}

func TestRole(t *testing.T) {
	v := New(nil)
	base := title{Name: "X", Year: 2000, Genres: []string{"a"}, Score: 3}

	base.Role = "moderator"
	assert.NoError(t, v.Struct(base))

	base.Role = "root"
	f := fields(t, v.Struct(base))
	assert.Contains(t, f, "role")
}

func TestVar(t *testing.T) {
	v := New(nil)

	assert.NoError(t, v.Var("slug", "sci-fi", "required,max=50,slug"))

	f := fields(t, v.Var("slug", "sci fi", "required,max=50,slug"))
	assert.Contains(t, f, "slug")
}
