package models

import (
	"encoding/json"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Record[Ad]   = Ad{}
	_ Record[User] = User{}
)

func TestAd_FieldsMatchJSONKeys(t *testing.T) {
	b, err := json.Marshal(AdTemplate())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	for _, f := range AdTemplate().Fields() {
		_, ok := m[f]
		assert.True(t, ok, "field %s missing from JSON", f)
		assert.Equal(t, m[f], AdTemplate().Value(f), "field %s", f)
	}
	assert.Len(t, m, len(AdTemplate().Fields()))
}

func TestAd_With(t *testing.T) {
	ad := AdTemplate()

	got, err := ad.With("title", "Warm sweater")
	require.NoError(t, err)
	assert.Equal(t, "Warm sweater", got.Title)
	assert.Equal(t, "asdf1", ad.Title, "With must not mutate the receiver")

	got, err = got.With("isGiven", "yes")
	require.NoError(t, err)
	assert.True(t, got.IsGiven)

	got, err = got.With("isGiven", "false")
	require.NoError(t, err)
	assert.False(t, got.IsGiven)

	_, err = got.With("isGiven", "maybe")
	assert.Error(t, err)

	_, err = got.With("id", "x")
	assert.ErrorIs(t, err, ErrReadOnlyField)

	_, err = got.With("colour", "red")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestAd_PhotoKey(t *testing.T) {
	tests := []struct {
		photo string
		want  string
	}{
		{photo: NoPhoto, want: ""},
		{photo: "", want: ""},
		{photo: "https://bucket.s3.amazonaws.com/8f0c.jpg", want: "8f0c.jpg"},
		{photo: "http://127.0.0.1:9000/photos/a/b/c.png?X-Amz-Signature=1", want: "c.png"},
		{photo: "plain-key.webp", want: "plain-key.webp"},
	}
	for _, tt := range tests {
		ad := Ad{Photo: tt.photo}
		assert.Equal(t, tt.want, ad.PhotoKey(), tt.photo)
		assert.Equal(t, tt.want != "", ad.HasPhoto(), tt.photo)
	}
}

func TestAd_NullPhotoDecodesAsNoPhoto(t *testing.T) {
	var ad Ad
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","photo":null}`), &ad))
	assert.False(t, ad.HasPhoto())
}

func TestUser_PasswordOmittedWhenEmpty(t *testing.T) {
	b, err := json.Marshal(User{ID: "1", Email: "a@b.c", Name: "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","email":"a@b.c","name":"A"}`, string(b))

	u, err := User{}.With("email", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Value("email"))
	assert.Nil(t, u.Value("nope"))
}

func TestRandomAd(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	seed := AdTemplate()
	seed.ID = "keep"

	got := RandomAd(seed, r)

	assert.Equal(t, "asdf2", got.Title)
	assert.Equal(t, "asdf desc2", got.Description)
	assert.Equal(t, "keep", got.ID)
	assert.True(t, slices.Contains(Genders, got.Gender))
	assert.True(t, slices.Contains(BodyParts, got.BodyPart))
	assert.True(t, slices.Contains(Types, got.Type))
}

func TestBumpSuffix(t *testing.T) {
	cases := map[string]string{
		"asdf1": "asdf2",
		"asdf9": "asdf10",
		"coat":  "coat1",
		"":      "1",
	}
	for in, want := range cases {
		assert.Equal(t, want, bumpSuffix(in), in)
	}
}

func TestOptions(t *testing.T) {
	assert.Empty(t, cmp.Diff(Genders, Options("gender")))
	assert.Empty(t, cmp.Diff(Types, Options("type")))
	assert.Nil(t, Options("title"))
}
