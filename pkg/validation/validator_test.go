package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `json:"email" validate:"email" msg:"E-mail is invalid."`
	Name     string `json:"name" validate:"max=10"`
	Password string `json:"password" validate:"min=5" msg:"Password too short,invalid."`
	Age      int    `json:"age" validate:"min=18"`
}

func TestMessages_Valid(t *testing.T) {
	assert.Nil(t, Messages(signup{Email: "a@b.io", Password: "secret", Age: 20}))
}

func TestMessages_CollectsAllInFieldOrder(t *testing.T) {
	got := Messages(&signup{Email: "nope", Name: "a very long name", Password: "abc", Age: 3})
	assert.Equal(t, []string{
		"E-mail is invalid.",
		"name must be at most 10 characters long",
		"Password too short,invalid.",
		"age must be at least 18",
	}, got)
}

func TestMessages_EmptyStrings(t *testing.T) {
	got := Messages(signup{Age: 18})
	assert.Equal(t, []string{"E-mail is invalid.", "Password too short,invalid."}, got)
}

func TestMessages_CountsRunes(t *testing.T) {
	assert.Nil(t, Messages(signup{Email: "a@b.io", Password: "ñññññ", Age: 18}))
}

func TestToDetails(t *testing.T) {
	assert.Nil(t, ToDetails(nil))

	var target map[string]any
	err := json.Unmarshal([]byte("{"), &target)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(&json.SyntaxError{}))

	type req struct {
		Query string `json:"query" validate:"required"`
	}
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)
	details := ToDetails(v.Struct(req{}))
	assert.Equal(t, map[string]string{"query": "is required"}, details)
}
