package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,handle"`
	Password string `json:"password" validate:"required,pwd"`
	Body     string `json:"body" validate:"required,notblank"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestDetailsUseJSONNames(t *testing.T) {
	err := newValidator().Struct(signup{Username: "a!", Password: "short", Body: "   "})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be 3 to 32 letters or digits", details["username"])
	assert.Equal(t, "must be between 8 and 72 characters long", details["password"])
	assert.Equal(t, "must not be blank", details["body"])
}

func TestValidPayloadPasses(t *testing.T) {
	err := newValidator().Struct(signup{Username: "alice42", Password: "correct horse", Body: "hello"})
	assert.NoError(t, err)
}

func TestToDetailsNil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
