package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("")
	require.NoError(t, err)
	require.Nil(t, ids)

	ids, err = ParseIDList("1,2,3")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, ids)

	ids, err = ParseIDList(" 4 , 5 ")
	require.NoError(t, err)
	require.Equal(t, []int64{4, 5}, ids)

	ids, err = ParseIDList("1,,2")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, ids)

	_, err = ParseIDList("1,abc")
	require.Error(t, err)
}

func TestParseBoolParam(t *testing.T) {
	require.True(t, ParseBoolParam("1"))
	require.True(t, ParseBoolParam("true"))
	require.True(t, ParseBoolParam("True"))
	require.True(t, ParseBoolParam("yes"))

	require.False(t, ParseBoolParam(""))
	require.False(t, ParseBoolParam("0"))
	require.False(t, ParseBoolParam("false"))
	require.False(t, ParseBoolParam("no"))
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=5"`
		Name     string `validate:"max=10"`
	}

	require.Nil(t, ValidateStruct(&form{Email: "ok@example.com", Password: "secret"}))

	details := ValidateStruct(&form{Email: "not-an-email", Password: "ab", Name: "waaaaaay too long"})
	require.Equal(t, "must be a valid email address", details["email"])
	require.Equal(t, "must be at least 5", details["password"])
	require.Equal(t, "must be at most 10", details["name"])

	details = ValidateStruct(&form{})
	require.Equal(t, "this field is required", details["email"])
}
