package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandocs/internal/parser"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"uppercase tag", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parser.StripCodeFences(tc.in))
		})
	}
}

func TestDecodeFields_UnknownKeysIgnored(t *testing.T) {
	fields, err := parser.DecodeFields(`{"company_name": "Acme", "hallucinated_key": true}`)
	require.NoError(t, err)
	assert.Equal(t, "Acme", *fields.CompanyName)
	assert.Nil(t, fields.Revenue)
}

func TestDecodeFields_NumberAsStringField(t *testing.T) {
	// A numeric business number still lands as its string literal.
	fields, err := parser.DecodeFields(`{"business_number": 1234567890}`)
	require.NoError(t, err)
	require.NotNil(t, fields.BusinessNumber)
	assert.Equal(t, "1234567890", *fields.BusinessNumber)
}

func TestDecodeFields_EmptyStringBecomesNil(t *testing.T) {
	fields, err := parser.DecodeFields(`{"company_name": "  ", "address": ""}`)
	require.NoError(t, err)
	assert.Nil(t, fields.CompanyName)
	assert.Nil(t, fields.Address)
}

func TestDecodeFields_FractionalNumbers(t *testing.T) {
	fields, err := parser.DecodeFields(`{"revenue": 1234.56, "employee_count": 12.9}`)
	require.NoError(t, err)
	assert.Equal(t, 1234.56, *fields.Revenue)
	// Employee count truncates toward zero.
	assert.Equal(t, 12, *fields.EmployeeCount)
}

func TestDecodeFields_EmptyContent(t *testing.T) {
	_, err := parser.DecodeFields("   ")
	assert.ErrorIs(t, err, parser.ErrEmptyResponse)
}

func TestDecodeFields_NotAnObject(t *testing.T) {
	_, err := parser.DecodeFields(`["a", "b"]`)

	var malErr *parser.MalformedResponseError
	assert.ErrorAs(t, err, &malErr)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, parser.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, parser.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 42, parser.ParseRetryAfterHeader("42"))
}
