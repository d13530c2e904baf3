package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringifyJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace dropped", "{ \"a\" : [ 1 , 2 ] }\n", `{"a":[1,2]}`},
		{"key order kept", `{"z":1,"a":2,"m":3}`, `{"z":1,"a":2,"m":3}`},
		{"unicode escapes decoded", `{"b":"\u00e9"}`, `{"b":"é"}`},
		{"html characters unescaped", `{"d":"<&>"}`, `{"d":"<&>"}`},
		{"required escapes kept", `["a\"b\\c\n"]`, `["a\"b\\c\n"]`},
		{"trailing zeros", `[1.0,2.50,-0]`, `[1,2.5,0]`},
		{"exponent forms", `[1e21,1E-7,1e20,1e-6]`, `[1e+21,1e-7,100000000000000000000,0.000001]`},
		{"large integer rounds to double", `12345678901234567890`, `12345678901234567000`},
		{"empty containers", `{"o":{},"a":[]}`, `{"o":{},"a":[]}`},
		{"literals", `[true,false,null]`, `[true,false,null]`},
		{"top-level string", `"hi"`, `"hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringifyJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestStringifyJSON_Invalid(t *testing.T) {
	for _, in := range []string{`{"a":`, `{"a":1} x`, `[1,]`, ``} {
		_, err := StringifyJSON([]byte(in))
		assert.Error(t, err, in)
	}
}
