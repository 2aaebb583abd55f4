package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandWith(t *testing.T) {
	vars := map[string]string{"FOO": "bar", "A": "1", "B": "2", "X": "x", "DSN": "postgres://u:p@db/reviews"}
	lookup := func(key string) string { return vars[key] }
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "no expressions", input: "just a plain string", expect: "just a plain string"},
		{name: "single", input: "value is ${env.FOO}", expect: "value is bar"},
		{name: "multiple", input: "${env.A}-${env.B}-${env.A}", expect: "1-2-1"},
		{name: "unset", input: "unset=${env.NOTSET}-end", expect: "unset=-end"},
		{name: "invalid key rescans", input: "start ${env.X and ${env.B} end", expect: "start ${env.X and 2 end"},
		{name: "missing brace", input: "tail ${env.FOO", expect: "tail ${env.FOO"},
		{name: "empty key", input: "oops ${env.} done", expect: "oops  done"},
		{name: "yaml value", input: "dsn: ${env.DSN}\n", expect: "dsn: postgres://u:p@db/reviews\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ExpandWith(tc.input, lookup))
		})
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("REVIEWFLOW_TEST_VALUE", "ok")
	assert.Equal(t, "value=ok", Expand("value=${env.REVIEWFLOW_TEST_VALUE}"))
}
