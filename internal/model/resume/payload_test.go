package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Skills(t *testing.T) {
	p := Parse([]byte(`{"name":"Ada","skills":["Python","SQL",3]}`))
	assert.Equal(t, []string{"Python", "SQL", "3"}, p.Skills())
}

func TestParse_MissingFields(t *testing.T) {
	p := Parse([]byte(`{"name":"Ada"}`))
	assert.Nil(t, p.Skills())
	assert.Empty(t, p.Detail())
	assert.Empty(t, p.Text())

	_, ok := p.Recommendations()
	assert.False(t, ok)
}

func TestParse_NonObjectBody(t *testing.T) {
	p := Parse([]byte(`["Python"]`))
	assert.Nil(t, p.Skills())
}

func TestPayload_Detail(t *testing.T) {
	assert.Equal(t, "bad file", Parse([]byte(`{"detail":"bad file"}`)).Detail())
	assert.Equal(t, `[{"loc":["body","file"],"msg":"field required"}]`,
		Parse([]byte(`{"detail":[{"loc":["body","file"],"msg":"field required"}]}`)).Detail())
	assert.Empty(t, Parse([]byte(`{"detail":null}`)).Detail())
}

func TestPayload_Recommendations(t *testing.T) {
	p := Parse([]byte(`{"recommendations":[{"title":"Data Engineer","link":"https://jobs.example.com/1","reason":"SQL"},{"reason":"Python"}]}`))
	recs, ok := p.Recommendations()
	require.True(t, ok)
	require.Len(t, recs, 2)
	assert.Equal(t, "Data Engineer", recs[0].DisplayTitle())
	assert.Equal(t, "https://jobs.example.com/1", recs[0].Link)
	assert.Equal(t, "Role", recs[1].DisplayTitle())
	assert.Equal(t, "Python", recs[1].Reason)
}

func TestPayload_MalformedRecommendations(t *testing.T) {
	_, ok := Parse([]byte(`{"recommendations":"none"}`)).Recommendations()
	assert.False(t, ok)
}

func TestIndentKeepsKeyOrder(t *testing.T) {
	out := Indent([]byte(`{"z":1,"a":[1,2]}`))
	assert.Equal(t, "{\n  \"z\": 1,\n  \"a\": [\n    1,\n    2\n  ]\n}", out)
}

func TestCompact(t *testing.T) {
	assert.Equal(t, `{"a":1,"b":"x"}`, Compact([]byte("{ \"a\": 1,\n \"b\": \"x\" }")))
}
