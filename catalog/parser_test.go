package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVParserParse(t *testing.T) {
	p := NewCSVParser()

	product, err := p.Parse(`42, Apple , fruit,"Crisp, red",1.25`)
	require.NoError(t, err)
	assert.Equal(t, Product{ID: "42", Name: "Apple", Category: "fruit", Description: "Crisp, red", Price: 1.25}, product)

	product, err = p.Parse("7,Salt,spice,,0")
	require.NoError(t, err)
	assert.Empty(t, product.Description)
}

func TestCSVParserRejects(t *testing.T) {
	p := NewCSVParser()

	cases := map[string]string{
		"1,Apple,fruit,1.25":       "expected 5 columns",
		"1,Apple,fruit,desc,cheap": `invalid price "cheap"`,
		"1,Apple,fruit,desc,NaN":   `invalid price "NaN"`,
		",Apple,fruit,desc,1":      "id is required",
		"1,Apple,,desc,1":          "category is required",
		"1,Apple,fruit,desc,-3":    "price must satisfy gte=0",
		`1,"Apple,fruit,desc,1`:    "malformed line",
	}
	for line, want := range cases {
		_, err := p.Parse(line)
		require.Error(t, err, line)
		assert.Contains(t, err.Error(), want, line)
	}
}

func TestIsHeader(t *testing.T) {
	assert.True(t, IsHeader("id,name,category,description,price"))
	assert.True(t, IsHeader("  ID,Name,Category,Description,Price"))
	assert.False(t, IsHeader("1,Apple,fruit,desc,1"))
}
