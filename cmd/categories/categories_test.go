package categories_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/mcqer/cmd/categories"
	"github.com/jonesrussell/mcqer/internal/database"
)

func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	categories.Render(&buf, []string{"surveying", "tunnelling"}, []database.CategoryCount{
		{Category: "surveying", Count: 12},
		{Category: "old-category", Count: 3},
	})

	out := buf.String()
	assert.Contains(t, out, "surveying")
	assert.Contains(t, out, "tunnelling")
	assert.Contains(t, out, "old-category")
	assert.Contains(t, out, "15")

	lines := strings.Split(out, "\n")
	var order []string
	for _, l := range lines {
		for _, name := range []string{"surveying", "tunnelling", "old-category"} {
			if strings.Contains(l, name) {
				order = append(order, name)
			}
		}
	}
	assert.Equal(t, []string{"surveying", "tunnelling", "old-category"}, order)
}
