package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/export"
	"github.com/jonesrussell/mcqer/internal/logger"
)

type memorySource struct {
	byCategory map[string][]domain.Question
	order      []string
	err        error
}

func (m *memorySource) DistinctCategories(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *memorySource) ListByCategory(_ context.Context, category string) ([]domain.Question, error) {
	return m.byCategory[category], nil
}

func TestFormatCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    domain.Question
		want string
		ok   bool
	}{
		{
			name: "two options",
			q:    domain.Question{QuestionText: "Is it?", Option1: "Yes", Option2: "No", CorrectOption: 2},
			want: "Is it?<br><ol type=\"a\"><li>Yes</li><li>No</li></ol>\tb. No\n",
			ok:   true,
		},
		{
			name: "five options",
			q: domain.Question{
				QuestionText: "Pick", Option1: "1", Option2: "2", Option3: "3", Option4: "4", Option5: "5",
				CorrectOption: 5,
			},
			want: "Pick<br><ol type=\"a\"><li>1</li><li>2</li><li>3</li><li>4</li><li>5</li></ol>\te. 5\n",
			ok:   true,
		},
		{
			name: "control characters flattened",
			q:    domain.Question{QuestionText: "a\r\nb\tc", Option1: "x\ny", Option2: "z", CorrectOption: 1},
			want: "a  b c<br><ol type=\"a\"><li>x y</li><li>z</li></ol>\ta. x y\n",
			ok:   true,
		},
		{
			name: "empty second option kept",
			q:    domain.Question{QuestionText: "q", Option1: "only", Option3: "third", CorrectOption: 3},
			want: "q<br><ol type=\"a\"><li>only</li><li></li><li>third</li></ol>\tc. third\n",
			ok:   true,
		},
		{name: "empty question", q: domain.Question{Option1: "a", Option2: "b", CorrectOption: 1}},
		{name: "no correct option", q: domain.Question{QuestionText: "q", Option1: "a", Option2: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := export.FormatCard(tt.q)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExport_WritesOneFilePerCategory(t *testing.T) {
	t.Parallel()

	src := &memorySource{
		order: []string{"surveying", "tunnelling"},
		byCategory: map[string][]domain.Question{
			"surveying": {
				{QuestionText: "S1", Option1: "a", Option2: "b", CorrectOption: 1},
				{QuestionText: "", Option1: "a", Option2: "b", CorrectOption: 1},
			},
			"tunnelling": {
				{QuestionText: "T1", Option1: "a", Option2: "b", Option3: "c", CorrectOption: 3},
			},
		},
	}

	var notes []string
	exp := export.New(src, logger.NewNop(), func(msg string) { notes = append(notes, msg) })

	dir := t.TempDir()
	// A stale file is replaced, not appended to.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "surveying.txt"), []byte("stale"), 0o600))

	n, err := exp.Export(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	surveying, err := os.ReadFile(filepath.Join(dir, "surveying.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"#separator:tab\n#html:true\n\nS1<br><ol type=\"a\"><li>a</li><li>b</li></ol>\ta. a\n",
		string(surveying))

	tunnelling, err := os.ReadFile(filepath.Join(dir, "tunnelling.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(tunnelling), "\tc. c\n")

	assert.Equal(t, []string{
		"Completed creating flashcards for surveying",
		"Completed creating flashcards for tunnelling",
	}, notes)
}

func TestExport_SkipsUnsafeCategoryNames(t *testing.T) {
	t.Parallel()

	src := &memorySource{
		order: []string{"../escape", "ok"},
		byCategory: map[string][]domain.Question{
			"ok": {{QuestionText: "q", Option1: "a", Option2: "b", CorrectOption: 2}},
		},
	}

	dir := t.TempDir()
	n, err := export.New(src, nil, nil).Export(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_SourceError(t *testing.T) {
	t.Parallel()

	src := &memorySource{err: errors.New("db closed")}

	n, err := export.New(src, nil, nil).Export(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Zero(t, n)
}
