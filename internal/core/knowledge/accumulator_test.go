package knowledge

import (
	"context"
	"testing"

	"recipe-manager/internal/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"creme", "brulee", "grandma's"}, Tokens("Crème Brûlée for Grandma's 2 cups"))
}

func TestAccumulatorCountsTermsAndBigrams(t *testing.T) {
	acc := NewAccumulator(0)
	acc.AddPage("Tomato Soup\nRoast the tomato slowly\n")
	acc.AddPage("Tomato Soup again")

	top := acc.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, TermCount{Term: "tomato", Count: 3}, top[0])

	bigrams := acc.TopBigrams(1)
	require.Len(t, bigrams, 1)
	assert.Equal(t, TermCount{Term: "tomato soup", Count: 2}, bigrams[0])
	assert.Equal(t, 2, acc.Pages())
}

func TestAccumulatorCapsToTopN(t *testing.T) {
	acc := NewAccumulator(2)
	acc.AddPage("alpha alpha alpha beta beta gamma")
	top := acc.Top(10)
	assert.Len(t, top, 2)
	assert.Equal(t, "alpha", top[0].Term)
	assert.Equal(t, "beta", top[1].Term)

	acc.Prune()
	assert.Len(t, acc.Top(0), 2)
}

func TestAccumulatorNewTermsSurviveWithinDocument(t *testing.T) {
	acc := NewAccumulator(2)
	acc.AddPage("alpha alpha beta beta")
	acc.Prune()

	// 表已滿；新詞逐頁出現，文件結束前不應被裁掉
	acc.AddPage("saffron")
	acc.AddPage("saffron")
	acc.AddPage("saffron")
	acc.Prune()

	top := acc.Top(10)
	require.Len(t, top, 2)
	assert.Equal(t, TermCount{Term: "saffron", Count: 3}, top[0])
	assert.Equal(t, "alpha", top[1].Term)
}

func TestAccumulatorSavePrunes(t *testing.T) {
	acc := NewAccumulator(1)
	acc.AddPage("alpha alpha beta")
	kv := storage.NewMemoryKV()
	require.NoError(t, acc.Save(context.Background(), kv))

	loaded := NewAccumulator(10)
	require.NoError(t, loaded.Load(context.Background(), kv))
	assert.Equal(t, []TermCount{{Term: "alpha", Count: 2}}, loaded.Top(10))
}

func TestTitleScore(t *testing.T) {
	acc := NewAccumulator(10)
	assert.Zero(t, acc.TitleScore("Tomato Soup"))

	acc.AddTitle("Tomato Soup")
	assert.Equal(t, 1.0, acc.TitleScore("tomato soup"))
	assert.Equal(t, 0.5, acc.TitleScore("Tomato Salad"))
	assert.Zero(t, acc.TitleScore("12"))
}

func TestAccumulatorPersistence(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	acc := NewAccumulator(50)
	acc.AddPage("braised short ribs")
	acc.AddTitle("Braised Short Ribs")
	require.NoError(t, acc.Save(ctx, kv))

	restored := NewAccumulator(50)
	require.NoError(t, restored.Load(ctx, kv))
	assert.Equal(t, acc.Top(10), restored.Top(10))
	assert.Equal(t, 1, restored.Pages())
	assert.Equal(t, 1.0, restored.TitleScore("short ribs"))

	empty := NewAccumulator(50)
	require.NoError(t, empty.Load(ctx, storage.NewMemoryKV()))
	assert.Empty(t, empty.Top(10))
}

func TestMerge(t *testing.T) {
	a := NewAccumulator(10)
	b := NewAccumulator(10)
	a.AddPage("garlic bread")
	b.AddPage("garlic knots")

	a.Merge(b)
	a.Merge(a)
	top := a.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, TermCount{Term: "garlic", Count: 2}, top[0])
	assert.Equal(t, 2, a.Pages())
}
