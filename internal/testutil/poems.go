package testutil

// PoemQuery is the query used against the Poems corpus.
const PoemQuery = "stay strong as you grow older"

// PoemTexts is the three-line poem corpus in load order.
var PoemTexts = []string{
	"Do not go gentle into that good night",
	"Shall I compare thee to a summer's day",
	"What happens to a dream deferred?",
}

// Poems returns fixed 4-dimensional embeddings for PoemTexts and PoemQuery.
// The query is closest to the first poem under cosine, L2, L1 and dot
// product alike.
func Poems() map[string][]float32 {
	return map[string][]float32{
		PoemTexts[0]: {0.9, 0.1, 0.1, 0.3},
		PoemTexts[1]: {0.1, 0.9, 0.2, 0.1},
		PoemTexts[2]: {0.2, 0.1, 0.9, 0.3},
		PoemQuery:    {0.8, 0.2, 0.1, 0.4},
	}
}
