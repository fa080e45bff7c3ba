package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dislogroup/salesflow/internal/models"
	pgrepo "github.com/dislogroup/salesflow/internal/repositories/postgres"
	"github.com/dislogroup/salesflow/internal/utils"
)

type fakeProductRepo struct {
	pgrepo.ProductRepo
	rows []models.Product
}

func (f *fakeProductRepo) List(context.Context) ([]models.Product, error) { return f.rows, nil }

// mapEmbedder returns a canned vector per text, an error for unknown texts.
type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return nil, utils.E(utils.CodeBadGateway, "test", "embedding inconnu : "+text, nil)
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	a := models.Product{ID: 1, Name: "Eau minerale 1L"}
	b := models.Product{ID: 2, Name: "Savon mains"}
	c := models.Product{ID: 3, Name: "Jus d'orange 1L"}

	s := &productService{
		products: &fakeProductRepo{rows: []models.Product{a, b, c}},
		embedder: &mapEmbedder{vectors: map[string][]float32{
			"boisson fraiche": {1, 0},
			a.EmbeddingText(): {1, 0}, // aligned, similarity 1
			b.EmbeddingText(): {0, 1}, // orthogonal, similarity 0
			c.EmbeddingText(): {0.7, 0.71}, // partial match
		}},
	}

	ranked, err := s.SearchBySemanticSimilarity(context.Background(), "boisson fraiche")

	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(1), ranked[0].ID)
	assert.Equal(t, int64(3), ranked[1].ID)
	assert.Equal(t, int64(2), ranked[2].ID)
}

func TestSearchKeepsCatalogOrderOnTies(t *testing.T) {
	a := models.Product{ID: 1, Name: "Produit A"}
	b := models.Product{ID: 2, Name: "Produit B"}

	s := &productService{
		products: &fakeProductRepo{rows: []models.Product{a, b}},
		embedder: &mapEmbedder{vectors: map[string][]float32{
			"requete": {1, 0},
			a.EmbeddingText(): {1, 0},
			b.EmbeddingText(): {2, 0}, // same direction, same cosine
		}},
	}

	ranked, err := s.SearchBySemanticSimilarity(context.Background(), "requete")

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].ID)
	assert.Equal(t, int64(2), ranked[1].ID)
}

func TestSearchUnembeddableProductRanksLast(t *testing.T) {
	a := models.Product{ID: 1, Name: "Produit A"}
	b := models.Product{ID: 2, Name: "Produit mystere"}

	s := &productService{
		products: &fakeProductRepo{rows: []models.Product{b, a}},
		embedder: &mapEmbedder{vectors: map[string][]float32{
			"requete": {1, 0},
			a.EmbeddingText(): {1, 0},
			// no vector for b: its embedding fails, cosine falls to 0
		}},
	}

	ranked, err := s.SearchBySemanticSimilarity(context.Background(), "requete")

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].ID)
	assert.Equal(t, int64(2), ranked[1].ID)
}

func TestSearchFailsWhenQueryCannotBeEmbedded(t *testing.T) {
	s := &productService{
		products: &fakeProductRepo{},
		embedder: &mapEmbedder{vectors: map[string][]float32{}},
	}

	_, err := s.SearchBySemanticSimilarity(context.Background(), "requete")

	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeBadGateway))
}
