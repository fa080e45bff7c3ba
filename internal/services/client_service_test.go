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

type fakeClientRepo struct {
	pgrepo.ClientRepo
	byNorm  map[string]*models.Client
	created *models.Client
}

func (f *fakeClientRepo) NormalizedNameExists(_ context.Context, name string, _ int64) (bool, error) {
	_, ok := f.byNorm[utils.NormalizeName(name)]
	return ok, nil
}

func (f *fakeClientRepo) FindByNormalizedName(_ context.Context, name string) (*models.Client, error) {
	if c, ok := f.byNorm[utils.NormalizeName(name)]; ok {
		return c, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeClientRepo) Create(_ context.Context, c *models.Client) error {
	f.created = c
	c.ID = 11
	return nil
}

func TestClientCreateRejectsNormalizedNameCollision(t *testing.T) {
	repo := &fakeClientRepo{byNorm: map[string]*models.Client{
		"epicerie amal": {ID: 7, Name: "Epicerie Amal"},
	}}
	s := NewClientService(repo, nil)

	_, err := s.Create(context.Background(), &models.Client{Name: "  EPICERIE   amal "}, 0)

	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
	assert.Nil(t, repo.created)
}

func TestClientCreateAcceptsDistinctName(t *testing.T) {
	repo := &fakeClientRepo{byNorm: map[string]*models.Client{}}
	s := NewClientService(repo, nil)

	row, err := s.Create(context.Background(), &models.Client{Name: "Superette Yasmine"}, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(11), row.ID)
}

func TestResolveByNameNormalizesLookup(t *testing.T) {
	repo := &fakeClientRepo{byNorm: map[string]*models.Client{
		"epicerie amal": {ID: 7, Name: "Epicerie Amal"},
	}}
	s := NewClientService(repo, nil)

	row, err := s.ResolveByName(context.Background(), "  ePiCeRiE   AMAL ")

	require.NoError(t, err)
	assert.Equal(t, int64(7), row.ID)

	_, err = s.ResolveByName(context.Background(), "Inconnu")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
