package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dislogroup/salesflow/internal/cache"
	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/providers/nlp"
	pgrepo "github.com/dislogroup/salesflow/internal/repositories/postgres"
	"github.com/dislogroup/salesflow/internal/utils"
)

const productEmbeddingTTL = 24 * time.Hour

// EmbedQueue feeds product ids to the background embedding worker.
type EmbedQueue interface {
	EnqueueProduct(ctx context.Context, productID int64) error
}

type ProductService interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id int64, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	SetImageURL(ctx context.Context, id int64, url string) error
	ResolveByName(ctx context.Context, name string) (*models.Product, error)
	// SearchBySemanticSimilarity ranks the whole catalog by cosine
	// similarity between the query embedding and each product's vector.
	// Full scan; fine at catalog scale, no index structure behind it.
	SearchBySemanticSimilarity(ctx context.Context, query string) ([]models.Product, error)
	SummarizeForGrounding(ctx context.Context) (string, error)

	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type productService struct {
	products pgrepo.ProductRepo
	embedder nlp.Embedder
	cache    cache.Cache
	queue    EmbedQueue
	log      *logrus.Logger
}

func NewProductService(products pgrepo.ProductRepo, embedder nlp.Embedder, c cache.Cache, queue EmbedQueue, log *logrus.Logger) ProductService {
	return &productService{products: products, embedder: embedder, cache: c, queue: queue, log: log}
}

func (s *productService) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	const op = "ProductService.Create"

	if strings.TrimSpace(p.Name) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "le nom du produit est obligatoire", nil)
	}
	if p.UnitPrice < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "le prix unitaire doit etre positif", nil)
	}

	exists, err := s.products.NormalizedNameExists(ctx, p.Name, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check name uniqueness", err)
	}
	if exists {
		return nil, utils.E(utils.CodeConflict, op, "un produit avec un nom equivalent existe deja", nil)
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create product", err)
	}

	s.enqueueEmbedding(ctx, p.ID)
	return p, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*models.Product, error) {
	const op = "ProductService.Get"

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "produit introuvable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get product", err)
	}
	return p, nil
}

func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	const op = "ProductService.List"

	rows, err := s.products.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list products", err)
	}
	return rows, nil
}

func (s *productService) Update(ctx context.Context, id int64, in *models.Product) (*models.Product, error) {
	const op = "ProductService.Update"

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && utils.NormalizeName(in.Name) != utils.NormalizeName(existing.Name) {
		exists, err := s.products.NormalizedNameExists(ctx, in.Name, id)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to check name uniqueness", err)
		}
		if exists {
			return nil, utils.E(utils.CodeConflict, op, "un produit avec un nom equivalent existe deja", nil)
		}
		existing.Name = in.Name
	}
	existing.Description = in.Description
	existing.Brand = in.Brand
	if in.UnitPrice >= 0 {
		existing.UnitPrice = in.UnitPrice
	}
	if in.CategoryID != nil {
		existing.CategoryID = in.CategoryID
	}

	if err := s.products.Update(ctx, existing); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update product", err)
	}

	s.enqueueEmbedding(ctx, existing.ID)
	return existing, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	const op = "ProductService.Delete"

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete product", err)
	}
	return nil
}

func (s *productService) SetImageURL(ctx context.Context, id int64, url string) error {
	const op = "ProductService.SetImageURL"

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	p.ImageURL = url
	if err := s.products.Update(ctx, p); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update product image", err)
	}
	return nil
}

func (s *productService) ResolveByName(ctx context.Context, name string) (*models.Product, error) {
	const op = "ProductService.ResolveByName"

	p, err := s.products.FindByNormalizedName(ctx, name)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, fmt.Sprintf("produit introuvable : %s", strings.TrimSpace(name)), err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve product", err)
	}
	return p, nil
}

func (s *productService) SearchBySemanticSimilarity(ctx context.Context, query string) ([]models.Product, error) {
	const op = "ProductService.SearchBySemanticSimilarity"

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list products", err)
	}

	sims := make([]float64, len(products))
	for i := range products {
		vec := s.productVector(ctx, &products[i])
		sims[i] = nlp.CosineSimilarity(queryVec, vec)
	}

	// Stable: equal similarities keep catalog order.
	idx := make([]int, len(products))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return sims[idx[a]] > sims[idx[b]] })

	out := make([]models.Product, len(products))
	for i, j := range idx {
		out[i] = products[j]
	}
	return out, nil
}

// productVector returns the product's embedding: the stored pgvector column
// when present, otherwise an on-demand embedding cached in redis until the
// worker persists one. A product that cannot be embedded ranks last (zero
// vector), it never fails the whole search.
func (s *productService) productVector(ctx context.Context, p *models.Product) []float32 {
	if vec := p.Embedding.Slice(); len(vec) > 0 {
		return vec
	}

	key := fmt.Sprintf("emb:produit:%d", p.ID)
	var cached []float32
	if s.cache != nil {
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached
		}
	}

	vec, err := s.embedder.Embed(ctx, p.EmbeddingText())
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("produit_id", p.ID).Warn("embedding produit indisponible")
		}
		return nil
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, vec, productEmbeddingTTL)
	}
	return vec
}

func (s *productService) enqueueEmbedding(ctx context.Context, id int64) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueProduct(ctx, id); err != nil && s.log != nil {
		s.log.WithError(err).WithField("produit_id", id).Warn("failed to enqueue product embedding")
	}
}

func (s *productService) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	const op = "ProductService.CreateCategory"

	if strings.TrimSpace(c.Name) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "le nom de la categorie est obligatoire", nil)
	}

	if _, err := s.products.FindCategoryByName(ctx, c.Name); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "cette categorie existe deja", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check category", err)
	}

	if err := s.products.CreateCategory(ctx, c); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create category", err)
	}
	return c, nil
}

func (s *productService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "ProductService.ListCategories"

	rows, err := s.products.ListCategories(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list categories", err)
	}
	return rows, nil
}

func (s *productService) SummarizeForGrounding(ctx context.Context) (string, error) {
	rows, err := s.products.List(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Produits disponibles :")
	for _, p := range rows {
		b.WriteString(fmt.Sprintf("\n- %s (%s) : %.2f DH", p.Name, p.Brand, p.UnitPrice))
	}
	return b.String(), nil
}
