package models

import (
	"strings"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/dislogroup/salesflow/internal/utils"
)

type Product struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:nom;type:text" json:"nom"`
	// Lookup key derived from Name; see BeforeSave.
	NameKey     string  `gorm:"column:nom_norm;type:text;index:idx_produits_nom_norm" json:"-"`
	Description string  `gorm:"column:description;type:text" json:"description"`
	Brand       string  `gorm:"column:marque;type:text" json:"marque"`
	UnitPrice   float64 `gorm:"column:prix_unitaire" json:"prixUnitaire"`
	ImageURL    string  `gorm:"column:image_url;type:text" json:"imageUrl"`

	CategoryID *int64    `gorm:"column:categorie_id" json:"categorieId,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"categorie,omitempty"`

	// Maintained by the embedding worker; zero vector means "not embedded yet".
	Embedding pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"-"`
}

func (Product) TableName() string { return "produits" }

// BeforeSave keeps NameKey in sync with Name so that SQL lookups and Go-side
// normalization always agree on the same key.
func (p *Product) BeforeSave(*gorm.DB) error {
	p.NameKey = utils.NormalizeName(p.Name)
	return nil
}

// EmbeddingText is the text the semantic index is built over.
func (p *Product) EmbeddingText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.Brand, p.Description} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, " - ")
}
