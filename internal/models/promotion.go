package models

import "time"

const (
	PromotionTypeReduction = "reduction"
	PromotionTypeCadeau    = "cadeau"
)

type Promotion struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Type        string    `gorm:"column:type;type:text" json:"type"`
	Rate        float64   `gorm:"column:taux_reduction" json:"tauxReduction"`
	StartDate   time.Time `gorm:"column:date_debut" json:"dateDebut"`
	EndDate     time.Time `gorm:"column:date_fin" json:"dateFin"`

	// For "cadeau" promotions: buying the condition product earns the gift one.
	ConditionProductID *int64   `gorm:"column:produit_condition_id" json:"produitConditionId,omitempty"`
	ConditionProduct   *Product `gorm:"foreignKey:ConditionProductID" json:"produitCondition,omitempty"`
	GiftProductID      *int64   `gorm:"column:produit_cadeau_id" json:"produitCadeauId,omitempty"`
	GiftProduct        *Product `gorm:"foreignKey:GiftProductID" json:"produitCadeau,omitempty"`

	CategoryID *int64    `gorm:"column:categorie_id" json:"categorieId,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"categorie,omitempty"`
}

func (Promotion) TableName() string { return "promotions" }

func (p *Promotion) ActiveAt(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}
