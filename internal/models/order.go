package models

import "time"

const (
	OrderStatusPending   = "en_attente"
	OrderStatusDelivered = "livree"
	OrderStatusCanceled  = "annulee"
)

type Order struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ClientID     int64     `gorm:"column:client_id;index" json:"clientId"`
	Client       *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	VendeurID    int64     `gorm:"column:vendeur_id;index" json:"vendeurId"`
	Vendeur      *User     `gorm:"foreignKey:VendeurID" json:"-"`
	Status       string    `gorm:"column:statut;type:text" json:"statut"`
	CreatedDate  time.Time `gorm:"column:date_creation" json:"dateCreation"`
	DeliveryDate time.Time `gorm:"column:date_livraison" json:"dateLivraison"`

	Lines []OrderLine `gorm:"foreignKey:OrderID" json:"lignes"`
}

func (Order) TableName() string { return "commandes" }

// OrderLine snapshots the unit price at build time: later catalog price
// changes never touch an existing line.
type OrderLine struct {
	ID        int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   int64    `gorm:"column:commande_id;index" json:"commandeId"`
	ProductID int64    `gorm:"column:produit_id" json:"produitId"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"produit,omitempty"`
	Quantity  int      `gorm:"column:quantite" json:"quantite"`
	UnitPrice float64  `gorm:"column:prix_unitaire" json:"prixUnitaire"`
}

func (OrderLine) TableName() string { return "lignes_commande" }

func (o *Order) Total() float64 {
	var t float64
	for _, l := range o.Lines {
		t += l.UnitPrice * float64(l.Quantity)
	}
	return t
}
