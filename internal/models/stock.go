package models

// TruckStock is the rolling inventory of a vendeur direct's truck.
type TruckStock struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ChauffeurID int64             `gorm:"column:chauffeur_id;uniqueIndex" json:"chauffeurId"`
	Chauffeur   *User             `gorm:"foreignKey:ChauffeurID" json:"-"`
	Levels      []TruckStockLevel `gorm:"foreignKey:StockID" json:"niveauxStock"`
}

func (TruckStock) TableName() string { return "stocks_camion" }

type TruckStockLevel struct {
	ID        int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StockID   int64    `gorm:"column:stock_id;index:idx_stock_produit,unique" json:"-"`
	ProductID int64    `gorm:"column:produit_id;index:idx_stock_produit,unique" json:"produitId"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"produit,omitempty"`
	Quantity  int      `gorm:"column:quantite" json:"quantite"`
}

func (TruckStockLevel) TableName() string { return "niveaux_stock_camion" }
