package models

type Category struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:nom;type:text;uniqueIndex" json:"nom"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (Category) TableName() string { return "categories_produit" }
