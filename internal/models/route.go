package models

import "github.com/lib/pq"

type Route struct {
	ID     int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name   string         `gorm:"column:nom;type:text" json:"nom"`
	Sector string         `gorm:"column:secteur;type:text" json:"secteur"`
	Stops  pq.StringArray `gorm:"column:arrets;type:text[]" json:"arrets"`

	Clients  []Client `gorm:"many2many:route_clients" json:"clients,omitempty"`
	Vendeurs []User   `gorm:"many2many:route_vendeurs" json:"vendeurs,omitempty"`
}

func (Route) TableName() string { return "routes" }
