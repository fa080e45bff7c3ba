package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/dislogroup/salesflow/internal/utils"
)

type Client struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:nom;type:text" json:"nom"`
	// Lookup key derived from Name; see BeforeSave.
	NameKey   string     `gorm:"column:nom_norm;type:text;index:idx_clients_nom_norm" json:"-"`
	Phone     string     `gorm:"column:telephone;type:text" json:"telephone"`
	Email     string     `gorm:"column:email;type:text" json:"email"`
	Address   string     `gorm:"column:adresse;type:text" json:"adresse"`
	Type      string     `gorm:"column:type;type:text" json:"type"`
	LastVisit *time.Time `gorm:"column:derniere_visite" json:"derniereVisite,omitempty"`

	Routes []Route `gorm:"many2many:route_clients" json:"routes,omitempty"`
}

func (Client) TableName() string { return "clients" }

// BeforeSave keeps NameKey in sync with Name so that SQL lookups and Go-side
// normalization always agree on the same key.
func (c *Client) BeforeSave(*gorm.DB) error {
	c.NameKey = utils.NormalizeName(c.Name)
	return nil
}
