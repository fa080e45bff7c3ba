package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	VisitStatusPlanned  = "planifiee"
	VisitStatusDone     = "effectuee"
	VisitStatusReported = "reportee"
)

type Visit struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ClientID  int64     `gorm:"column:client_id;index" json:"clientId"`
	Client    *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	VendeurID int64     `gorm:"column:vendeur_id;index" json:"vendeurId"`
	Vendeur   *User     `gorm:"foreignKey:VendeurID" json:"-"`
	Date      time.Time `gorm:"column:date_visite;index" json:"dateVisite"`
	Status    string    `gorm:"column:statut;type:text" json:"statut"`
	Comment   string    `gorm:"column:commentaire;type:text" json:"commentaire"`

	// Free-form field report (photos, shelf share, etc.), filled by mobile.
	Report datatypes.JSON `gorm:"column:rapport;type:jsonb" json:"rapport,omitempty"`
}

func (Visit) TableName() string { return "visites" }
