package models

import "time"

// Role is the closed set of user kinds. Authorization is decided by the
// capability table below, never by inspecting concrete user types.
type Role string

const (
	RolePreVendeur       Role = "prevendeur"
	RoleVendeurDirect    Role = "vendeur_direct"
	RoleSuperviseur      Role = "superviseur"
	RoleResponsableUnite Role = "responsable_unite"
	RoleAdmin            Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePreVendeur, RoleVendeurDirect, RoleSuperviseur, RoleResponsableUnite, RoleAdmin:
		return true
	}
	return false
}

// IsVendeur reports whether the role sells in the field and can be assigned
// to a superviseur.
func (r Role) IsVendeur() bool {
	return r == RolePreVendeur || r == RoleVendeurDirect
}

type Capability string

const (
	CapViewOwnTruckStock Capability = "view_own_truck_stock"
	CapLoadTruckStock    Capability = "load_truck_stock"
	CapAssignVendeur     Capability = "assign_vendeur"
	CapManageCatalog     Capability = "manage_catalog"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RolePreVendeur: {},
	RoleVendeurDirect: {
		CapViewOwnTruckStock: true,
		CapLoadTruckStock:    true,
	},
	RoleSuperviseur: {
		CapAssignVendeur: true,
	},
	RoleResponsableUnite: {
		CapLoadTruckStock: true,
		CapManageCatalog:  true,
	},
	RoleAdmin: {
		CapViewOwnTruckStock: true,
		CapLoadTruckStock:    true,
		CapAssignVendeur:     true,
		CapManageCatalog:     true,
	},
}

func (r Role) Can(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	return ok && caps[cap]
}

type User struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:nom_utilisateur;type:text;uniqueIndex" json:"nomUtilisateur"`
	FullName     string    `gorm:"column:nom_complet;type:text" json:"nomComplet"`
	Email        string    `gorm:"column:email;type:text" json:"email"`
	PasswordHash string    `gorm:"column:mot_de_passe_hash;type:text" json:"-"`
	Role         Role      `gorm:"column:role;type:text" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`

	// Set for vendeurs only, via the explicit assignment operation.
	SuperviseurID *int64 `gorm:"column:superviseur_id" json:"superviseurId,omitempty"`
	Superviseur   *User  `gorm:"foreignKey:SuperviseurID" json:"-"`
}

func (User) TableName() string { return "utilisateurs" }
