package config

import (
	"errors"

	"github.com/dislogroup/salesflow/internal/models"
)

var defaultCategories = []models.Category{
	{Name: "Boissons", Description: "Boissons gazeuses, jus et eaux"},
	{Name: "Produits frais", Description: "Produits laitiers et frais"},
	{Name: "Produits alimentaires", Description: "Epicerie et conserves"},
	{Name: "Hygiène et soins", Description: "Produits d'hygiène et de soin"},
	{Name: "Snacks", Description: "Biscuits, chips et confiseries"},
}

// MigrateAndSeed creates the schema and inserts the reference catalog
// categories when they are missing. Safe to run at every boot.
func MigrateAndSeed() error {
	if PostgresDB == nil {
		return errors.New("PostgresDB is nil; call InitPostgres() first")
	}

	if err := PostgresDB.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}

	if err := PostgresDB.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Client{},
		&models.Route{},
		&models.Order{},
		&models.OrderLine{},
		&models.Promotion{},
		&models.TruckStock{},
		&models.TruckStockLevel{},
		&models.Visit{},
	); err != nil {
		return err
	}

	// Backfill lookup keys for rows written before nom_norm existed. The
	// expression mirrors utils.NormalizeName (trim, collapse runs, lowercase).
	for _, table := range []string{"clients", "produits"} {
		if err := PostgresDB.Exec(
			"UPDATE " + table + ` SET nom_norm = lower(regexp_replace(btrim(nom), '\s+', ' ', 'g')) WHERE nom_norm IS NULL OR nom_norm = ''`,
		).Error; err != nil {
			return err
		}
	}

	for _, cat := range defaultCategories {
		var count int64
		if err := PostgresDB.Model(&models.Category{}).
			Where("nom = ?", cat.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			c := cat
			if err := PostgresDB.Create(&c).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
