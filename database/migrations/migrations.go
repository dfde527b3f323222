// Package migrations registers the storefront schema. Importing it is
// enough; each migration registers itself in init.
package migrations

import (
	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", table{&models.User{}})
	migration.Register("20260301000001_create_brands_table", table{&models.Brand{}})
	migration.Register("20260301000002_create_products_table", table{&models.Product{}})
	migration.Register("20260301000003_create_banners_table", table{&models.Banner{}})
	migration.Register("20260301000004_create_settings_tables", table{&models.SiteSettings{}, &models.Setting{}})
	migration.Register("20260415000000_fold_product_search", foldProductSearch{})
}

// table creates its models on Up and drops them on Down.
type table []interface{}

func (t table) Up(db *gorm.DB) error {
	return db.AutoMigrate(t...)
}

func (t table) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(t...)
}

// foldProductSearch adds the search columns and fills them for rows
// written before they existed.
type foldProductSearch struct{}

func (foldProductSearch) Up(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return err
	}
	write := db.Session(&gorm.Session{NewDB: true})
	var rows []models.Product
	return db.Model(&models.Product{}).
		Select("id", "name", "description").
		FindInBatches(&rows, 200, func(*gorm.DB, int) error {
			for i := range rows {
				p := &rows[i]
				p.Fold()
				err := write.Model(&models.Product{}).Where("id = ?", p.ID).
					UpdateColumns(map[string]interface{}{"search_name": p.SearchName, "search_text": p.SearchText}).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}

func (foldProductSearch) Down(db *gorm.DB) error {
	m := db.Migrator()
	for _, col := range []string{"search_name", "search_text"} {
		if m.HasColumn(&models.Product{}, col) {
			if err := m.DropColumn(&models.Product{}, col); err != nil {
				return err
			}
		}
	}
	return nil
}
