package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"warehouse-inventory-api/internal/config"
	"warehouse-inventory-api/internal/model"
	"warehouse-inventory-api/pkg/database"
	"warehouse-inventory-api/pkg/validator"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	seed := flag.Bool("seed", false, "insert sample rows into empty tables")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	// 2. Setup Database
	db, err := database.Connect(cfg.Postgres)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// 3. Migrate
	if err := db.AutoMigrate(model.Tables()...); err != nil {
		log.Fatalf("❌ Failed to migrate: %v", err)
	}
	log.Println("✅ Tables migrated")

	// 4. Seed
	if *seed {
		if err := seedSamples(db); err != nil {
			log.Fatalf("❌ Failed to seed: %v", err)
		}
	}
}

// seedSamples inserts a few rows per table, skipping tables that already
// hold data.
func seedSamples(db *gorm.DB) error {
	now := time.Now()
	productID, warehouseID := uint(1), uint(1)

	samples := []struct {
		table string
		rows  []interface{}
	}{
		{"products", []interface{}{
			&model.Product{Name: "Pallet Jack", Description: "Manual, 2500kg", Price: 349.90, Category: "equipment"},
			&model.Product{Name: "Stretch Film", Description: "500mm x 300m", Price: 19.99, Category: "packaging"},
		}},
		{"warehouse", []interface{}{
			&model.WarehouseItem{Name: "Rack A1", Description: "Ground level bay", Quantity: 12, Price: 80},
		}},
		{"stocks", []interface{}{
			&model.Stock{ProductID: &productID, WarehouseID: &warehouseID, Quantity: 5, MinQuantity: 10, UnitCost: 310, LastChecked: &now},
		}},
		{"suppliers", []interface{}{
			&model.Supplier{Name: "Acme Logistics", ContactName: "Dana Reyes", Email: "orders@acme.test", Status: model.SupplierActive},
		}},
		{"orders", []interface{}{
			&model.Order{CustomerID: "C-1001", OrderDate: &now, TotalAmount: 19.99, Status: model.OrderPending, PaymentMethod: "card"},
		}},
		{"audit_log", []interface{}{
			&model.AuditLog{UserID: "system", Action: "seed", ResourceType: "products", Details: "sample data"},
		}},
	}

	for _, s := range samples {
		var count int64
		if err := db.Table(s.table).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("Skipping %s: %d rows present", s.table, count)
			continue
		}

		for _, row := range s.rows {
			if errs := validator.ValidateStruct(row); len(errs) > 0 {
				return fmt.Errorf("sample %s: Field '%s' failed on tag '%s'", s.table, errs[0].FailedField, errs[0].Tag)
			}
			if err := db.Create(row).Error; err != nil {
				return err
			}
		}
		log.Printf("✅ Seeded %s", s.table)
	}
	return nil
}
