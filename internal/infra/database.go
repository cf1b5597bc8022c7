package infra

import (
	"fmt"

	"github.com/r34335132-lang/Farmacia-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all entities, then applies the SQL pieces GORM cannot express (the
// ticket-number sequence and the stock non-negativity check).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Producto{},
		&model.Usuario{},
		&model.Categoria{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.MovimientoStock{},
		&model.Promocion{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate does not cover.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Atomic ticket numbering for ventas
		`CREATE SEQUENCE IF NOT EXISTS ventas_numero_ticket_seq START 1`,

		// Belt-and-suspenders: the conditional decrement already guards this,
		// but the DB must reject a negative stock from any writer.
		`DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_no_negativo') THEN
    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock_no_negativo CHECK (stock_actual >= 0);
  END IF;
END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}
