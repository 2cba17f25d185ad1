package store

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ProductRecord maps the products table.
type ProductRecord struct {
	Name      string `gorm:"primaryKey"`
	Position  int    `gorm:"not null;index"`
	Quantity  int64  `gorm:"not null;default:0"`
	Price     int64  `gorm:"not null;default:0"`
	UnitsSold int64  `gorm:"not null;default:0"`
	Income    int64  `gorm:"not null;default:0"`
}

func (p *ProductRecord) TableName() string {
	return "products"
}

// BalanceRecord maps one running total of the balance ledger.
type BalanceRecord struct {
	ID        int64 `gorm:"primaryKey"`
	Total     int64 `gorm:"not null"`
	CreatedAt time.Time
}

func (b *BalanceRecord) TableName() string {
	return "balance"
}

// GormStore is a Store backed by GORM. It shares its schema with
// PostgresStore, so the two can be swapped over the same database.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, wrap("open", "", err)
	}
	return NewGormStoreFromDB(db), nil
}

func NewGormStoreFromDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(&ProductRecord{}, &BalanceRecord{})
	return wrap("migrate", "", err)
}

func (s *GormStore) LoadCatalogRows(ctx context.Context) ([]ProductRow, error) {
	var records []ProductRecord
	if err := s.db.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		return nil, wrap("load catalog", "", err)
	}
	out := make([]ProductRow, 0, len(records))
	for _, r := range records {
		out = append(out, ProductRow{
			Name:      r.Name,
			Quantity:  itoa(r.Quantity),
			Price:     itoa(r.Price),
			UnitsSold: itoa(r.UnitsSold),
			Income:    itoa(r.Income),
		})
	}
	return out, nil
}

func (s *GormStore) WriteProductRows(ctx context.Context, rows ...ProductRow) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			args, err := rowArgs(r)
			if err != nil {
				return wrap("write product", r.Name, err)
			}
			res := tx.Model(&ProductRecord{}).
				Where("name = ?", r.Name).
				Updates(map[string]any{
					"quantity":   args[0],
					"price":      args[1],
					"units_sold": args[2],
					"income":     args[3],
				})
			if res.Error != nil {
				return wrap("write product", r.Name, res.Error)
			}
			if res.RowsAffected == 0 {
				return notFound("write product", r.Name)
			}
		}
		return nil
	})
	return wrap("write product", "", err)
}

func (s *GormStore) LoadLedgerTail(ctx context.Context) (int64, error) {
	var records []BalanceRecord
	if err := s.db.WithContext(ctx).Order("id desc").Limit(1).Find(&records).Error; err != nil {
		return 0, wrap("load ledger", "", err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	return records[0].Total, nil
}

func (s *GormStore) AppendLedgerEntry(ctx context.Context, total int64) error {
	err := s.db.WithContext(ctx).Create(&BalanceRecord{Total: total}).Error
	return wrap("append ledger", "", err)
}
