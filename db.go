package main

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pledge-backend/models"
)

func initDB(dsn string, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("get sql db")
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("ping db")
	}

	if err := migrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	return db
}

func migrate(db *gorm.DB, log zerolog.Logger) error {
	err := db.AutoMigrate(
		&models.Individual{},
		&models.Pledge{},
		&models.BankTransaction{},
		&models.Commitment{},
		&models.Outgoing{},
	)
	if err != nil {
		return err
	}

	viewStmts := []string{
		`CREATE OR REPLACE VIEW v_pledge_fulfillment AS
			SELECT p.id AS pledge_id, p.individual_id, i.name AS individual_name,
			       p.yearly_support_amount + p.yearly_special_amount AS yearly_commitment,
			       COALESCE(t.received, 0) AS received
			FROM pledges p
			JOIN individuals i ON i.id = p.individual_id
			LEFT JOIN (
				SELECT pledge_id, SUM(credit_amount) AS received
				FROM bank_transactions
				WHERE pledge_id IS NOT NULL
				GROUP BY pledge_id
			) t ON t.pledge_id = p.id
			WHERE p.deleted_at IS NULL`,
	}
	for _, s := range viewStmts {
		if err := db.Exec(s).Error; err != nil {
			log.Warn().Err(err).Msg("migration warning (views)")
		}
	}

	indexStmts := []string{
		`CREATE INDEX idx_bank_transactions_value_date ON bank_transactions (value_date)`,
		`CREATE INDEX idx_bank_transactions_pledge_value_date ON bank_transactions (pledge_id, value_date)`,
		`CREATE INDEX idx_commitments_pledge_status ON commitments (pledge_id, status)`,
	}
	for _, s := range indexStmts {
		// MySQL has no IF NOT EXISTS for indexes; duplicate-name errors are expected on restart.
		_ = db.Exec(s).Error
	}

	return nil
}

func seedDevData(db *gorm.DB) error {
	var cnt int64
	if err := db.Model(&models.Individual{}).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}

	inds := []models.Individual{
		{ID: uuid.NewString(), Name: "Abebe Kebede", Phone: "+251911000001", Email: "abebe@example.com"},
		{ID: uuid.NewString(), Name: "Sara Tesfaye", Phone: "+251911000002"},
	}
	if err := db.Create(&inds).Error; err != nil {
		return err
	}

	pledges := []models.Pledge{
		{
			ID:               uuid.NewString(),
			IndividualID:     inds[0].ID,
			MissionaryCount:  1,
			SupportFrequency: models.FrequencyMonthly,
			SupportAmount:    decimal.NewFromInt(1000),
		},
		{
			ID:               uuid.NewString(),
			IndividualID:     inds[1].ID,
			MissionaryCount:  2,
			SupportFrequency: models.FrequencyQuarterly,
			SupportAmount:    decimal.NewFromInt(6000),
			SpecialAmount:    decimal.NewFromInt(500),
			SpecialFrequency: models.FrequencyOneTime,
		},
	}
	for i := range pledges {
		pledges[i].DeriveYearlyAmounts()
	}
	if err := db.Create(&pledges).Error; err != nil {
		return err
	}

	day := "2025-11-29"
	ref1, ref2 := "FT25113000123", "FT25113000124"
	txns := []models.BankTransaction{
		{
			ID: "BT-SEED-001", ValueDate: &day, TransactionDate: &day,
			TransactionType: "TRANSFER", TransactionReference: &ref1,
			CreditAmount: decimal.NewFromInt(1000), Balance: decimal.NewFromInt(1000),
			Description: "BI-FAST CR TRANSFER ABEBE KEBEDE", PledgeID: &pledges[0].ID,
		},
		{
			ID: "BT-SEED-002", ValueDate: &day, TransactionDate: &day,
			TransactionType: "TRANSFER", TransactionReference: &ref2,
			CreditAmount: decimal.NewFromInt(6000), Balance: decimal.NewFromInt(7000),
			Description: "TRSF E-BANKING CR SARA TESFAYE",
		},
	}
	return db.Create(&txns).Error
}
