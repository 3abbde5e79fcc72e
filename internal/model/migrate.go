package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and adds the
// referential-integrity constraints the cascade logic relies on.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Account{},
		&Room{},
		&Participant{},
		&RoomCode{},
	); err != nil {
		return err
	}

	// Unique email only where one is present; guest accounts store NULL.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email " +
			"ON accounts (email) WHERE email IS NOT NULL",
	).Error
}
