package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Category{},
		&Event{},
		&ParticipationRequest{},
		&Compilation{},
		&Subscription{},
		&EndpointHit{},
	)
	if err != nil {
		return err
	}

	// Partial unique index backstopping the one-live-request-per-(event,
	// requester) invariant; AutoMigrate cannot express the WHERE clause.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_live_request
		 ON participation_requests (event_id, requester_id)
		 WHERE status IN ('PENDING', 'CONFIRMED')`,
	).Error
}
