package services

import (
	"testing"

	"gorm.io/gorm"
)

// insertBeforeNextCreate runs insert inside the next create statement, after
// the service's existence check and before its INSERT, the way a concurrent
// request would interleave.
func insertBeforeNextCreate(t *testing.T, db *gorm.DB, insert func(tx *gorm.DB) error) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:interleaved_insert", func(tx *gorm.DB) {
		if fired {
			return
		}
		fired = true
		if err := insert(tx.Session(&gorm.Session{NewDB: true})); err != nil {
			t.Errorf("interleaved insert: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}
