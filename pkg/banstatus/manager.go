package banstatus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Manager owns all reads and writes of the ban-status singleton rows.
// Concurrency control is the database's: rows are locked for update
// inside a transaction, and the unique index prevents a second row for
// the same (city, restriction type) ever existing.
type Manager struct {
	DB *gorm.DB
}

func NewManager() *Manager {
	return &Manager{
		DB: database.GlobalGorm,
	}
}

func (m *Manager) Get(ctx context.Context, city string, restrictionType cpdf.RestrictionDataset) (*cpdf.BanStatus, error) {
	var status cpdf.BanStatus

	err := m.DB.WithContext(ctx).
		Where("city = ? AND restriction_type = ?", city, restrictionType).
		First(&status).Error
	if err != nil {
		return nil, err
	}

	return &status, nil
}

// Activate transitions the ban to active, creating the row on first use.
// Re-activating an already active ban re-affirms amount and notes without
// starting a second active period; repeated snowfall reports are expected,
// not a malfunction.
func (m *Manager) Activate(ctx context.Context, city string, restrictionType cpdf.RestrictionDataset, amount float64, notes string) (*cpdf.BanStatus, error) {
	var status cpdf.BanStatus

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(cpdf.BanStatus{City: city, RestrictionType: restrictionType}).
			FirstOrCreate(&status).Error
		if err != nil {
			return err
		}

		transitioned := status.Activate(time.Now(), amount, notes)

		if err := tx.Save(&status).Error; err != nil {
			return err
		}

		if transitioned {
			return tx.Create(&database.BanStatusEvent{
				City:            city,
				RestrictionType: restrictionType,
				Transition:      "activate",
				Amount:          amount,
				Notes:           notes,
			}).Error
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if status.IsActive {
		publishEvent(cpdf.EventTypeBanActivated, &status)
	}

	return &status, nil
}

// Deactivate transitions the ban back to inactive. A no-op when the ban
// was never active.
func (m *Manager) Deactivate(ctx context.Context, city string, restrictionType cpdf.RestrictionDataset, notes string) (*cpdf.BanStatus, error) {
	var status cpdf.BanStatus
	transitioned := false

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(cpdf.BanStatus{City: city, RestrictionType: restrictionType}).
			FirstOrCreate(&status).Error
		if err != nil {
			return err
		}

		transitioned = status.Deactivate(time.Now(), notes)
		if !transitioned {
			return nil
		}

		if err := tx.Save(&status).Error; err != nil {
			return err
		}

		return tx.Create(&database.BanStatusEvent{
			City:            city,
			RestrictionType: restrictionType,
			Transition:      "deactivate",
			Notes:           notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		publishEvent(cpdf.EventTypeBanDeactivated, &status)
	}

	return &status, nil
}

func publishEvent(eventType cpdf.EventType, status *cpdf.BanStatus) {
	if redis_client.QueueConnection == nil {
		return
	}

	queue, err := redis_client.QueueConnection.OpenQueue("curbwise-events")
	if err != nil {
		log.Error().Err(err).Msg("Failed to open events queue")
		return
	}

	event := cpdf.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Body:      status,
	}

	eventBytes, _ := json.Marshal(event)
	if err := queue.Publish(string(eventBytes)); err != nil {
		log.Error().Err(err).Msg("Failed to publish ban status event")
	}
}
