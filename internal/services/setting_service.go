package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "clinic/internal/errors"
	"clinic/internal/models"
)

// settingService manages the single clinic settings row.
type settingService struct {
	db *gorm.DB
}

// NewSettingService creates a new SettingServicer.
func NewSettingService(db *gorm.DB) SettingServicer {
	return &settingService{db: db}
}

// CreateSettings stores the initial settings. All three sections are required
// and the call fails once a row exists.
func (s *settingService) CreateSettings(patch SettingsPatch) (*models.Setting, error) {
	if patch.OperatingHours == nil || patch.AppointmentTypes == nil || patch.Reminders == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"Please provide all required fields: operatingHours, appointmentTypes, and reminders.")
	}

	var setting *models.Setting
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findSetting(tx)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.ErrSettingsExist
		}

		setting = &models.Setting{Singleton: true}
		applyPatch(setting, patch)
		if err := tx.Create(setting).Error; err != nil {
			return writeError(err, apperrors.ErrSettingsExist)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return setting, nil
}

// UpdateSettings replaces the provided sections and keeps the others. When no
// settings exist yet the row is created from the patch.
func (s *settingService) UpdateSettings(patch SettingsPatch) (*models.Setting, error) {
	setting, err := s.updateSettings(patch)
	if errors.Is(err, apperrors.ErrSettingsExist) {
		// Another request created the row first; apply the patch to it.
		return s.updateSettings(patch)
	}
	return setting, err
}

func (s *settingService) updateSettings(patch SettingsPatch) (*models.Setting, error) {
	var setting *models.Setting
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findSetting(tx)
		if err != nil {
			return err
		}
		if existing == nil {
			setting = &models.Setting{Singleton: true}
			applyPatch(setting, patch)
			if err := tx.Create(setting).Error; err != nil {
				return writeError(err, apperrors.ErrSettingsExist)
			}
			return nil
		}

		setting = existing
		applyPatch(setting, patch)
		if err := tx.Save(setting).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return setting, nil
}

// GetSettings returns the clinic settings
func (s *settingService) GetSettings() (*models.Setting, error) {
	setting, err := findSetting(s.db)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, apperrors.ErrSettingsNotFound
	}
	return setting, nil
}

// findSetting returns the settings row, or nil when none exists.
func findSetting(db *gorm.DB) (*models.Setting, error) {
	var setting models.Setting
	if err := db.Where("singleton = ?", true).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &setting, nil
}

func applyPatch(setting *models.Setting, patch SettingsPatch) {
	if patch.OperatingHours != nil {
		setting.OperatingHours = *patch.OperatingHours
	}
	if patch.AppointmentTypes != nil {
		setting.AppointmentTypes = *patch.AppointmentTypes
	}
	if patch.Reminders != nil {
		setting.Reminders = *patch.Reminders
	}
	if setting.OperatingHours == nil {
		setting.OperatingHours = []models.OperatingHour{}
	}
	if setting.AppointmentTypes == nil {
		setting.AppointmentTypes = []models.AppointmentType{}
	}
	if setting.Reminders == nil {
		setting.Reminders = []models.Reminder{}
	}
}

// writeError maps a unique violation to conflict and anything else to an
// internal error. Concurrent writers that both pass an existence check end
// up here.
func writeError(err error, conflict *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// asAppError passes AppErrors through and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
