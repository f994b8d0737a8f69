package attendance

import (
	"context"
	"crypto/subtle"
	"errors"
)

// Language is a UI locale.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

func (l Language) Valid() bool {
	return l == LanguageArabic || l == LanguageEnglish
}

// Settings is the process-wide configuration. The engine itself only
// consumes PayrollDay; ShiftDuration is kept for display and is not the
// classifier's threshold (see MinimumShiftHours).
type Settings struct {
	PayrollDay    int
	OwnerPasscode string
	ShiftDuration int
	Language      Language
}

// DefaultSettings returns the out-of-the-box settings.
func DefaultSettings() Settings {
	return Settings{
		PayrollDay:    DefaultCycleStartDay,
		OwnerPasscode: "225599",
		ShiftDuration: 8,
		Language:      LanguageArabic,
	}
}

// Validate checks the settings as a whole.
func (s Settings) Validate() error {
	if s.PayrollDay < MinCycleStartDay || s.PayrollDay > MaxCycleStartDay {
		return invalid("payroll_day", "must be between 1 and 28")
	}
	if s.OwnerPasscode == "" {
		return invalid("owner_passcode", "must not be empty")
	}
	if s.ShiftDuration <= 0 || s.ShiftDuration > 24 {
		return invalid("shift_duration", "must be between 1 and 24 hours")
	}
	if !s.Language.Valid() {
		return invalid("language", "must be 'ar' or 'en'")
	}
	return nil
}

// SettingsUpdate is a partial settings change; nil fields are left alone.
type SettingsUpdate struct {
	PayrollDay    *int
	OwnerPasscode *string
	ShiftDuration *int
	Language      *Language
}

// Apply returns s with the non-nil fields of u applied.
func (u SettingsUpdate) Apply(s Settings) Settings {
	if u.PayrollDay != nil {
		s.PayrollDay = *u.PayrollDay
	}
	if u.OwnerPasscode != nil {
		s.OwnerPasscode = *u.OwnerPasscode
	}
	if u.ShiftDuration != nil {
		s.ShiftDuration = *u.ShiftDuration
	}
	if u.Language != nil {
		s.Language = *u.Language
	}
	return s
}

// Settings returns the stored settings, or the defaults if none were saved.
func (s *Service) Settings(ctx context.Context) (Settings, error) {
	settings, err := s.store.LoadSettings(ctx)
	if errors.Is(err, ErrSettingsNotFound) {
		return DefaultSettings(), nil
	}
	return settings, err
}

// InitSettings saves initial settings unless the store already has some.
// It returns the settings in effect.
func (s *Service) InitSettings(ctx context.Context, initial Settings) (Settings, error) {
	current, err := s.store.LoadSettings(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return Settings{}, err
	}
	if err := initial.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.store.SaveSettings(ctx, initial); err != nil {
		return Settings{}, err
	}
	return initial, nil
}

// UpdateSettings validates and stores a partial settings change.
func (s *Service) UpdateSettings(ctx context.Context, u SettingsUpdate) (Settings, error) {
	current, err := s.Settings(ctx)
	if err != nil {
		return Settings{}, err
	}
	next := u.Apply(current)
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.store.SaveSettings(ctx, next); err != nil {
		return Settings{}, err
	}
	return next, nil
}

// VerifyPasscode compares the input against the owner passcode in constant time.
func (s *Service) VerifyPasscode(ctx context.Context, passcode string) error {
	settings, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(settings.OwnerPasscode), []byte(passcode)) != 1 {
		return ErrInvalidPasscode
	}
	return nil
}
