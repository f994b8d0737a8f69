package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/nizami/attendance"
	"github.com/warp/nizami/i18n"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Employee Portal", i18n.T(attendance.LanguageEnglish, "landing.employeePortal"))
	assert.Equal(t, "بوابة الموظف", i18n.T(attendance.LanguageArabic, "landing.employeePortal"))

	// Unknown languages read Arabic; unknown keys come back verbatim.
	assert.Equal(t, "بوابة الموظف", i18n.T("fr", "landing.employeePortal"))
	assert.Equal(t, "no.such.key", i18n.T(attendance.LanguageEnglish, "no.such.key"))
}

func TestStatus(t *testing.T) {
	for _, s := range []attendance.Status{
		attendance.StatusPending, attendance.StatusPresent, attendance.StatusLate, attendance.StatusAbsent,
	} {
		assert.NotEqual(t, "status."+string(s), i18n.Status(attendance.LanguageEnglish, s), "missing label for %s", s)
		assert.NotEqual(t, "status."+string(s), i18n.Status(attendance.LanguageArabic, s), "missing label for %s", s)
	}
}

func TestIsRTL(t *testing.T) {
	assert.True(t, i18n.IsRTL(attendance.LanguageArabic))
	assert.False(t, i18n.IsRTL(attendance.LanguageEnglish))
}
