// Package i18n holds the static UI dictionary for the supported locales.
package i18n

import "github.com/warp/nizami/attendance"

type entry struct {
	ar string
	en string
}

var dictionary = map[string]entry{
	// Landing
	"landing.businessOwner":    {"صاحب العمل", "Business Owner"},
	"landing.employeePortal":   {"بوابة الموظف", "Employee Portal"},
	"landing.accessDashboard":  {"الدخول للوحة التحكم", "Access Dashboard"},
	"landing.recordAttendance": {"تسجيل الحضور والانصراف", "Record Attendance"},
	"landing.enterPasscode":    {"أدخل رمز الدخول", "Enter Passcode"},
	"landing.login":            {"دخول", "Login"},
	"landing.cancel":           {"إلغاء", "Cancel"},
	"landing.invalidPasscode":  {"رمز الدخول غير صحيح", "Invalid Passcode"},

	// Navigation
	"nav.dashboard":  {"الرئيسية", "Dashboard"},
	"nav.employees":  {"الموظفين", "Employees"},
	"nav.attendance": {"سجل الحضور", "Attendance"},
	"nav.payroll":    {"الرواتب", "Payroll"},
	"nav.logout":     {"خروج", "Logout"},

	// Dashboard
	"stats.totalEmployees":       {"إجمالي الموظفين", "Total Employees"},
	"stats.presentToday":         {"حضور اليوم", "Present Today"},
	"stats.completedShifts":      {"ورديات مكتملة", "Completed Shifts"},
	"stats.issues":               {"تنبيهات / تأخير", "Issues / Late"},
	"stats.attendanceRate":       {"نسبة الحضور", "Attendance Rate"},
	"stats.activeNow":            {"نشط الآن", "Active Now"},
	"stats.staff":                {"موظف", "Staff"},
	"stats.requiresAttention":    {"يحتاج انتباه", "Requires Attention"},
	"dashboard.todaysAttendance": {"حضور اليوم", "Today's Attendance"},
	"dashboard.noRecords":        {"لا يوجد سجلات حضور اليوم حتى الآن.", "No attendance records for today yet."},

	// Employees
	"employees.title":       {"الموظفين", "Employees"},
	"employees.add":         {"إضافة موظف", "Add Employee"},
	"employees.search":      {"بحث...", "Search..."},
	"employees.name":        {"الاسم", "Name"},
	"employees.hourlyRate":  {"سعر الساعة", "Hourly Rate"},
	"employees.startDate":   {"تاريخ البدء", "Start Date"},
	"employees.actions":     {"إجراءات", "Actions"},
	"employees.noEmployees": {"لم يتم العثور على موظفين.", "No employees found."},
	"employees.edit":        {"تعديل موظف", "Edit Employee"},
	"employees.save":        {"حفظ التغييرات", "Save Changes"},
	"employees.create":      {"إنشاء موظف", "Create Employee"},

	// Portal
	"portal.loginMsg":       {"اختر اسمك لتسجيل الحضور", "Select your name to record attendance"},
	"portal.currentTime":    {"التوقيت المحلي", "Current Local Time"},
	"portal.shiftCompleted": {"تم تسجيل الانصراف اليوم", "Shift Completed Today"},

	// Attendance log
	"log.title":      {"سجل الحضور", "Attendance Log"},
	"log.checkIn":    {"حضور", "Check In"},
	"log.checkOut":   {"انصراف", "Check Out"},
	"log.totalHours": {"ساعات العمل", "Total Hours"},
	"log.status":     {"الحالة", "Status"},
	"log.noRecord":   {"لا يوجد سجل", "No Record"},

	// Status labels
	"status.pending": {"قيد العمل", "Pending"},
	"status.present": {"حاضر", "Present"},
	"status.late":    {"متأخر", "Late"},
	"status.absent":  {"غائب", "Absent"},

	// Payroll
	"payroll.title":       {"تقرير الرواتب", "Payroll Report"},
	"payroll.totalPayout": {"إجمالي الرواتب", "Total Payout"},
	"payroll.netSalary":   {"صافي الراتب", "Net Salary"},
	"payroll.days":        {"أيام", "Days"},

	// Common
	"common.back": {"رجوع", "Back"},
	"common.date": {"التاريخ", "Date"},
}

// T returns the translation of key for lang. Unknown keys come back as
// the key itself; unknown languages fall back to Arabic.
func T(lang attendance.Language, key string) string {
	e, ok := dictionary[key]
	if !ok {
		return key
	}
	if lang == attendance.LanguageEnglish {
		return e.en
	}
	return e.ar
}

// Status returns the label of a shift status.
func Status(lang attendance.Language, s attendance.Status) string {
	return T(lang, "status."+string(s))
}

// IsRTL reports whether lang is written right to left.
func IsRTL(lang attendance.Language) bool {
	return lang != attendance.LanguageEnglish
}
