package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROSTER
// =============================================================================

// NewEmployee is the input for adding an employee.
type NewEmployee struct {
	Name       string
	Role       Role
	HourlyRate decimal.Decimal
	StartDate  Date
}

// Validate rejects input the form boundary must never pass on.
func (n NewEmployee) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if !n.Role.Valid() {
		return invalid("role", "must be 'owner' or 'employee'")
	}
	if n.HourlyRate.IsNegative() {
		return invalid("hourly_rate", "must not be negative")
	}
	return nil
}

// EmployeeUpdate is a partial employee change; nil fields are left alone.
type EmployeeUpdate struct {
	Name       *string
	Role       *Role
	HourlyRate *decimal.Decimal
	StartDate  *Date
	Active     *bool
}

// Validate checks the fields that are being changed.
func (u EmployeeUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if u.Role != nil && !u.Role.Valid() {
		return invalid("role", "must be 'owner' or 'employee'")
	}
	if u.HourlyRate != nil && u.HourlyRate.IsNegative() {
		return invalid("hourly_rate", "must not be negative")
	}
	return nil
}

// AddEmployee creates an active employee. A zero StartDate defaults to
// the calendar day of now.
func (s *Service) AddEmployee(ctx context.Context, in NewEmployee, now time.Time) (Employee, error) {
	if err := in.Validate(); err != nil {
		return Employee{}, err
	}

	start := in.StartDate
	if start.IsZero() {
		start = DateOf(now)
	}

	emp := Employee{
		ID:         EmployeeID(s.ids()),
		Name:       strings.TrimSpace(in.Name),
		Role:       in.Role,
		HourlyRate: in.HourlyRate,
		StartDate:  start,
		Active:     true,
		CreatedAt:  now,
	}
	if err := s.store.SaveEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// GetEmployee returns an employee, active or not.
func (s *Service) GetEmployee(ctx context.Context, id EmployeeID) (Employee, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if emp == nil {
		return Employee{}, ErrEmployeeNotFound
	}
	return *emp, nil
}

// ListEmployees returns the roster in insertion order. Inactive employees
// are hidden unless includeInactive is set.
func (s *Service) ListEmployees(ctx context.Context, includeInactive bool) ([]Employee, error) {
	all, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if includeInactive {
		return all, nil
	}
	return ActiveEmployees(all), nil
}

// ActiveEmployees filters a roster down to active employees, keeping order.
func ActiveEmployees(roster []Employee) []Employee {
	active := make([]Employee, 0, len(roster))
	for _, e := range roster {
		if e.Active {
			active = append(active, e)
		}
	}
	return active
}

// UpdateEmployee applies a partial change.
func (s *Service) UpdateEmployee(ctx context.Context, id EmployeeID, u EmployeeUpdate) (Employee, error) {
	if err := u.Validate(); err != nil {
		return Employee{}, err
	}

	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}

	if u.Name != nil {
		emp.Name = strings.TrimSpace(*u.Name)
	}
	if u.Role != nil {
		emp.Role = *u.Role
	}
	if u.HourlyRate != nil {
		emp.HourlyRate = *u.HourlyRate
	}
	if u.StartDate != nil {
		emp.StartDate = *u.StartDate
	}
	if u.Active != nil {
		emp.Active = *u.Active
	}

	if err := s.store.SaveEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// DeactivateEmployee soft-deletes an employee. Its attendance stays.
func (s *Service) DeactivateEmployee(ctx context.Context, id EmployeeID) (Employee, error) {
	inactive := false
	return s.UpdateEmployee(ctx, id, EmployeeUpdate{Active: &inactive})
}

// RemoveEmployee hard-deletes an employee from the roster. Attendance
// records reference employees without owning them and are kept.
func (s *Service) RemoveEmployee(ctx context.Context, id EmployeeID) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteEmployee(ctx, id)
}

// SeedDemo fills an empty roster with the demo staff. It returns false
// when the roster already had employees.
func (s *Service) SeedDemo(ctx context.Context, now time.Time) (bool, error) {
	existing, err := s.store.ListEmployees(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	demo := []NewEmployee{
		{Name: "Al-Hassan", Role: RoleEmployee, HourlyRate: decimal.NewFromInt(40)},
		{Name: "Omar", Role: RoleEmployee, HourlyRate: decimal.NewFromInt(50)},
		{Name: "Khaled", Role: RoleEmployee, HourlyRate: decimal.NewFromInt(45)},
	}
	for i, in := range demo {
		// Distinct creation instants keep insertion order stable.
		if _, err := s.AddEmployee(ctx, in, now.Add(time.Duration(i)*time.Millisecond)); err != nil {
			return false, err
		}
	}
	return true, nil
}
