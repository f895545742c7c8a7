/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the wire contract. Hours cross the wire as float64 with the
  engine's 2-decimal rounding already applied; dates as "2006-01-02";
  times of day as "HH:MM".

NAMING CONVENTION:
  - *DTO: response types
  - *Request: request body types

VALIDATION:
  Request structs carry go-playground/validator tags; handlers run the
  shared validator before touching the domain.

SEE ALSO:
  - handlers.go: uses these types
  - factory/schedule.go: the schedule wire form
*/
package api

import (
	"github.com/warp/care-engine/agency"
	"github.com/warp/care-engine/factory"
	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// WORKERS
// =============================================================================

type WorkerDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
}

type CreateWorkerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func toWorkerDTO(w agency.Worker) WorkerDTO {
	return WorkerDTO{ID: string(w.ID), Name: w.Name, Email: w.Email, Active: w.Active}
}

// =============================================================================
// CLIENTS
// =============================================================================

type ClientDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MonthlyHours float64 `json:"monthly_hours"`
	Active       bool    `json:"active"`
}

type CreateClientRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name" validate:"required"`
	MonthlyHours float64 `json:"monthly_hours" validate:"gte=0"`
}

func toClientDTO(c agency.Client) ClientDTO {
	return ClientDTO{
		ID:           string(c.ID),
		Name:         c.Name,
		MonthlyHours: c.MonthlyHours.InexactFloat64(),
		Active:       c.Active,
	}
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

type AssignmentDTO struct {
	ID          string               `json:"id"`
	WorkerID    string               `json:"worker_id"`
	ClientID    string               `json:"client_id"`
	Type        string               `json:"assignment_type"`
	StartDate   string               `json:"start_date"`
	EndDate     *string              `json:"end_date,omitempty"`
	Status      string               `json:"status"`
	Schedule    factory.ScheduleJSON `json:"schedule"`
	WeeklyHours float64              `json:"weekly_hours"`

	// Anomalies reports schedule repairs applied while parsing the
	// request body. Only set on create/update responses.
	Anomalies []AnomalyDTO `json:"anomalies,omitempty"`
}

type CreateAssignmentRequest struct {
	WorkerID  string `json:"worker_id" validate:"required"`
	ClientID  string `json:"client_id" validate:"required"`
	Type      string `json:"assignment_type" validate:"required,oneof=laborables festivos flexible"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"`

	// Optional: omitted means "seed from the assignment type".
	Schedule *factory.ScheduleJSON `json:"schedule"`
}

type UpdateScheduleRequest struct {
	Schedule factory.ScheduleJSON `json:"schedule" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active paused completed cancelled"`
}

type ReassignWorkerRequest struct {
	WorkerID string `json:"worker_id" validate:"required"`
}

func toAssignmentDTO(a schedule.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:          string(a.ID),
		WorkerID:    string(a.WorkerID),
		ClientID:    string(a.ClientID),
		Type:        string(a.Type),
		StartDate:   a.StartDate.String(),
		Status:      string(a.Status),
		Schedule:    factory.ToJSON(a.Schedule),
		WeeklyHours: schedule.WeekHours(a.Schedule).InexactFloat64(),
	}
	if a.EndDate != nil {
		s := a.EndDate.String()
		dto.EndDate = &s
	}
	return dto
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Scope string `json:"scope"`
}

type CreateHolidayRequest struct {
	Date  string `json:"date" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Scope string `json:"scope"`
}

func toHolidayDTO(h schedule.Holiday) HolidayDTO {
	return HolidayDTO{Date: h.Date.String(), Name: h.Name, Scope: h.Scope}
}

// =============================================================================
// PLANS
// =============================================================================

type DayEntryDTO struct {
	Date         string    `json:"date"`
	AssignmentID string    `json:"assignment_id"`
	WorkerID     string    `json:"worker_id"`
	ClientID     string    `json:"client_id"`
	IsHoliday    bool      `json:"is_holiday"`
	IsWeekend    bool      `json:"is_weekend"`
	EffectiveKey string    `json:"effective_key"`
	Hours        float64   `json:"hours"`
	Slots        []SlotDTO `json:"slots"`
}

type SlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ReassignmentDTO struct {
	Date             string `json:"date"`
	ClientID         string `json:"client_id"`
	ExpectedWorkerID string `json:"expected_worker_id,omitempty"`
	ActualWorkerID   string `json:"actual_worker_id,omitempty"`
	Reason           string `json:"reason"`
}

type BalanceDTO struct {
	WorkerID        string  `json:"worker_id"`
	ClientID        string  `json:"client_id"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	ContractedHours float64 `json:"contracted_hours"`
	ScheduledHours  float64 `json:"scheduled_hours"`
	Balance         float64 `json:"balance"`
}

type AnomalyDTO struct {
	Code         string `json:"code"`
	AssignmentID string `json:"assignment_id,omitempty"`
	Date         string `json:"date,omitempty"`
	Detail       string `json:"detail"`
}

type MonthlyPlanDTO struct {
	ClientID        string            `json:"client_id"`
	Year            int               `json:"year"`
	Month           int               `json:"month"`
	Entries         []DayEntryDTO     `json:"entries"`
	Reassignments   []ReassignmentDTO `json:"reassignments"`
	Balances        []BalanceDTO      `json:"balances"`
	Holidays        []HolidayDTO      `json:"holidays"`
	Anomalies       []AnomalyDTO      `json:"anomalies"`
	ContractedHours float64           `json:"contracted_hours"`
	ScheduledHours  float64           `json:"scheduled_hours"`
	Balance         float64           `json:"balance"`
}

type WorkerMonthDTO struct {
	WorkerID   string        `json:"worker_id"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Entries    []DayEntryDTO `json:"entries"`
	Anomalies  []AnomalyDTO  `json:"anomalies"`
	TotalHours float64       `json:"total_hours"`
}

func toEntryDTO(e schedule.ResolvedDayEntry) DayEntryDTO {
	slots := make([]SlotDTO, len(e.Slots))
	for i, s := range e.Slots {
		slots[i] = SlotDTO{Start: s.Start, End: s.End}
	}
	return DayEntryDTO{
		Date:         e.Date.String(),
		AssignmentID: string(e.AssignmentID),
		WorkerID:     string(e.WorkerID),
		ClientID:     string(e.ClientID),
		IsHoliday:    e.IsHoliday,
		IsWeekend:    e.IsWeekend,
		EffectiveKey: string(e.EffectiveKey),
		Hours:        schedule.RoundHours(e.Hours).InexactFloat64(),
		Slots:        slots,
	}
}

func toReassignmentDTO(r schedule.ReassignmentRecord) ReassignmentDTO {
	return ReassignmentDTO{
		Date:             r.Date.String(),
		ClientID:         string(r.ClientID),
		ExpectedWorkerID: string(r.ExpectedWorkerID),
		ActualWorkerID:   string(r.ActualWorkerID),
		Reason:           string(r.Reason),
	}
}

func toBalanceDTO(b schedule.MonthlyBalance) BalanceDTO {
	return BalanceDTO{
		WorkerID:        string(b.WorkerID),
		ClientID:        string(b.ClientID),
		Year:            b.Year,
		Month:           b.Month,
		ContractedHours: b.ContractedHours.InexactFloat64(),
		ScheduledHours:  b.ScheduledHours.InexactFloat64(),
		Balance:         b.Balance.InexactFloat64(),
	}
}

func toAnomalyDTO(a schedule.Anomaly) AnomalyDTO {
	dto := AnomalyDTO{
		Code:         string(a.Code),
		AssignmentID: string(a.AssignmentID),
		Detail:       a.Detail,
	}
	if !a.Date.IsZero() {
		dto.Date = a.Date.String()
	}
	return dto
}

func toPlanDTO(p *agency.MonthlyPlan) MonthlyPlanDTO {
	dto := MonthlyPlanDTO{
		ClientID:        string(p.ClientID),
		Year:            p.Year,
		Month:           int(p.Month),
		Entries:         []DayEntryDTO{},
		Reassignments:   []ReassignmentDTO{},
		Balances:        []BalanceDTO{},
		Holidays:        []HolidayDTO{},
		Anomalies:       []AnomalyDTO{},
		ContractedHours: p.ContractedHours.InexactFloat64(),
		ScheduledHours:  p.ScheduledHours.InexactFloat64(),
		Balance:         p.Balance.InexactFloat64(),
	}
	for _, e := range p.Entries {
		dto.Entries = append(dto.Entries, toEntryDTO(e))
	}
	for _, r := range p.Reassignments {
		dto.Reassignments = append(dto.Reassignments, toReassignmentDTO(r))
	}
	for _, b := range p.Balances {
		dto.Balances = append(dto.Balances, toBalanceDTO(b))
	}
	for _, h := range p.Holidays {
		dto.Holidays = append(dto.Holidays, toHolidayDTO(h))
	}
	for _, a := range p.Anomalies {
		dto.Anomalies = append(dto.Anomalies, toAnomalyDTO(a))
	}
	return dto
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ID string `json:"id" validate:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
