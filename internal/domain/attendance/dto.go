package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CorrectionRequest struct {
	ID       string  `json:"-"`
	CheckIn  string  `json:"check_in"`
	CheckOut *string `json:"check_out,omitempty"`
	Notes    *string `json:"notes,omitempty"`

	CheckInTime  time.Time  `json:"-"`
	CheckOutTime *time.Time `json:"-"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}

	checkIn, ok := validator.IsValidDateTime(r.CheckIn)
	if !ok {
		errs.Add("check_in", "check_in must be an RFC3339 timestamp")
	} else {
		r.CheckInTime = checkIn
	}

	if r.CheckOut != nil && *r.CheckOut != "" {
		checkOut, ok := validator.IsValidDateTime(*r.CheckOut)
		if !ok {
			errs.Add("check_out", "check_out must be an RFC3339 timestamp")
		} else {
			r.CheckOutTime = &checkOut
			if !r.CheckInTime.IsZero() && !checkOut.After(r.CheckInTime) {
				errs.Add("check_out", "check_out must be after check_in")
			}
		}
	}

	return errs.Err()
}

// PeriodQuery carries a date range from the query string.
type PeriodQuery struct {
	EmployeeID   string
	DepartmentID string
	StartDate    string
	EndDate      string

	Start time.Time
	End   time.Time
}

func (q *PeriodQuery) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDateIn(q.StartDate, loc)
	if !ok {
		errs.Add("start", "start must be in YYYY-MM-DD format")
	}
	end, ok2 := validator.IsValidDateIn(q.EndDate, loc)
	if !ok2 {
		errs.Add("end", "end must be in YYYY-MM-DD format")
	}
	if ok && ok2 && end.Before(start) {
		errs.Add("end", "end must not be before start")
	}

	q.Start, q.End = start, end
	return errs.Err()
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	WorkDate     string  `json:"work_date"`
	CheckIn      string  `json:"check_in"`
	CheckOut     *string `json:"check_out,omitempty"`
	LateMinutes  int     `json:"late_minutes"`
	EarlyMinutes int     `json:"early_departure_minutes"`
	Status       Status  `json:"status"`
	Open         bool    `json:"open"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		WorkDate:     a.WorkDate.Format("2006-01-02"),
		CheckIn:      a.CheckIn.Format(time.RFC3339),
		LateMinutes:  a.LateMinutes,
		EarlyMinutes: a.EarlyMinutes,
		Status:       a.Status,
		Open:         a.IsOpen(),
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if a.CheckOut != nil {
		out := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &out
	}
	return resp
}

type PeriodSummaryResponse struct {
	PeriodSummary
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func NewPeriodSummaryResponse(s PeriodSummary) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		PeriodSummary: s,
		StartDate:     s.StartDate.Format("2006-01-02"),
		EndDate:       s.EndDate.Format("2006-01-02"),
	}
}

type DepartmentReportResponse struct {
	DepartmentID          string                  `json:"department_id"`
	StartDate             string                  `json:"start_date"`
	EndDate               string                  `json:"end_date"`
	EmployeeCount         int                     `json:"employee_count"`
	AverageAttendanceRate float64                 `json:"average_attendance_rate"`
	TotalLateArrivals     int                     `json:"total_late_arrivals"`
	TotalEarlyDepartures  int                     `json:"total_early_departures"`
	Employees             []PeriodSummaryResponse `json:"employees"`
}

func NewDepartmentReportResponse(r DepartmentReport) DepartmentReportResponse {
	employees := make([]PeriodSummaryResponse, 0, len(r.Employees))
	for _, s := range r.Employees {
		employees = append(employees, NewPeriodSummaryResponse(s))
	}
	return DepartmentReportResponse{
		DepartmentID:          r.DepartmentID,
		StartDate:             r.StartDate.Format("2006-01-02"),
		EndDate:               r.EndDate.Format("2006-01-02"),
		EmployeeCount:         r.EmployeeCount,
		AverageAttendanceRate: r.AverageAttendanceRate,
		TotalLateArrivals:     r.TotalLateArrivals,
		TotalEarlyDepartures:  r.TotalEarlyDepartures,
		Employees:             employees,
	}
}
