package attendance

import (
	"time"
)

// Attendance is one employee work-day produced by the attendance subsystem.
// Immutable input to the payroll engine.
type Attendance struct {
	ID                string
	EmployeeID        string
	CompanyID         string
	Date              time.Time
	ClockIn           *time.Time
	ClockOut          *time.Time
	WorkedMinutes     *int
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	Outstation        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Worked returns the derived worked minutes, zero when the day has no
// complete clock pair.
func (a Attendance) Worked() int {
	if a.WorkedMinutes == nil {
		return 0
	}
	return *a.WorkedMinutes
}
