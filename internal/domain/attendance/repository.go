package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// ListByEmployeePeriod returns the employee's records between from and to
	// inclusive, sorted by date ascending.
	ListByEmployeePeriod(ctx context.Context, employeeID string, companyID string, from, to time.Time) ([]Attendance, error)
}
