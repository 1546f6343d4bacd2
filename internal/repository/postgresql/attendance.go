package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/domain/attendance"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListByEmployeePeriod(ctx context.Context, employeeID string, companyID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, clock_in, clock_out, worked_minutes,
			   clock_in_latitude, clock_in_longitude, clock_out_latitude, clock_out_longitude,
			   is_outstation, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND company_id = $2
		  AND date >= $3 AND date <= $4
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.ClockIn, &a.ClockOut, &a.WorkedMinutes,
			&a.ClockInLatitude, &a.ClockInLongitude, &a.ClockOutLatitude, &a.ClockOutLongitude,
			&a.Outstation, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, a)
	}

	return records, rows.Err()
}
