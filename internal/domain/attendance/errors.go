package attendance

import "errors"

// Attendance domain errors
var (
	ErrEmployeeIDRequired = errors.New("employee ID is required")
	ErrCompanyIDRequired  = errors.New("company ID is required")
	ErrInvalidPeriod      = errors.New("invalid attendance period")
	ErrLogSourceFailed    = errors.New("failed to read attendance logs")
)
