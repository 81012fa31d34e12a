package handler

const (
	errInternalServer         = "Internal server error"
	errInvalidRequestBody     = "Invalid request body"
	errInvalidCredentials     = "Invalid email or password"
	errWeeklyScheduleNotFound = "Weekly schedule not found"
	errWeeklyScheduleConflict = "A weekly schedule for this week already exists"
	errWeeklyScheduleNotDraft = "Weekly schedule is not in draft status"
)
