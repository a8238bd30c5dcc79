package constants

const (
	MsgPilotNotFound     = "Pilot not found"
	MsgInvalidPilotID    = "Invalid pilot id"
	MsgInvalidPassParams = "squadron_id and date are required"
	MsgUnauthorized      = "Unauthorized"
	MsgForbidden         = "Admin role required"
	MsgTooManyRequests   = "Too many requests"
)
