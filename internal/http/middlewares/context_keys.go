package middlewares

// gin context keys shared between middlewares and handlers.
const (
	CtxRequestID = "ctx_request_id"
	CtxJobID     = "ctx_job_id"
	CtxUser      = "ctx_user"
	CtxUserID    = "ctx_user_id"
)
