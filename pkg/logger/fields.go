package logger

// Standard field names for consistent logging.
const (
	FieldService   = "service"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldUserID    = "user_id"
	FieldChatID    = "chat_id"
	FieldChannelID = "channel_id"
	FieldAdminID   = "admin_id"
	FieldContext   = "context"
)
