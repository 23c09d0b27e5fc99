// # Error Codes Reference
//
// User-facing messages carry a code that support staff can look up here.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Patterns: "file too large"
//	FILE002 - Invalid spreadsheet: File could not be read as XLSX or CSV
//	          Sentinel: ErrInvalidSheet
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//	FILE005 - Empty file: The uploaded file is empty
//	          Patterns: "empty file"
//	FILE006 - Unsupported format: Only .xlsx and .csv files are accepted
//	          Patterns: "unsupported file format"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: Another import is running
//	         Sentinel: ErrTooManyImports
//	IMP002 - Request cancelled
//	         Patterns: "context canceled"
//	IMP003 - Request timeout
//	         Patterns: "context deadline exceeded"
//	IMP004 - Invalid chunk size
//	         Patterns: "invalid chunk size"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate category name
//	        Patterns: "duplicate key", "unique constraint", "violates unique"
//	DB002 - Missing category reference
//	        Patterns: "foreign key constraint", "violates foreign key"
//	DB003 - Value rejected by a check constraint
//	        Patterns: "check constraint"
//	DB004 - Connection refused
//	        Patterns: "connection refused"
//	DB005 - Connection reset
//	        Patterns: "connection reset"
//	DB006 - Timeout
//	        Patterns: "timeout"
//	DB007 - Deadlock
//	        Patterns: "deadlock"
//
// # Artifact Errors (ART001-ART099)
//
//	ART001 - Error log not found or expired
//	         Patterns: "artifact not found"
//	ART002 - Error log could not be stored
//	         Sentinel: ErrArtifactUnavailable
//	ART003 - Malformed download link
//	         Patterns: "invalid artifact key"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the
// technical error.
//
// Sentinels are tested with errors.Is before any pattern. Patterns are
// matched case-insensitively with strings.Contains; the first match wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

// sentinelMessages are checked with errors.Is, in order.
var sentinelMessages = []sentinelMessage{
	{
		target: ErrInvalidSheet,
		msg: UserMessage{
			Message: "The file could not be read as a spreadsheet",
			Action:  "Upload an .xlsx workbook or a UTF-8 .csv file with the template columns",
			Code:    "FILE002",
		},
	},
	{
		target: ErrTooManyImports,
		msg: UserMessage{
			Message: "Another import is already running",
			Action:  "Please wait a moment and try again",
			Code:    "IMP001",
		},
	},
	{
		target: ErrArtifactUnavailable,
		msg: UserMessage{
			Message: "The import finished but its error log could not be saved",
			Action:  "Review the errors shown on screen or contact support",
			Code:    "ART002",
		},
	},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// More specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the catalog into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a spreadsheet to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a spreadsheet with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "Unsupported file format",
			Action:  "Upload an .xlsx or .csv file",
			Code:    "FILE006",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "IMP003",
		},
	},
	{
		pattern: "invalid chunk size",
		msg: UserMessage{
			Message: "Chunk size must be a whole number",
			Action:  "Leave chunk size empty to use the default of 100",
			Code:    "IMP004",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A category with this name already exists",
			Action:  "Retry the import; existing categories are reused",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "A category with this name already exists",
			Action:  "Retry the import; existing categories are reused",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A category with this name already exists",
			Action:  "Retry the import; existing categories are reused",
			Code:    "DB001",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced category does not exist",
			Action:  "Retry the import so the category is created first",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced category does not exist",
			Action:  "Retry the import so the category is created first",
			Code:    "DB002",
		},
	},
	{
		pattern: "check constraint",
		msg: UserMessage{
			Message: "A value was rejected by the database",
			Action:  "Check prices and quantities for out-of-range values",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "artifact not found",
		msg: UserMessage{
			Message: "The error log was not found or has expired",
			Action:  "Run the import again to regenerate it",
			Code:    "ART001",
		},
	},
	{
		pattern: "invalid artifact key",
		msg: UserMessage{
			Message: "The download link is not valid",
			Action:  "Use the link shown in the import result",
			Code:    "ART003",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(fmt.Errorf("%w: zip: not a valid zip file", ErrInvalidSheet))
//	// msg.Code == "FILE002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	return formatMessage(MapError(err))
}

func formatMessage(msg UserMessage) string {
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return formatMessage(e.User)
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
