package service

// errors.go maps technical errors to user-friendly messages with codes the
// support desk can reference. Patterns are matched case-insensitively with
// strings.Contains; the first match wins, so specific patterns come before
// general ones.
//
// Code ranges:
//
//	DB001-DB099   database constraints and connectivity
//	VAL001-VAL099 data validation and format checking
//	FILE001-FILE099 file handling and parsing
//	PLN001-PLN099 induction planning
//	RATE001       request throttling
//	ERR000        fallback

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Database constraint errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this identifier already exists",
			Action:  "Review your file for duplicate rows",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries in your file",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Upload the trainset roster before maintenance records",
			Code:    "DB003",
		},
	},

	// Database connectivity errors
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
			Action:  "Try uploading a smaller file or try again later",
			Code:    "DB006",
		},
	},

	// Validation errors
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use YYYY-MM-DD or MM/DD/YYYY",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Remove units and use standard decimal format",
			Code:    "VAL002",
		},
	},
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "Required field is empty",
			Action:  "Ensure all required columns have values",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Check the allowed values for this field",
			Code:    "VAL004",
		},
	},

	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "File is not a valid Excel workbook",
			Action:  "Re-export the sheet as .xlsx and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "decode upload",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file with UTF-8 encoding",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE005",
		},
	},

	// Planning errors
	{
		pattern: "lookup asset",
		msg: UserMessage{
			Message: "The requested asset was not found",
			Action:  "Verify the serial number is correct",
			Code:    "PLN001",
		},
	},
	{
		pattern: "no rows in result set",
		msg: UserMessage{
			Message: "The requested record was not found",
			Action:  "Verify the identifier is correct",
			Code:    "PLN002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// MapError converts a technical error into a user-friendly message.
// Unmatched errors fall back to a generic message with code ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{
			Message: "An unexpected error occurred",
			Action:  "Please try again or contact support",
			Code:    "ERR000",
		}
	}

	errText := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errText, p.pattern) {
			return p.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  fmt.Sprintf("Please try again or contact support (%s)", firstLine(err.Error())),
		Code:    "ERR000",
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
