/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses, socket error frames and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Presence, Room and Content Errors
	ErrNotJoined:             {Code: ErrNotJoined, Message: "Join the chat before doing that."},
	ErrDuplicateConnection:   {Code: ErrDuplicateConnection, Message: "This connection has already joined."},
	ErrInvalidUsername:       {Code: ErrInvalidUsername, Message: "Username must be 1-%d characters.", Status: http.StatusBadRequest},
	ErrUnknownRecipient:      {Code: ErrUnknownRecipient, Message: "That user is no longer online."},
	ErrInvalidRoomName:       {Code: ErrInvalidRoomName, Message: "Room name must be at most %d characters."},
	ErrInvalidRoomTransition: {Code: ErrInvalidRoomTransition, Message: "Room change is not allowed right now."},
	ErrNotInRoom:             {Code: ErrNotInRoom, Message: "You are not in a room."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrEmptyMessage:          {Code: ErrEmptyMessage, Message: "Message is empty."},
	ErrAttachmentInvalid:     {Code: ErrAttachmentInvalid, Message: "Invalid attachment.", Status: http.StatusBadRequest},
	ErrFileSizeTooLarge:      {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrAttachmentNotFound:    {Code: ErrAttachmentNotFound, Message: "File not found.", Status: http.StatusNotFound},

	// 3xxx: Identity and Security Errors
	ErrUnauthorized:     {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrIdentityMismatch: {Code: ErrIdentityMismatch, Message: "Username does not match your identity."},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusBadGateway},
	ErrStorageDisabled:   {Code: ErrStorageDisabled, Message: "Attachments are not available.", Status: http.StatusServiceUnavailable},
}
