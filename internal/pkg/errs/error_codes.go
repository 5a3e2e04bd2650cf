/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Presence, Room and Content Errors
const (
	// ErrNotJoined indicates an operation from a connection that has not announced a username yet.
	ErrNotJoined = 2001

	// ErrDuplicateConnection indicates that the connection identity is already registered.
	ErrDuplicateConnection = 2002

	// ErrInvalidUsername indicates an empty or over-long display name.
	ErrInvalidUsername = 2003

	// ErrUnknownRecipient indicates that a private message target is not a live connection.
	ErrUnknownRecipient = 2004

	// ErrInvalidRoomName indicates an over-long or malformed room name.
	ErrInvalidRoomName = 2101

	// ErrInvalidRoomTransition indicates a room change requested by a connection that cannot move.
	ErrInvalidRoomTransition = 2102

	// ErrNotInRoom indicates a room-scoped send from a connection that is in the global room.
	ErrNotInRoom = 2103

	// ErrMessageContentTooLong indicates that the user's message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrEmptyMessage indicates a message with neither body nor attachment.
	ErrEmptyMessage = 2202

	// ErrAttachmentInvalid indicates an attachment reference that failed validation.
	ErrAttachmentInvalid = 2203

	// ErrFileSizeTooLarge indicates an attachment above the size limit.
	ErrFileSizeTooLarge = 2204

	// ErrAttachmentNotFound indicates a download request for an object that does not exist.
	ErrAttachmentNotFound = 2205
)

// 3xxx: Identity and Security Errors
const (
	// ErrUnauthorized indicates a missing or invalid identity token where one is required.
	ErrUnauthorized = 3001

	// ErrIdentityMismatch indicates a join username that differs from the verified identity.
	ErrIdentityMismatch = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates a failure talking to the attachment store.
	ErrFileStorageFailed = 5001

	// ErrStorageDisabled indicates that attachment storage is not configured.
	ErrStorageDisabled = 5002
)
