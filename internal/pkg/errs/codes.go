package errs

import "net/http"

// 1xxx: General request handling errors
const (
	// ErrInvalidParams indicates request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates the Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates the request body is not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after the JSON body.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates the request rate limit was hit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room and score business errors
const (
	// ErrRoomNotFound indicates the requested room id does not exist.
	ErrRoomNotFound = 2001

	// ErrNotRoomMember indicates a room-scoped action was attempted on a
	// room the player does not currently belong to.
	ErrNotRoomMember = 2002
)

// 3xxx: Account and session errors
const (
	// ErrInvalidHandle indicates the handle failed format validation.
	ErrInvalidHandle = 3001

	// ErrInvalidPassword indicates the password failed length validation.
	ErrInvalidPassword = 3002

	// ErrHandleTaken indicates registration with an already-used handle.
	ErrHandleTaken = 3003

	// ErrInvalidCredentials indicates a failed login. The message does not
	// reveal whether the handle exists.
	ErrInvalidCredentials = 3004

	// ErrUnauthorized indicates a missing or invalid session token.
	ErrUnauthorized = 3005

	// ErrAlreadyLoggedIn indicates register/login while already signed in.
	ErrAlreadyLoggedIn = 3006
)

// 4xxx: Avatar storage errors
const (
	// ErrAvatarStorageUnavailable indicates avatar storage is not configured.
	ErrAvatarStorageUnavailable = 4001

	// ErrAvatarInvalid indicates an unacceptable avatar upload request.
	ErrAvatarInvalid = 4002
)

// 5xxx: Internal errors
const (
	// ErrUnknown is the catch-all internal server error.
	ErrUnknown = 5000
)

// errorMap holds the CustomError template for every code. A zero Status
// means HTTP 200 with a non-zero business code in the envelope.
var errorMap = map[int]CustomError{
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	ErrRoomNotFound:  {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrNotRoomMember: {Code: ErrNotRoomMember, Message: "You are not in this room. Pick a room first.", Status: http.StatusForbidden},

	ErrInvalidHandle:      {Code: ErrInvalidHandle, Message: "Invalid handle."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrHandleTaken:        {Code: ErrHandleTaken, Message: "That handle is already taken."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect handle or password."},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},

	ErrAvatarStorageUnavailable: {Code: ErrAvatarStorageUnavailable, Message: "Avatar uploads are not available."},
	ErrAvatarInvalid:            {Code: ErrAvatarInvalid, Message: "Invalid avatar upload."},

	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
