/*
Package user contains the identity of a chat participant as the relay sees it.

A participant is one live connection carrying a display name; the same person
reconnecting gets a new connection identity under the same display name.
*/
package user

// User is one connected participant as listed in presence snapshots.
// Field names follow the wire format the web client consumes.
type User struct {
	// ID is the opaque connection identity.
	ID string `json:"id"`

	// Username is the display name chosen at join time; not unique across time.
	Username string `json:"username"`
}
