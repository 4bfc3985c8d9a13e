/* models.go
 * This file contains structs shared between the api sub packages and the bot
 */

package shared

// User represents the Discord user an interaction is attributed to
type User struct {
	UserID   string
	Username string
}
