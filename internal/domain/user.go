package domain

type UserRole string

const (
	UserRoleClient    UserRole = "CLIENT"
	UserRoleSupporter UserRole = "SUPPORTER"
)

type User struct {
	ID        int32    `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Role      UserRole `json:"role"`
	AvatarURL string   `json:"avatar_url"`
	// SessionRateCents is the supporter's per-session price; zero for clients.
	SessionRateCents int32  `json:"session_rate_cents"`
	DeviceToken      string `json:"device_token"` // FCM registration token of the user's device
	CreatedOn        string `json:"created_on"`
	UpdatedOn        string `json:"updated_on"`
}
