package dynamo

// DynamoDB attribute names shared across repos and partial-update maps.
const (
	fieldUsername       = "username"
	fieldEmail          = "email"
	fieldRole           = "role"
	fieldActive         = "active"
	fieldVerified       = "verified"
	fieldEnable         = "enable"
	fieldStatus         = "status"
	fieldToken          = "token"
	fieldTokenExpiresAt = "token_expires_at"
	fieldUsed           = "used"
	fieldUpdatedAt      = "updated_at"
)
