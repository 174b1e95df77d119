package models

// Subscription tiers a user can hold.
const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

// User represents a registered account.
type User struct {
	ID           string `json:"id" bson:"_id" validate:"omitempty,uuid"`
	Email        string `json:"email" bson:"email" validate:"required,email"`
	Password     string `json:"-" bson:"password" validate:"required,min=6"` // bcrypt hash, never serialized
	Subscription string `json:"subscription" bson:"subscription" validate:"omitempty,oneof=starter pro business"`

	// Token is the single session slot. A user has at most one live
	// session; login overwrites it and logout clears it.
	Token *string `json:"-" bson:"token"`

	AvatarURL string `json:"avatarURL" bson:"avatarURL"`

	// Verify flips to true exactly once, when the verification link is
	// visited. VerificationToken is cleared at the same time.
	Verify            bool    `json:"verify" bson:"verify"`
	VerificationToken *string `json:"-" bson:"verificationToken"`
}
