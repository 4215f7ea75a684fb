package entity

import "time"

type User struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	Username         string           `json:"username"`
	Timezone         string           `json:"timezone"`
	WorkingHours     WorkingHours     `json:"working_hours"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	AIQueriesUsed    int              `json:"ai_queries_used"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type UserLoginData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SubscriptionTier string

const (
	SubscriptionTierFree       SubscriptionTier = "free"
	SubscriptionTierPro        SubscriptionTier = "pro"
	SubscriptionTierTeam       SubscriptionTier = "team"
	SubscriptionTierEnterprise SubscriptionTier = "enterprise"
)

// AIQueryLimit returns the monthly assistant quota of a tier; -1 means unlimited.
func (t SubscriptionTier) AIQueryLimit() int {
	switch t {
	case SubscriptionTierPro:
		return 500
	case SubscriptionTierTeam, SubscriptionTierEnterprise:
		return -1
	default:
		return 50
	}
}

func (t SubscriptionTier) DisplayName() string {
	switch t {
	case SubscriptionTierPro:
		return "Pro"
	case SubscriptionTierTeam:
		return "Team"
	case SubscriptionTierEnterprise:
		return "Enterprise"
	default:
		return "Free"
	}
}

// Location resolves the user's IANA timezone, falling back to def.
func (u User) Location(def *time.Location) *time.Location {
	if u.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return def
	}
	return loc
}
