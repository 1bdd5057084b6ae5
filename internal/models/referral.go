package models

import "time"

// Campaign is a referral campaign.
type Campaign struct {
	MaxUses      *int   `json:"max_uses,omitempty"`
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	RewardAmount Amount `json:"reward_amount,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	CodesCount   int    `json:"codes_count"`
	IsActive     bool   `json:"is_active"`
}

// Key returns the primary key used to patch list rows.
func (c Campaign) Key() string { return string(c.ID) }

// CampaignInput creates or partially updates a campaign.
type CampaignInput struct {
	IsActive     *bool  `json:"is_active,omitempty"`
	MaxUses      *int   `json:"max_uses,omitempty"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	RewardAmount Amount `json:"reward_amount,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

// CampaignFilters are the query parameters of the campaign list.
type CampaignFilters struct {
	IsActive *bool  `query:"is_active"`
	Search   string `query:"search"`
	Page     int    `query:"page,omitempty"`
	PageSize int    `query:"page_size,omitempty"`
}

func (f CampaignFilters) WithPage(page int) CampaignFilters { f.Page = page; return f }
func (f CampaignFilters) CurrentPage() int                  { return f.Page }

// ReferralCode is a code that can be redeemed against a campaign.
type ReferralCode struct {
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	MaxUses    *int       `json:"max_uses,omitempty"`
	ID         ID         `json:"id"`
	Code       string     `json:"code"`
	Campaign   ID         `json:"campaign"`
	OwnerEmail string     `json:"owner_email,omitempty"`
	UsesCount  int        `json:"uses_count"`
	IsActive   bool       `json:"is_active"`
}

// Key returns the primary key used to patch list rows.
func (c ReferralCode) Key() string { return string(c.ID) }

// Usage returns the fraction of uses consumed, or -1 when unlimited.
func (c ReferralCode) Usage() float64 {
	if c.MaxUses == nil || *c.MaxUses <= 0 {
		return -1
	}
	return float64(c.UsesCount) / float64(*c.MaxUses)
}

// CodeInput creates or partially updates a referral code.
type CodeInput struct {
	IsActive   *bool  `json:"is_active,omitempty"`
	MaxUses    *int   `json:"max_uses,omitempty"`
	Code       string `json:"code,omitempty"`
	Campaign   ID     `json:"campaign,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// BulkCodeUpdate toggles many codes at once.
type BulkCodeUpdate struct {
	IsActive *bool `json:"is_active,omitempty"`
	CodeIDs  []ID  `json:"code_ids"`
}

// CodeFilters are the query parameters of the code list.
type CodeFilters struct {
	IsActive *bool  `query:"is_active"`
	Campaign ID     `query:"campaign"`
	Search   string `query:"search"`
	Page     int    `query:"page,omitempty"`
	PageSize int    `query:"page_size,omitempty"`
}

func (f CodeFilters) WithPage(page int) CodeFilters { f.Page = page; return f }
func (f CodeFilters) CurrentPage() int              { return f.Page }

// Relationship statuses.
const (
	RelationshipPending   = "pending"
	RelationshipCompleted = "completed"
	RelationshipCancelled = "cancelled"
)

// Reward statuses of a relationship.
const (
	RewardPending  = "pending"
	RewardPaid     = "paid"
	RewardRejected = "rejected"
)

// RelationshipStatuses and RewardStatuses list the values offered by the
// relationship filters, in cycle order.
var (
	RelationshipStatuses = []string{"", RelationshipPending, RelationshipCompleted, RelationshipCancelled}
	RewardStatuses       = []string{"", RewardPending, RewardPaid, RewardRejected}
)

// Relationship links a referrer and a referee through a code.
type Relationship struct {
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ID            ID         `json:"id"`
	ReferrerEmail string     `json:"referrer_email"`
	RefereeEmail  string     `json:"referee_email"`
	Code          string     `json:"code"`
	Status        string     `json:"status"`
	RewardStatus  string     `json:"reward_status"`
}

// Key returns the primary key used to patch list rows.
func (r Relationship) Key() string { return string(r.ID) }

// RelationshipUpdate changes the status of a relationship.
type RelationshipUpdate struct {
	Status       *string `json:"status,omitempty"`
	RewardStatus *string `json:"reward_status,omitempty"`
}

// RelationshipFilters are the query parameters of the relationship list.
type RelationshipFilters struct {
	Status       string `query:"status"`
	RewardStatus string `query:"reward_status"`
	Code         string `query:"code"`
	Search       string `query:"search"`
	Page         int    `query:"page,omitempty"`
	PageSize     int    `query:"page_size,omitempty"`
}

func (f RelationshipFilters) WithPage(page int) RelationshipFilters { f.Page = page; return f }
func (f RelationshipFilters) CurrentPage() int                      { return f.Page }
