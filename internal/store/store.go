package store

import (
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// Session is what the store needs from the persisted session.
type Session interface {
	SessionStore
	PrefsStore
}

// Analytics groups the keyed analytics results.
type Analytics struct {
	Overview       *KeyedSlice[models.Overview]
	CallStats      *KeyedSlice[models.CallStats]
	ReferralTrends *KeyedSlice[[]models.TrendPoint]
	CallTrends     *KeyedSlice[[]models.TrendPoint]
}

// Clear drops every cached analytics result.
func (a Analytics) Clear() {
	a.Overview.Clear()
	a.CallStats.Clear()
	a.ReferralTrends.Clear()
	a.CallTrends.Clear()
}

// Store aggregates every slice of the console.
type Store struct {
	Users         *Slice[models.User, models.UserFilters]
	Admins        *Slice[models.Admin, models.AdminFilters]
	Calls         *Slice[models.Call, models.CallFilters]
	Campaigns     *Slice[models.Campaign, models.CampaignFilters]
	Codes         *Slice[models.ReferralCode, models.CodeFilters]
	Relationships *Slice[models.Relationship, models.RelationshipFilters]
	Balances      *Slice[models.Balance, models.BalanceFilters]
	Settings      *Slice[models.Setting, models.SettingFilters]
	Auth          *Auth
	UI            *UI
	Exports       *Exports
	Analytics     Analytics
}

// New creates a store. pageSize is applied to every list filter.
func New(session Session, pageSize int) *Store {
	return &Store{
		Users:         NewSlice(models.User.Key, models.UserFilters{PageSize: pageSize}),
		Admins:        NewSlice(models.Admin.Key, models.AdminFilters{PageSize: pageSize}),
		Calls:         NewSlice(models.Call.Key, models.CallFilters{PageSize: pageSize}),
		Campaigns:     NewSlice(models.Campaign.Key, models.CampaignFilters{PageSize: pageSize}),
		Codes:         NewSlice(models.ReferralCode.Key, models.CodeFilters{PageSize: pageSize}),
		Relationships: NewSlice(models.Relationship.Key, models.RelationshipFilters{PageSize: pageSize}),
		Balances:      NewSlice(models.Balance.Key, models.BalanceFilters{PageSize: pageSize}),
		Settings:      NewSlice(func(s models.Setting) string { return s.Key }, models.SettingFilters{PageSize: pageSize}),
		Auth:          NewAuth(session),
		UI:            NewUI(session),
		Exports:       &Exports{},
		Analytics: Analytics{
			Overview:       NewKeyedSlice[models.Overview](),
			CallStats:      NewKeyedSlice[models.CallStats](),
			ReferralTrends: NewKeyedSlice[[]models.TrendPoint](),
			CallTrends:     NewKeyedSlice[[]models.TrendPoint](),
		},
	}
}

// Reset drops every loaded resource. It runs when the session ends so the
// next admin starts from an empty console.
func (s *Store) Reset() {
	s.Users.Reset()
	s.Admins.Reset()
	s.Calls.Reset()
	s.Campaigns.Reset()
	s.Codes.Reset()
	s.Relationships.Reset()
	s.Balances.Reset()
	s.Settings.Reset()
	s.Analytics.Clear()
	s.Exports.ClearTask()
	s.Exports.ClearError()
}
