package models

import (
	"time"
)

type User struct {
	ID            string     `json:"id" gorm:"primaryKey;type:text"`
	RoleTier      string     `json:"roleTier" gorm:"type:text;not null;default:'ANONYMOUS'"`
	TrustScore    int64      `json:"trustScore" gorm:"type:bigint;not null;default:0"`
	EmailVerified bool       `json:"emailVerified" gorm:"type:boolean;not null;default:false"`
	BanLevel      int        `json:"banLevel" gorm:"type:integer;not null;default:0"`
	BannedUntil   *time.Time `json:"bannedUntil" gorm:"type:timestamp with time zone"`
	CDate         time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Claim struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	AuthorID  string    `json:"authorId" gorm:"type:text;index;not null"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title     string    `json:"title" gorm:"type:text;not null"`
	Body      string    `json:"body" gorm:"type:text"`
	Status    string    `json:"status" gorm:"type:text;index;not null;default:'SUBMITTED'"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type ClaimVote struct {
	ClaimID   string    `json:"claimId" gorm:"type:text;primaryKey"`
	Claim     Claim     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	UserID    string    `json:"userId" gorm:"type:text;primaryKey;index"`
	Direction int       `json:"direction" gorm:"type:integer;not null"`
	Weight    float64   `json:"weight" gorm:"type:double precision;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Dispute struct {
	ID          string          `json:"id" gorm:"primaryKey;type:text"`
	ClaimID     string          `json:"claimId" gorm:"type:text;index;not null"`
	Claim       Claim           `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	SubmitterID string          `json:"submitterId" gorm:"type:text;index;not null"`
	Reason      string          `json:"reason" gorm:"type:text;not null"`
	Status      string          `json:"status" gorm:"type:text;index;not null;default:'PENDING'"`
	Sources     []DisputeSource `json:"sources" gorm:"constraint:OnDelete:CASCADE;"`
	ResolvedAt  *time.Time      `json:"resolvedAt" gorm:"type:timestamp with time zone"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type DisputeSource struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	DisputeID string `json:"disputeId" gorm:"type:text;index;not null"`
	URL       string `json:"url" gorm:"type:text;not null"`
	Title     string `json:"title" gorm:"type:text"`
	Type      string `json:"type" gorm:"type:text"`
}

type DisputeVote struct {
	DisputeID string    `json:"disputeId" gorm:"type:text;primaryKey"`
	Dispute   Dispute   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	UserID    string    `json:"userId" gorm:"type:text;primaryKey;index"`
	Direction int       `json:"direction" gorm:"type:integer;not null"`
	Weight    float64   `json:"weight" gorm:"type:double precision;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type TrustActionConfig struct {
	ActionName string `json:"actionName" gorm:"primaryKey;type:text"`
	Points     int64  `json:"points" gorm:"type:bigint;not null"`
}

type RoleWeightConfig struct {
	RoleTier   string  `json:"roleTier" gorm:"primaryKey;type:text"`
	BaseWeight float64 `json:"baseWeight" gorm:"type:double precision;not null"`
}

type TrustModifierConfig struct {
	ID       int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	MinTrust *int64  `json:"minTrust" gorm:"type:bigint"`
	MaxTrust *int64  `json:"maxTrust" gorm:"type:bigint"`
	Modifier float64 `json:"modifier" gorm:"type:double precision;not null"`
}
