package rentlens

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular marketplace participant (rent and list gear)
	RoleUser UserRole = "user"
	// RoleAdmin is a back-office operator, confined to the admin area
	RoleAdmin UserRole = "admin"
)

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	switch roleStr {
	case RoleUser, RoleAdmin:
		return UserRole(roleStr), true
	default:
		return "", false
	}
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	DisplayName    string     `bun:"display_name,notnull" json:"display_name,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	AvatarURL      string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"password_hash,omitempty"`
	Banned         bool       `bun:"is_banned,notnull,default:false" json:"is_banned,omitempty"`
	BannedAt       *time.Time `bun:"banned_at,nullzero" json:"banned_at,omitempty"`
	BanReason      string     `bun:"ban_reason" json:"ban_reason,omitempty"`
	Confirmed      bool       `bun:"is_confirmed,notnull,default:true" json:"is_confirmed,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at,nullzero" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at,nullzero" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// ProductStatus tracks a listing's visibility
type ProductStatus = string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusListed    ProductStatus = "listed"
	ProductStatusSuspended ProductStatus = "suspended"
)

// Product is a camera-equipment listing
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID     `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Name          string        `bun:"name,notnull" json:"name,omitempty"`
	Description   string        `bun:"description" json:"description,omitempty"`
	Category      string        `bun:"category,notnull" json:"category,omitempty"`
	DailyRate     int64         `bun:"daily_rate_cents,notnull" json:"daily_rate_cents,omitempty"`
	ImageURL      string        `bun:"image_url" json:"image_url,omitempty"`
	Status        ProductStatus `bun:"status,notnull,default:'draft'" json:"status,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// BookingStatus tracks the rental lifecycle
type BookingStatus = string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a rental reservation for a product over a date range
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:bkg"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProductID     uuid.UUID     `bun:"product_id,notnull,type:uuid" json:"product_id,omitempty"`
	RenterID      uuid.UUID     `bun:"renter_id,notnull,type:uuid" json:"renter_id,omitempty"`
	StartDate     time.Time     `bun:"start_date,notnull" json:"start_date,omitempty"`
	EndDate       time.Time     `bun:"end_date,notnull" json:"end_date,omitempty"`
	TotalPrice    int64         `bun:"total_price_cents,notnull" json:"total_price_cents,omitempty"`
	Status        BookingStatus `bun:"status,notnull,default:'pending'" json:"status,omitempty"`
	PaymentProof  string        `bun:"payment_proof_url" json:"payment_proof_url,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// ReportStatus tracks moderation of a user report
type ReportStatus = string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Report is a user-filed complaint against another user or listing
type Report struct {
	bun.BaseModel `bun:"table:reports,alias:rpt"`
	ID            uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ReporterID    uuid.UUID    `bun:"reporter_id,notnull,type:uuid" json:"reporter_id,omitempty"`
	TargetUserID  *uuid.UUID   `bun:"target_user_id,nullzero,type:uuid" json:"target_user_id,omitempty"`
	ProductID     *uuid.UUID   `bun:"product_id,nullzero,type:uuid" json:"product_id,omitempty"`
	Reason        string       `bun:"reason,notnull" json:"reason,omitempty"`
	Status        ReportStatus `bun:"status,notnull,default:'open'" json:"status,omitempty"`
	Resolution    string       `bun:"resolution" json:"resolution,omitempty"`
	ResolvedBy    *uuid.UUID   `bun:"resolved_by,nullzero,type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time   `bun:"resolved_at,nullzero" json:"resolved_at,omitempty"`
	CreatedAt     *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// MarkBanned stamps the ban fields; persistence happens in the repository.
func (u *User) MarkBanned(reason string, at time.Time) *User {
	u.Banned = true
	u.BannedAt = &at
	u.BanReason = reason
	return u
}

// MarkUnbanned clears the ban fields.
func (u *User) MarkUnbanned() *User {
	u.Banned = false
	u.BannedAt = nil
	u.BanReason = ""
	return u
}
