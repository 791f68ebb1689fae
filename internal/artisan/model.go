package artisan

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusSuspended:
		return true
	}
	return false
}

const (
	DefaultLimit = 20
	MaxLimit     = 100

	maxNameLength = 120
	maxBioLength  = 2000
)

type Artisan struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"userId"`
	FullName   string    `db:"full_name" json:"fullName"`
	Profession string    `db:"profession" json:"profession"`
	City       string    `db:"city" json:"city"`
	Phone      string    `db:"phone" json:"phone,omitempty"`
	WhatsApp   string    `db:"whatsapp" json:"whatsapp,omitempty"`
	Bio        string    `db:"bio" json:"bio,omitempty"`
	AvatarURL  string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Visible reports whether the profile may be shown to a viewer who is
// neither its owner nor an admin.
func (a *Artisan) Visible() bool {
	return a.Status == StatusApproved
}

type RegisterInput struct {
	FullName   string `json:"fullName"`
	Profession string `json:"profession"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	WhatsApp   string `json:"whatsapp"`
	Bio        string `json:"bio"`
	AvatarURL  string `json:"avatarUrl"`
}

func (in *RegisterInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Profession = strings.ToLower(strings.TrimSpace(in.Profession))
	in.City = strings.TrimSpace(in.City)
	in.Phone = strings.TrimSpace(in.Phone)
	in.WhatsApp = strings.TrimSpace(in.WhatsApp)
	in.Bio = strings.TrimSpace(in.Bio)
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)
}

func (in *RegisterInput) Validate() error {
	switch {
	case in.FullName == "" || utf8.RuneCountInString(in.FullName) > maxNameLength:
		return ErrInvalidFullName
	case in.Profession == "":
		return ErrInvalidProfession
	case in.City == "":
		return ErrInvalidCity
	case in.Phone == "" && in.WhatsApp == "":
		return ErrMissingContact
	case utf8.RuneCountInString(in.Bio) > maxBioLength:
		return ErrBioTooLong
	}
	return nil
}

func NewArtisan(userID uuid.UUID, in RegisterInput) *Artisan {
	return &Artisan{
		ID:         uuid.New(),
		UserID:     userID,
		FullName:   in.FullName,
		Profession: in.Profession,
		City:       in.City,
		Phone:      in.Phone,
		WhatsApp:   in.WhatsApp,
		Bio:        in.Bio,
		AvatarURL:  in.AvatarURL,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

// Filter narrows a listing. An empty Status means approved only.
type Filter struct {
	Profession string
	City       string
	Status     Status
	Limit      int
	Offset     int
}

func (f Filter) normalized() Filter {
	f.Profession = strings.ToLower(strings.TrimSpace(f.Profession))
	f.City = strings.TrimSpace(f.City)
	if f.Status == "" {
		f.Status = StatusApproved
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
