package member

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrEmptyFullName = errors.New("full name cannot be empty")
)

// Member is an account at a branch: gym members and staff share the table,
// distinguished by role.
type Member struct {
	id           uuid.UUID
	branchID     uuid.UUID
	email        string
	passwordHash string
	fullName     string
	gender       Gender
	role         Role
	isActive     bool
	createdAt    time.Time
}

func NewMember(branchID uuid.UUID, email, passwordHash, fullName string, gender Gender, role Role) (*Member, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if fullName == "" {
		return nil, ErrEmptyFullName
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &Member{
		id:           uuid.New(),
		branchID:     branchID,
		email:        email,
		passwordHash: passwordHash,
		fullName:     fullName,
		gender:       gender,
		role:         role,
		isActive:     true,
	}, nil
}

func Reconstruct(id, branchID uuid.UUID, email, passwordHash, fullName string, gender Gender, role Role, isActive bool, createdAt time.Time) *Member {
	return &Member{
		id:           id,
		branchID:     branchID,
		email:        email,
		passwordHash: passwordHash,
		fullName:     fullName,
		gender:       gender,
		role:         role,
		isActive:     isActive,
		createdAt:    createdAt,
	}
}

func (m *Member) ID() uuid.UUID        { return m.id }
func (m *Member) BranchID() uuid.UUID  { return m.branchID }
func (m *Member) Email() string        { return m.email }
func (m *Member) PasswordHash() string { return m.passwordHash }
func (m *Member) FullName() string     { return m.fullName }
func (m *Member) Gender() Gender       { return m.gender }
func (m *Member) Role() Role           { return m.role }
func (m *Member) IsActive() bool       { return m.isActive }
func (m *Member) CreatedAt() time.Time { return m.createdAt }
