package domain

import "time"

// User is the aggregate root. Every state transition goes through its methods;
// orchestrators never set status or fields directly.
//
// id, email, createdAt and externalAuthID are fixed at creation. status,
// fullName and updatedAt may change afterwards.
type User struct {
	id             UserID
	email          Email
	fullName       FullName
	status         Status
	externalAuthID ExternalAuthID
	createdAt      time.Time
	updatedAt      time.Time
	events         []PasswordChanged
}

// RegisterUser creates a new aggregate in PENDING state. This is the only way
// to bring a user into existence.
func RegisterUser(email, fullName, externalAuthID string) (*User, error) {
	emailVO, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	nameVO, err := NewFullName(fullName)
	if err != nil {
		return nil, err
	}
	authIDVO, err := NewExternalAuthID(externalAuthID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		id:             NewUserID(),
		email:          emailVO,
		fullName:       nameVO,
		status:         StatusPending,
		externalAuthID: authIDVO,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// UserSnapshot is the persisted field set used to rehydrate an aggregate.
type UserSnapshot struct {
	ID             string
	Email          string
	FullName       string
	Status         int
	ExternalAuthID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReconstituteUser rehydrates an aggregate from persisted state. No domain
// events are generated.
func ReconstituteUser(snap UserSnapshot) (*User, error) {
	idVO, err := ParseUserID(snap.ID)
	if err != nil {
		return nil, err
	}
	emailVO, err := NewEmail(snap.Email)
	if err != nil {
		return nil, err
	}
	nameVO, err := NewFullName(snap.FullName)
	if err != nil {
		return nil, err
	}
	statusVO, err := NewStatus(snap.Status)
	if err != nil {
		return nil, err
	}
	authIDVO, err := NewExternalAuthID(snap.ExternalAuthID)
	if err != nil {
		return nil, err
	}

	return &User{
		id:             idVO,
		email:          emailVO,
		fullName:       nameVO,
		status:         statusVO,
		externalAuthID: authIDVO,
		createdAt:      snap.CreatedAt,
		updatedAt:      snap.UpdatedAt,
	}, nil
}

// Activate transitions PENDING → ACTIVE. Any other starting state breaks the
// rule and leaves the aggregate untouched.
func (u *User) Activate() error {
	if err := CheckRule(UserMustBePendingToActivate{Status: u.status}); err != nil {
		return err
	}
	u.status = StatusActive
	u.touch()
	return nil
}

// Deactivate transitions ACTIVE → INACTIVE. Any other starting state breaks
// the rule and leaves the aggregate untouched.
func (u *User) Deactivate() error {
	if err := CheckRule(UserMustBeActiveToDeactivate{Status: u.status}); err != nil {
		return err
	}
	u.status = StatusInactive
	u.touch()
	return nil
}

// UpdateProfile replaces the full name when a different value is provided.
// An empty or identical value is a no-op and does not bump updatedAt. The
// input is normalized before comparison, so surrounding whitespace alone does
// not count as a change.
func (u *User) UpdateProfile(fullName string) error {
	if fullName == "" {
		return nil
	}
	nameVO, err := NewFullName(fullName)
	if err != nil {
		return err
	}
	if nameVO.Equals(u.fullName) {
		return nil
	}
	u.fullName = nameVO
	u.touch()
	return nil
}

// ChangePassword records the completed credential rotation. It bumps updatedAt
// and buffers exactly one PasswordChanged event; status is unaffected.
func (u *User) ChangePassword() {
	u.touch()
	u.events = append(u.events, NewPasswordChanged(u.id.String(), u.email.String()))
}

// PullDomainEvents drains the buffered events in insertion order. A second
// call returns nil.
func (u *User) PullDomainEvents() []PasswordChanged {
	events := u.events
	u.events = nil
	return events
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
}

func (u *User) ID() UserID                     { return u.id }
func (u *User) Email() Email                   { return u.email }
func (u *User) FullName() FullName             { return u.fullName }
func (u *User) Status() Status                 { return u.status }
func (u *User) ExternalAuthID() ExternalAuthID { return u.externalAuthID }
func (u *User) CreatedAt() time.Time           { return u.createdAt }
func (u *User) UpdatedAt() time.Time           { return u.updatedAt }
