package service

import (
	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

func recordToSnapshot(rec *ports.UserRecord) domain.UserSnapshot {
	return domain.UserSnapshot{
		ID:             rec.ID,
		Email:          rec.Email,
		FullName:       rec.FullName,
		Status:         rec.Status,
		ExternalAuthID: rec.ExternalAuthID,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func aggregateToRecord(u *domain.User) *ports.UserRecord {
	return &ports.UserRecord{
		ID:             u.ID().String(),
		Email:          u.Email().String(),
		FullName:       u.FullName().String(),
		Status:         u.Status().Int(),
		ExternalAuthID: u.ExternalAuthID().String(),
		CreatedAt:      u.CreatedAt(),
		UpdatedAt:      u.UpdatedAt(),
	}
}

func aggregateToUpdate(u *domain.User) ports.UpdateUserRecord {
	return ports.UpdateUserRecord{
		ID:        u.ID().String(),
		FullName:  u.FullName().String(),
		Status:    u.Status().Int(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func aggregateToView(u *domain.User) ports.UserView {
	return ports.UserView{
		ID:             u.ID().String(),
		Email:          u.Email().String(),
		FullName:       u.FullName().String(),
		Status:         u.Status().String(),
		ExternalAuthID: u.ExternalAuthID().String(),
		CreatedAt:      u.CreatedAt(),
		UpdatedAt:      u.UpdatedAt(),
	}
}
