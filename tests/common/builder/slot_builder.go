//go:build unit || e2e

package builder

import (
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/member"
	domslot "fitbook/internal/domain/slot"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ID          uuid.UUID
	BranchID    uuid.UUID
	FacilityID  uuid.UUID
	BenefitType benefit.Type
	StartAt     time.Time
	EndAt       time.Time
	Capacity    int32
	BookedCount int32
	IsActive    bool
}

func NewSlotBuilder() *SlotBuilder {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return &SlotBuilder{
		ID:          uuid.New(),
		BranchID:    uuid.New(),
		FacilityID:  uuid.New(),
		BenefitType: benefit.TypeSauna,
		StartAt:     start,
		EndAt:       start.Add(30 * time.Minute),
		Capacity:    4,
		BookedCount: 0,
		IsActive:    true,
	}
}

func (s *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(s)
	return s
}

func (s *SlotBuilder) WithOccupancy(booked, capacity int32) *SlotBuilder {
	s.BookedCount = booked
	s.Capacity = capacity
	return s
}

func (s *SlotBuilder) WithStartAt(t time.Time) *SlotBuilder {
	s.StartAt = t
	s.EndAt = t.Add(30 * time.Minute)
	return s
}

func (s *SlotBuilder) BuildDomain() *domslot.Slot {
	day := time.Date(s.StartAt.Year(), s.StartAt.Month(), s.StartAt.Day(), 0, 0, 0, 0, s.StartAt.Location())
	return domslot.Reconstruct(
		s.ID, s.BranchID, s.FacilityID, s.BenefitType,
		day, s.StartAt, s.EndAt,
		s.Capacity, s.BookedCount, s.IsActive,
	)
}

type FacilityConfigBuilder struct {
	Config domslot.FacilityConfig
}

func NewFacilityConfigBuilder() *FacilityConfigBuilder {
	return &FacilityConfigBuilder{
		Config: domslot.FacilityConfig{
			ID:              uuid.New(),
			BranchID:        uuid.New(),
			Name:            "Sauna 1",
			BenefitType:     benefit.TypeSauna,
			GenderAccess:    member.AccessAny,
			DefaultCapacity: 4,
			SlotMinutes:     30,
			OpenTime:        6 * time.Hour,
			CloseTime:       22 * time.Hour,
		},
	}
}

func (f *FacilityConfigBuilder) With(mutate func(*domslot.FacilityConfig)) *FacilityConfigBuilder {
	mutate(&f.Config)
	return f
}

func (f *FacilityConfigBuilder) Build() domslot.FacilityConfig {
	return f.Config
}
