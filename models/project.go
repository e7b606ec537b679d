package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// Project groups tasks under a single leader and a set of members.
//
// Progress is derived from the statuses of the project's tasks and is
// recomputed after every task mutation; it is never taken from a client.
// Status is caller-set and independent of Progress.
type Project struct {
	ID          uint          `gorm:"primaryKey" json:"_id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(16);not null;default:'planning'" json:"status"`
	Progress    int           `gorm:"not null;default:0" json:"progress"`
	LeaderID    uint          `gorm:"not null;index" json:"leaderId"`
	Leader      *User         `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Members     []User        `gorm:"many2many:project_members" json:"members,omitempty"`
	MemberIDs   []uint        `gorm:"-" json:"memberIds"`
	StartDate   *time.Time    `json:"startDate,omitempty"`
	EndDate     *time.Time    `json:"endDate,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// AfterFind mirrors the loaded member associations into the id list the
// wire format carries.
func (p *Project) AfterFind(_ *gorm.DB) error {
	p.MemberIDs = make([]uint, 0, len(p.Members))
	for _, m := range p.Members {
		p.MemberIDs = append(p.MemberIDs, m.ID)
	}
	return nil
}

// HasMember reports whether the user is in the project's member set.
// The leader is not implicitly a member.
func (p *Project) HasMember(userID uint) bool {
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
