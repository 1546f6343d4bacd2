package statutory

import "time"

// Residency drives which contribution rules apply.
type Residency string

const (
	ResidencyCitizen           Residency = "citizen"
	ResidencyPermanentResident Residency = "permanent_resident"
	ResidencyForeign           Residency = "foreign"
)

type MaritalStatus string

const (
	MaritalSingle  MaritalStatus = "single"
	MaritalMarried MaritalStatus = "married"
)

// ContributionType overrides the rule selection for an employee, e.g. an
// employee who elected the voluntary scheme or holds a statutory exemption.
type ContributionType string

const (
	ContributionNormal ContributionType = "normal"
	ContributionExempt ContributionType = "exempt"
)

// Profile is the eligibility snapshot read from employee administration.
// Nil pointer fields mean the data was never captured; the calculator fills
// them with conservative defaults and flags the result for review.
type Profile struct {
	DateOfBirth      *time.Time        `json:"date_of_birth,omitempty"`
	Residency        *Residency        `json:"residency,omitempty"`
	MaritalStatus    *MaritalStatus    `json:"marital_status,omitempty"`
	SpouseWorking    *bool             `json:"spouse_working,omitempty"`
	Dependents       *int              `json:"dependents,omitempty"`
	Disabled         bool              `json:"disabled"`
	ContributionType *ContributionType `json:"contribution_type,omitempty"`
}

// normalized returns a copy with conservative defaults applied and reports
// whether any field had to be defaulted.
func (p Profile) normalized(now time.Time) (Profile, bool) {
	incomplete := false

	if p.Residency == nil {
		r := ResidencyCitizen
		p.Residency = &r
		incomplete = true
	}
	if p.MaritalStatus == nil {
		m := MaritalSingle
		p.MaritalStatus = &m
		incomplete = true
	}
	if p.SpouseWorking == nil {
		// Working spouse is the conservative assumption: no spouse relief.
		w := true
		p.SpouseWorking = &w
		incomplete = true
	}
	if p.Dependents == nil {
		d := 0
		p.Dependents = &d
		incomplete = true
	}
	if p.ContributionType == nil {
		c := ContributionNormal
		p.ContributionType = &c
	}
	if p.DateOfBirth == nil {
		incomplete = true
	}

	return p, incomplete
}

// ageAt returns the employee age in whole years, or -1 when DOB is unknown.
func (p Profile) ageAt(now time.Time) int {
	if p.DateOfBirth == nil {
		return -1
	}
	age := now.Year() - p.DateOfBirth.Year()
	if now.YearDay() < p.DateOfBirth.YearDay() {
		age--
	}
	return age
}
