package adapter

import (
	"strings"

	"catalogo/internal/model"
	"catalogo/internal/normalize"
)

// AdaptDeveloper maps a raw row onto a Developer draft. The id is explicit
// when the sheet carries one, otherwise a slug of the name.
func AdaptDeveloper(row Row) *model.Developer {
	d := &model.Developer{}

	if v := strField(row, developerAliases["name"]); v != nil {
		d.Name = normalize.CleanString(*v)
	}
	if v := strField(row, developerAliases["id"]); v != nil {
		d.ID = *v
	} else if d.Name != "" {
		d.ID = normalize.Slugify(d.Name)
	}

	if v := strField(row, developerAliases["status"]); v != nil {
		d.Status = ptr(strings.ToLower(*v))
	}

	if v := strField(row, developerAliases["legalName"]); v != nil {
		d.Fiscal = &model.Fiscal{LegalName: v}
	}

	commission := model.DevrCommission{BasePct: numField(row, developerAliases["commissionBasePct"])}
	milestones := model.Milestones{
		Credit: milestoneField(row, developerAliases["milestonesCredit"]),
		Cash:   milestoneField(row, developerAliases["milestonesCash"]),
		Direct: milestoneField(row, developerAliases["milestonesDirect"]),
	}
	if len(milestones.Credit) > 0 || len(milestones.Cash) > 0 || len(milestones.Direct) > 0 {
		commission.Milestones = &milestones
	}
	if commission.BasePct != nil || commission.Milestones != nil {
		d.Commission = &commission
	}

	contact := model.Contact{
		Primary:   adaptContactPerson(row, "primary"),
		Secondary: adaptContactPerson(row, "secondary"),
	}
	if contact.Primary != nil || contact.Secondary != nil {
		d.Contact = &contact
	}

	return d
}

func adaptContactPerson(row Row, prefix string) *model.ContactPerson {
	p := model.ContactPerson{
		Name:  strField(row, developerAliases[prefix+"Name"]),
		Phone: phoneField(row, developerAliases[prefix+"Phone"]),
		Email: emailField(row, developerAliases[prefix+"Email"]),
		Role:  strField(row, developerAliases[prefix+"Role"]),
	}
	if p == (model.ContactPerson{}) {
		return nil
	}
	return &p
}
