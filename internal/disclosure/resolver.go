// Package disclosure derives the documents and approvals a deal must carry
// from its compartment and instrument type.
package disclosure

import "meridian/internal/disclosure/models"

// superset is used whenever the deal cannot be classified. Unknown inputs
// resolve to more paperwork, never less.
var superset = models.Requirements{
	Prospectus:        true,
	KeyInfoDocument:   true,
	PPM:               true,
	RegulatorApproval: true,
}

// Resolve returns the requirements for a compartment and instrument assuming
// the deal has no regulator approval yet.
func Resolve(compartment models.Compartment, instrument models.Instrument) models.Requirements {
	return resolve(compartment, instrument, false)
}

// ResolveForDeal returns the requirements for a stored deal, taking its
// current regulator approval into account.
func ResolveForDeal(deal *models.DealProfile) models.Requirements {
	if deal == nil {
		return superset
	}
	return resolve(deal.Compartment, deal.Instrument, deal.RegulatorApproved)
}

func resolve(compartment models.Compartment, instrument models.Instrument, approved bool) models.Requirements {
	switch compartment {
	case models.CompartmentRetail:
		// Retail offerings are prospectus-based and never distributed under a PPM.
		return models.Requirements{
			Prospectus:        true,
			KeyInfoDocument:   true,
			RegulatorApproval: true,
		}
	case models.CompartmentProfessional:
		if !instrument.Known() {
			return superset
		}
		req := models.Requirements{PPM: true}
		if instrument.DebtLike() && !approved {
			req.Prospectus = true
			req.KeyInfoDocument = true
		}
		return req
	default:
		return superset
	}
}
