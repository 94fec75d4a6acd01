package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
)

// Compartment is the investor segment a deal is offered to.
type Compartment string

const (
	CompartmentRetail       Compartment = "retail"
	CompartmentProfessional Compartment = "professional"
)

// ParseCompartment validates a compartment type. There is no default.
func ParseCompartment(s string) (Compartment, error) {
	switch c := Compartment(strings.ToLower(strings.TrimSpace(s))); c {
	case CompartmentRetail, CompartmentProfessional:
		return c, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "invalid compartment type: "+s)
	}
}

func (c Compartment) String() string { return string(c) }

// Instrument is the security type of a deal. Values outside the known set are
// accepted and stored verbatim so that an unclassified instrument resolves to
// the strictest requirements rather than being rejected at intake.
type Instrument string

const (
	InstrumentEquity          Instrument = "equity"
	InstrumentDebt            Instrument = "debt"
	InstrumentConvertibleNote Instrument = "convertible_note"
	InstrumentFundUnits       Instrument = "fund_units"
	InstrumentRealEstate      Instrument = "real_estate"
	InstrumentRevenueShare    Instrument = "revenue_share"
)

var knownInstruments = map[Instrument]struct{}{
	InstrumentEquity:          {},
	InstrumentDebt:            {},
	InstrumentConvertibleNote: {},
	InstrumentFundUnits:       {},
	InstrumentRealEstate:      {},
	InstrumentRevenueShare:    {},
}

// NormalizeInstrument trims and lower-cases an instrument type.
func NormalizeInstrument(s string) Instrument {
	return Instrument(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether the instrument has been classified.
func (i Instrument) Known() bool {
	_, ok := knownInstruments[i]
	return ok
}

// DebtLike reports whether the instrument carries repayment obligations.
func (i Instrument) DebtLike() bool {
	return i == InstrumentDebt || i == InstrumentConvertibleNote
}

func (i Instrument) String() string { return string(i) }

// DocumentKind names a disclosure document a subscriber must receive or submit.
type DocumentKind string

const (
	DocProspectus         DocumentKind = "prospectus"
	DocKeyInformation     DocumentKind = "key_information_document"
	DocPrivatePlacement   DocumentKind = "private_placement_memorandum"
	DocInvestorSupporting DocumentKind = "investor_supporting_documents"
)

// Requirements is the derived disclosure burden of a deal.
type Requirements struct {
	Prospectus        bool `json:"requires_prospectus"`
	KeyInfoDocument   bool `json:"requires_key_info_document"`
	PPM               bool `json:"requires_ppm"`
	RegulatorApproval bool `json:"requires_regulator_approval"`
}

// Documents returns the required documents in presentation order.
func (r Requirements) Documents() []DocumentKind {
	docs := make([]DocumentKind, 0, 3)
	if r.Prospectus {
		docs = append(docs, DocProspectus)
	}
	if r.KeyInfoDocument {
		docs = append(docs, DocKeyInformation)
	}
	if r.PPM {
		docs = append(docs, DocPrivatePlacement)
	}
	return docs
}

// MinRiskLevel and MaxRiskLevel bound DealProfile.RiskLevel.
const (
	MinRiskLevel = 0
	MaxRiskLevel = 10
)

// DealProfile is the compliance view of a deal. The Requires* flags are
// derived from the compartment and instrument; RegulatorApproved is a human
// sign-off that survives re-derivation.
type DealProfile struct {
	DealID                    domain.DealID
	IssuerCountry             string
	Compartment               Compartment
	Instrument                Instrument
	MinimumInvestment         decimal.Decimal
	RiskLevel                 int
	RequiresProspectus        bool
	RequiresKeyInfoDocument   bool
	RequiresPPM               bool
	RequiresRegulatorApproval bool
	RegulatorApproved         bool
	RegulatorApprovedBy       string
	RegulatorApprovedAt       *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Requirements returns the stored requirement flags.
func (d *DealProfile) Requirements() Requirements {
	return Requirements{
		Prospectus:        d.RequiresProspectus,
		KeyInfoDocument:   d.RequiresKeyInfoDocument,
		PPM:               d.RequiresPPM,
		RegulatorApproval: d.RequiresRegulatorApproval,
	}
}

// ApplyRequirements overwrites the derived flags.
func (d *DealProfile) ApplyRequirements(r Requirements) {
	d.RequiresProspectus = r.Prospectus
	d.RequiresKeyInfoDocument = r.KeyInfoDocument
	d.RequiresPPM = r.PPM
	d.RequiresRegulatorApproval = r.RegulatorApproval
}

// ApprovalPending reports whether a required regulator sign-off is missing.
func (d *DealProfile) ApprovalPending() bool {
	return d.RequiresRegulatorApproval && !d.RegulatorApproved
}

// SetRegulatorApproval records or withdraws the regulator sign-off.
func (d *DealProfile) SetRegulatorApproval(approved bool, by string, now time.Time) {
	d.RegulatorApproved = approved
	if approved {
		d.RegulatorApprovedBy = by
		at := now
		d.RegulatorApprovedAt = &at
	} else {
		d.RegulatorApprovedBy = ""
		d.RegulatorApprovedAt = nil
	}
	d.UpdatedAt = now
}

// Clone returns a copy safe to mutate.
func (d *DealProfile) Clone() *DealProfile {
	if d == nil {
		return nil
	}
	c := *d
	if d.RegulatorApprovedAt != nil {
		at := *d.RegulatorApprovedAt
		c.RegulatorApprovedAt = &at
	}
	return &c
}
