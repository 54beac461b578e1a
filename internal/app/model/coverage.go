package model

// Cardinality says whether a coverage type is stored as flat columns on its
// record (Single) or as numbered plan rows (Repeatable).
type Cardinality int

const (
	Single Cardinality = iota
	Repeatable
)

// CoverageType is one row of the coverage catalogue.
type CoverageType struct {
	Prefix      string
	Label       string
	Cardinality Cardinality
}

// BenefitCoverages lists employee benefit coverage types in canonical order.
var BenefitCoverages = []CoverageType{
	{Prefix: "medical", Label: "Medical", Cardinality: Repeatable},
	{Prefix: "dental", Label: "Dental", Cardinality: Repeatable},
	{Prefix: "vision", Label: "Vision", Cardinality: Repeatable},
	{Prefix: "life_adnd", Label: "Life & AD&D", Cardinality: Repeatable},
	{Prefix: "ltd", Label: "LTD", Cardinality: Single},
	{Prefix: "std", Label: "STD", Cardinality: Single},
	{Prefix: "k401", Label: "401K", Cardinality: Single},
	{Prefix: "critical_illness", Label: "Critical Illness", Cardinality: Single},
	{Prefix: "accident", Label: "Accident", Cardinality: Single},
	{Prefix: "hospital", Label: "Hospital", Cardinality: Single},
	{Prefix: "voluntary_life", Label: "Voluntary Life", Cardinality: Single},
}

// CommercialCoverages lists commercial insurance product types in canonical order.
var CommercialCoverages = []CoverageType{
	{Prefix: "umbrella", Label: "Umbrella", Cardinality: Repeatable},
	{Prefix: "professional_eo", Label: "Professional E&O", Cardinality: Repeatable},
	{Prefix: "cyber", Label: "Cyber", Cardinality: Repeatable},
	{Prefix: "crime", Label: "Crime", Cardinality: Repeatable},
	{Prefix: "general_liability", Label: "General Liability", Cardinality: Single},
	{Prefix: "property", Label: "Property", Cardinality: Single},
	{Prefix: "bop", Label: "BOP", Cardinality: Single},
	{Prefix: "workers_comp", Label: "Workers Comp", Cardinality: Single},
	{Prefix: "auto", Label: "Auto", Cardinality: Single},
	{Prefix: "epli", Label: "EPLI", Cardinality: Single},
	{Prefix: "nydbl", Label: "NYDBL", Cardinality: Single},
	{Prefix: "surety", Label: "Surety", Cardinality: Single},
	{Prefix: "product_liability", Label: "Product Liability", Cardinality: Single},
	{Prefix: "flood", Label: "Flood", Cardinality: Single},
	{Prefix: "directors_officers", Label: "Directors & Officers", Cardinality: Single},
	{Prefix: "fiduciary", Label: "Fiduciary", Cardinality: Single},
	{Prefix: "inland_marine", Label: "Inland Marine", Cardinality: Single},
}

// FilterCoverages returns the catalogue entries with the given cardinality.
func FilterCoverages(catalogue []CoverageType, c Cardinality) []CoverageType {
	var out []CoverageType
	for _, ct := range catalogue {
		if ct.Cardinality == c {
			out = append(out, ct)
		}
	}
	return out
}

// LookupCoverage finds a catalogue entry by prefix.
func LookupCoverage(catalogue []CoverageType, prefix string) (CoverageType, bool) {
	for _, ct := range catalogue {
		if ct.Prefix == prefix {
			return ct, true
		}
	}
	return CoverageType{}, false
}

// IsRepeatable reports whether prefix names a repeatable type in catalogue.
func IsRepeatable(catalogue []CoverageType, prefix string) bool {
	ct, ok := LookupCoverage(catalogue, prefix)
	return ok && ct.Cardinality == Repeatable
}
