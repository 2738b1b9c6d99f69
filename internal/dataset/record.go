package dataset

// Source-file column names, verbatim from the survey instrument.
const (
	ColSEQN = "SEQN"

	ColAge    = "RIDAGEYR"
	ColSex    = "RIAGENDR"
	ColRace   = "RIDRETH1"
	ColWeight = "WTMEC2YR"
	ColPSU    = "SDMVPSU"
	ColStrat  = "SDMVSTRA"

	ColWBC       = "LBXWBCSI"
	ColNeutroPct = "LBXNEPCT"
	ColLymphoPct = "LBXLYPCT"
	ColMonoPct   = "LBXMOPCT"
	ColPlatelets = "LBXPLTSI"

	ColCRP     = "LBXCRP"
	ColHSCRP   = "LBXHSCRP"
	ColMercury = "LBXTHG"

	ColSMQ020  = "SMQ020"
	ColSMQ040  = "SMQ040"
	ColALQ101  = "ALQ101"
	ColALQ120Q = "ALQ120Q"
)

// Record is one surveyed individual within one cycle. A subject appearing in
// several cycles yields independent records (the survey is cross-sectional).
// Numeric fields use NaN for "no value"; label fields use the empty string.
type Record struct {
	SEQN  int
	Cycle string

	// Demographics and survey design.
	Age      float64
	SexCode  float64
	RaceCode float64
	Weight   float64
	PSU      float64
	Stratum  float64

	// Laboratory measurements.
	WBC          float64
	NeutroPct    float64
	LymphoPct    float64
	MonoPct      float64
	Platelets    float64
	CRP          float64
	BloodMercury float64

	// Dental exam derived exposure proxy. Missing when the subject had no
	// dental exam, never coerced to zero.
	AmalgamSurfaces float64

	// Behavioral questionnaire codes.
	SMQ020  float64
	SMQ040  float64
	ALQ101  float64
	ALQ120Q float64

	// Absolute cell subpopulation counts, filled by the marker calculator.
	Neutro float64
	Lympho float64
	Mono   float64

	// Derived inflammation markers, filled by the marker calculator.
	NLR float64
	MLR float64
	PLR float64
	SII float64

	// Stratification labels, filled by the categorizer.
	AmalgamGroup   string
	Gender         string
	Race           string
	AgeGroup       string
	SmokingStatus  string
	DrinkingStatus string
}
