package registry

import (
	"fmt"
	"strconv"
)

// Cycle identifies one two-year survey wave, e.g. "1999-2000".
type Cycle string

// StartYear returns the first calendar year of the cycle, parsed from the
// first four characters of the label.
func (c Cycle) StartYear() (int, error) {
	if len(c) < 4 {
		return 0, fmt.Errorf("cycle label too short: %q", c)
	}
	year, err := strconv.Atoi(string(c)[:4])
	if err != nil {
		return 0, fmt.Errorf("parse cycle start year from %q: %w", c, err)
	}
	return year, nil
}

// Table labels used throughout the pipeline and the download log.
const (
	LabelCBC          = "CBC"
	LabelDemographics = "Demographics"
	LabelDental       = "Dental"
	LabelCRP          = "CRP"
	LabelMercury      = "Mercury"
	LabelSmoking      = "Smoking"
	LabelAlcohol      = "Alcohol"
)

// FileSet holds the source file names for one cycle. CBC, Demographics and
// Dental are required for the cycle to enter the combined dataset; the rest
// are optional enrichments.
type FileSet struct {
	CBC          string
	Demographics string
	Dental       string
	CRP          string
	Mercury      string
	Smoking      string
	Alcohol      string
}

// Required returns the file names the merger cannot proceed without.
func (fs FileSet) Required() []string {
	return []string{fs.CBC, fs.Demographics, fs.Dental}
}

// Labeled returns label -> filename for every non-empty entry, used by the
// downloader and the download log.
func (fs FileSet) Labeled() map[string]string {
	m := map[string]string{
		LabelCBC:          fs.CBC,
		LabelDemographics: fs.Demographics,
		LabelDental:       fs.Dental,
		LabelCRP:          fs.CRP,
		LabelMercury:      fs.Mercury,
		LabelSmoking:      fs.Smoking,
		LabelAlcohol:      fs.Alcohol,
	}
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

// cycleOrder fixes processing and concatenation order for the whole pipeline.
var cycleOrder = []Cycle{
	"1999-2000",
	"2001-2002",
	"2003-2004",
	"2005-2006",
	"2007-2008",
	"2009-2010",
	"2011-2012",
	"2013-2014",
	"2015-2016",
	"2017-2018",
}

// Historical archive file names vary by cycle; the registry is the single
// source of truth for name resolution. Codes are verbatim from the survey
// archive and must not be normalized.
var cycleFiles = map[Cycle]FileSet{
	"1999-2000": {CBC: "L40_0.xpt", Demographics: "DEMO.xpt", Dental: "OHXDENT.xpt", CRP: "LAB11.xpt", Mercury: "LAB06HM.xpt", Smoking: "SMQ.xpt", Alcohol: "ALQ.xpt"},
	"2001-2002": {CBC: "L25_B.xpt", Demographics: "DEMO_B.xpt", Dental: "OHXDEN_B.xpt", CRP: "L11_B.xpt", Mercury: "L06_2_B.xpt", Smoking: "SMQ_B.xpt", Alcohol: "ALQ_B.xpt"},
	"2003-2004": {CBC: "L25_C.xpt", Demographics: "DEMO_C.xpt", Dental: "OHXDEN_C.xpt", CRP: "L11_C.xpt", Mercury: "L06BMT_C.xpt", Smoking: "SMQ_C.xpt", Alcohol: "ALQ_C.xpt"},
	"2005-2006": {CBC: "CBC_D.xpt", Demographics: "DEMO_D.xpt", Dental: "OHXDEN_D.xpt", CRP: "CRP_D.xpt", Mercury: "PbCd_D.xpt", Smoking: "SMQ_D.xpt", Alcohol: "ALQ_D.xpt"},
	"2007-2008": {CBC: "CBC_E.xpt", Demographics: "DEMO_E.xpt", Dental: "OHXDEN_E.xpt", CRP: "CRP_E.xpt", Mercury: "PbCd_E.xpt", Smoking: "SMQ_E.xpt", Alcohol: "ALQ_E.xpt"},
	"2009-2010": {CBC: "CBC_F.xpt", Demographics: "DEMO_F.xpt", Dental: "OHXDEN_F.xpt", CRP: "CRP_F.xpt", Mercury: "PbCd_F.xpt", Smoking: "SMQ_F.xpt", Alcohol: "ALQ_F.xpt"},
	"2011-2012": {CBC: "CBC_G.xpt", Demographics: "DEMO_G.xpt", Dental: "OHXDEN_G.xpt", CRP: "CRP_G.xpt", Mercury: "PbCd_G.xpt", Smoking: "SMQ_G.xpt", Alcohol: "ALQ_G.xpt"},
	"2013-2014": {CBC: "CBC_H.xpt", Demographics: "DEMO_H.xpt", Dental: "OHXDEN_H.xpt", CRP: "CRP_H.xpt", Mercury: "PBCD_H.xpt", Smoking: "SMQ_H.xpt", Alcohol: "ALQ_H.xpt"},
	"2015-2016": {CBC: "CBC_I.xpt", Demographics: "DEMO_I.xpt", Dental: "OHXDEN_I.xpt", CRP: "HSCRP_I.xpt", Mercury: "PBCD_I.xpt", Smoking: "SMQ_I.xpt", Alcohol: "ALQ_I.xpt"},
	"2017-2018": {CBC: "CBC_J.xpt", Demographics: "DEMO_J.xpt", Dental: "OHXDEN_J.xpt", CRP: "HSCRP_J.xpt", Mercury: "PBCD_J.xpt", Smoking: "SMQ_J.xpt", Alcohol: "ALQ_J.xpt"},
}

var cycleBaseURLs = map[Cycle]string{
	"1999-2000": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/1999/DataFiles/",
	"2001-2002": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2001/DataFiles/",
	"2003-2004": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2003/DataFiles/",
	"2005-2006": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2005/DataFiles/",
	"2007-2008": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2007/DataFiles/",
	"2009-2010": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2009/DataFiles/",
	"2011-2012": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2011/DataFiles/",
	"2013-2014": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2013/DataFiles/",
	"2015-2016": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2015/DataFiles/",
	"2017-2018": "https://wwwn.cdc.gov/Nchs/Data/Nhanes/Public/2017/DataFiles/",
}

// Cycles returns every registered cycle in declared processing order.
func Cycles() []Cycle {
	out := make([]Cycle, len(cycleOrder))
	copy(out, cycleOrder)
	return out
}

// Files returns the source file set for a cycle.
func Files(c Cycle) (FileSet, bool) {
	fs, ok := cycleFiles[c]
	return fs, ok
}

// BaseURL returns the archive location the cycle's files are retrieved from.
func BaseURL(c Cycle) (string, bool) {
	u, ok := cycleBaseURLs[c]
	return u, ok
}
