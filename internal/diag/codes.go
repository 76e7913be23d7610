package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Unit description loading
	DescInfo          Code = 1000
	DescBadToml       Code = 1001
	DescMissingField  Code = 1002
	DescUnknownKind   Code = 1003
	DescBadExpression Code = 1004
	DescUnknownBase   Code = 1005

	// Declaration lowering
	LowInfo                 Code = 2000
	LowUnknownDeclKind      Code = 2001
	LowInconsistentProperty Code = 2002
	LowDuplicateMember      Code = 2003
	LowEmptyName            Code = 2004
	LowMissingValue         Code = 2005

	// Runtime installation
	RtInfo           Code = 3000
	RtInstallFailed  Code = 3001
	RtMemberConflict Code = 3002

	// IO
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 5000
	ObsTimings Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		DescInfo:                "Unit description information",
		DescBadToml:             "Malformed unit description",
		DescMissingField:        "Missing required field",
		DescUnknownKind:         "Unknown declaration kind",
		DescBadExpression:       "Malformed expression",
		DescUnknownBase:         "Base is not declared in this unit",
		LowInfo:                 "Lowering information",
		LowUnknownDeclKind:      "Declaration kind is not recognised",
		LowInconsistentProperty: "Property facts are inconsistent",
		LowDuplicateMember:      "Member name declared twice in one unit",
		LowEmptyName:            "Declaration has no name",
		LowMissingValue:         "Declaration has no translated value",
		RtInfo:                  "Runtime information",
		RtInstallFailed:         "Unit initializer failed",
		RtMemberConflict:        "Member already installed by another part",
		IOLoadFileError:         "I/O load file error",
		ObsInfo:                 "Observability information",
		ObsTimings:              "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DSC%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
