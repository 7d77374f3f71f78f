package cellparse

import "github.com/binsentry/cellular-bg770/celltypes"

// ParseQTEMP parses a "+QTEMP:" line: three signed Celsius temperatures
// (PMIC, PA, board).
func ParseQTEMP(line string) (celltypes.Temperatures, bool) {
	invalid := celltypes.Temperatures{
		PMIC: celltypes.Invalid, PA: celltypes.Invalid, Board: celltypes.Invalid,
	}
	body, ok := stripPrefix(line, "+QTEMP:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 3 {
		return invalid, false
	}
	pmic, ok1 := parseInt32(tok[0])
	pa, ok2 := parseInt32(tok[1])
	brd, ok3 := parseInt32(tok[2])
	if !ok1 || !ok2 || !ok3 {
		return invalid, false
	}
	return celltypes.Temperatures{PMIC: pmic, PA: pa, Board: brd}, true
}
