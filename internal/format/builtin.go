package format

// builtinDefinitions are the card formats understood without any user
// definitions. They follow the fixed-format keyfile manual, with text
// fields widened to the default length as real decks write them.
var builtinDefinitions = []struct {
	keyword    string
	definition string
}{
	{"TITLE", `TITLE-A80`},
	{"PART", `
		HEADING-A80
		PID-I SECID-A MID-A`},
	{"PART_INERTIA", `
		HEADING-A80
		PID-I SECID-A MID-A
		XC-F YC-F ZC-F TM-F IRCS-I NODEID-I
		IXX-F IXY-F IXZ-F IYY-F IYZ-F IZZ-F
		VTX-F VTY-F VTZ-F VRX-F VRY-F VRZ-F
		(XL-F) (YL-F) (ZL-F) (XLIP-F) (YLIP-F) (ZLIP-F) CID-I`},
	{"CONSTRAINED_EXTRA_NODES_SET", `PID-I NSID-I`},
	{"MAT_RIGID", `
		MID-A10 RO-F E-F PR-F N-F COUPLE-F M-F
		CMO-F CON1-F CON2-F
		LCO-F A2-F A3-F V1-F V2-F V3-F`},
	{"SECTION_BEAM", `
		SECID-A1 ELFORM-I SHRF-F QR/IRID-F CST-F SCOOR-F
		A-F ISS-F ITT-F J-F SA-F`},
	{"SECTION_DISCRETE", `
		SECID-A1 DRO-I KD-F V0-F CL-F FD-F
		CDL-F TDL-F`},
	{"DEFINE_COORDINATE_SYSTEM", `
		CID-I X0-F Y0-F Z0-F XL-F YL-F ZL-F (CIDL-I)
		XP-F YP-F ZP-F`},
	{"BOUNDARY_PRESCRIBED_MOTION_NODE", `NID-I DOF-I VAD-I LCID-I`},
	{"DEFINE_SD_ORIENTATION", `VID-I IOP-I XT-F YT-F ZT-F`},
	{"SET_NODE_LIST", `
		SID-I
		NID1-I (NID2-I) (NID3-I) (NID4-I) (NID5-I) (NID6-I) (NID7-I) (NID8-I)
		...`},
	{"NODE", `NID-I8 X-F16 Y-F16 Z-F16 (TC-I8) (RC-I8)`},
	{"DEFINE_CURVE", `
		LCID-I
		A1-F20 O1-F20
		...`},
	{"MAT_SPRING_NONLINEAR_ELASTIC", `MID-A LCD-I LCR-I`},
	{"DAMPING_GLOBAL", `LCID-I VALDMP-F STX-F STY-F STZ-F SRX-F SRY-F SRZ-F`},
	{"LOAD_BODY_X", `LCID-I`},
	{"LOAD_BODY_Y", `LCID-I`},
	{"LOAD_BODY_Z", `LCID-I`},
	{"CONTROL_TERMINATION", `ENDTIM-F ENDCYC-I DTMIN-F ENDENG-F ENDMAS-F`},
	{"CONTROL_TIMESTEP", `DTINIT-F TSSFAC-F ISDO-I TSLIM-F DT2MS-F LCTM-I ERODE-I MS1ST-I`},
	{"ELEMENT_DISCRETE", `EID-I8 PID-I8 N1-I8 N2-I8 VID-I8 S-F16 PF-I8 OFFSET-F16`},
}

// Builtin returns a new table holding the built-in card formats. It panics
// if a built-in definition is malformed.
func Builtin() *Table {
	t := NewTable()
	for _, d := range builtinDefinitions {
		if err := t.Register(MustParseEntry(d.keyword, d.definition)); err != nil {
			panic(err)
		}
	}
	return t
}
