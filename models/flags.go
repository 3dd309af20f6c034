package models

// Mapping flags, bit-compatible with the snmp-ups driver.
const (
	FlagOK          uint64 = 1 << 0 // show element to upsd
	FlagStatic      uint64 = 1 << 1 // retrieve info only once
	FlagAbsent      uint64 = 1 << 2 // data is absent in the device, use default value
	FlagStale       uint64 = 1 << 3
	FlagNegInvalid  uint64 = 1 << 4 // invalid if negative value
	FlagUnique      uint64 = 1 << 5 // only one provider of this info
	FlagSetInt      uint64 = 1 << 6 // save value into the SetVar target
	FlagOutlet      uint64 = 1 << 7 // outlet template definition
	FlagCmdOffset   uint64 = 1 << 8
	FlagOutletGroup uint64 = 1 << 10 // outlet group template definition

	StatusPwr  uint64 = 0 << 8
	StatusBatt uint64 = 1 << 8
	StatusCal  uint64 = 2 << 8
	StatusRB   uint64 = 3 << 8

	Input1  uint64 = 1 << 12
	Input3  uint64 = 1 << 13
	Output1 uint64 = 1 << 14
	Output3 uint64 = 1 << 15
	Bypass1 uint64 = 1 << 16
	Bypass3 uint64 = 1 << 17

	TypeInt    uint64 = 0 << 18
	TypeTime   uint64 = 2 << 18
	TypeCmd    uint64 = 3 << 18
	TypeDaisy1 uint64 = 1 << 19
	TypeDaisy2 uint64 = 2 << 19

	FlagFunction uint64 = 1 << 22 // value is computed by an embedded function
)

// Info flags handed to the state tree.
const (
	InfoFlagRW     = 0x0001
	InfoFlagString = 0x0002
)

// YesValue is the only attribute value that turns a flag on.
const YesValue = "yes"

// FlagAttribute binds a DMF attribute name to the bit it sets.
type FlagAttribute struct {
	Attr string
	Bit  uint64
}

// FlagAttributes is the boolean attribute vocabulary of snmp_info tags.
var FlagAttributes = []FlagAttribute{
	{"flag_ok", FlagOK},
	{"static", FlagStatic},
	{"absent", FlagAbsent},
	{"positive", FlagNegInvalid},
	{"unique", FlagUnique},
	{"power_status", StatusPwr},
	{"battery_status", StatusBatt},
	{"calibration", StatusCal},
	{"replace_battery", StatusRB},
	{"command", TypeCmd},
	{"outlet_group", FlagOutletGroup},
	{"outlet", FlagOutlet},
	{"output_1_phase", Output1},
	{"output_3_phase", Output3},
	{"input_1_phase", Input1},
	{"input_3_phase", Input3},
	{"bypass_1_phase", Bypass1},
	{"bypass_3_phase", Bypass3},
	{"daisychain", TypeDaisy1},
	{"function", FlagFunction},
}

// InfoFlagAttributes is the boolean attribute vocabulary for info flags.
var InfoFlagAttributes = []FlagAttribute{
	{"writable", InfoFlagRW},
	{"string", InfoFlagString},
}

// SetVar names the phase counter a FlagSetInt mapping stores its value in.
type SetVar string

const (
	SetVarNone         SetVar = ""
	SetVarInputPhases  SetVar = "input_phases"
	SetVarOutputPhases SetVar = "output_phases"
	SetVarBypassPhases SetVar = "bypass_phases"
)

// ParseSetVar returns the SetVar named by s and whether s is known.
func ParseSetVar(s string) (SetVar, bool) {
	switch SetVar(s) {
	case SetVarInputPhases, SetVarOutputPhases, SetVarBypassPhases:
		return SetVar(s), true
	}
	return SetVarNone, false
}
