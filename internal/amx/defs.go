package amx

// Def describes how the parameter blob of a mnemonic is split.
type Def struct {
	Mnemonic string
	// First field is an address (channel) specifier.
	HasChannels bool
	HasParams   bool
	Sep         byte
}

// DefaultDef applies to registered mnemonics missing from the table.
var DefaultDef = Def{HasParams: true, Sep: ','}

var defs = []Def{
	{"@WLD", false, true, ','},
	{"@AFP", false, true, ','},
	{"^AFP", false, true, ','},
	{"@GCE", false, true, ','},
	{"^GCE", false, true, ','},
	{"@APG", false, true, ';'},
	{"@CPG", false, true, ','},
	{"@DPG", false, true, ';'},
	{"@PDR", false, true, ';'},
	{"@PHE", false, true, ';'},
	{"@PHP", false, true, ';'},
	{"@PHT", false, true, ';'},
	{"@PPA", false, true, ','},
	{"^PPA", false, true, ','},
	{"@PPF", false, true, ';'},
	{"^PPF", false, true, ';'},
	{"@PPG", false, true, ';'},
	{"^PPG", false, true, ';'},
	{"@PPK", false, true, ','},
	{"^PPK", false, true, ','},
	{"@PPM", false, true, ';'},
	{"^PPM", false, true, ';'},
	{"@PPN", false, true, ';'},
	{"^PPN", false, true, ';'},
	{"@PPT", false, true, ';'},
	{"^PPT", false, true, ';'},
	{"@PPX", false, false, 0},
	{"^PPX", false, false, 0},
	{"@PSE", false, true, ';'},
	{"@PSP", false, true, ';'},
	{"@PST", false, true, ';'},
	{"PAGE", false, true, ','},
	{"^PGE", false, true, ','},
	{"PPOF", false, true, ';'},
	{"PPOG", false, true, ';'},
	{"PPON", false, true, ';'},
	{"^ANI", true, true, ','},
	{"^APF", true, true, ','},
	{"^BAT", true, true, ','},
	{"^BAU", true, true, ','},
	{"^BCB", true, true, ','},
	{"?BCB", true, true, ','},
	{"^BCF", true, true, ','},
	{"?BCF", true, true, ','},
	{"^BCT", true, true, ','},
	{"?BCT", true, true, ','},
	{"^BDO", true, true, ','},
	{"^BFB", true, true, ','},
	{"^BMP", true, true, ','},
	{"?BMP", true, true, ','},
	{"^BOP", true, true, ','},
	{"?BOP", true, true, ','},
	{"^BOR", true, true, ','},
	{"^BRD", true, true, ','},
	{"?BRD", true, true, ','},
	{"^BSP", true, true, ','},
	{"^BWW", true, true, ','},
	{"?BWW", true, true, ','},
	{"^ENA", true, true, ','},
	{"^FON", true, true, ','},
	{"?FON", true, true, ','},
	{"^GLH", true, true, ','},
	{"^GLL", true, true, ','},
	{"^ICO", true, true, ','},
	{"?ICO", true, true, ','},
	{"^JSB", true, true, ','},
	{"?JSB", true, true, ','},
	{"^JSI", true, true, ','},
	{"?JSI", true, true, ','},
	{"^JST", true, true, ','},
	{"?JST", true, true, ','},
	{"^SHO", true, true, ','},
	{"^TEC", true, true, ','},
	{"?TEC", true, true, ','},
	{"^TEF", true, true, ','},
	{"?TEF", true, true, ','},
	{"^TXT", true, true, ','},
	{"?TXT", true, true, ','},
	{"^UNI", true, true, ','},
	{"^UTF", true, true, ','},
	{"ABEEP", false, false, ','},
	{"ADBEEP", false, false, ','},
	{"@AKB", false, true, ';'},
	{"AKEYB", false, true, ','},
	{"AKEYP", false, true, ','},
	{"AKEYR", false, true, ','},
	{"@AKP", false, true, ';'},
	{"@AKR", false, false, ','},
	{"BEEP", false, false, ','},
	{"^ABP", false, false, ','},
	{"DBEEP", false, false, ','},
	{"^ADB", false, false, ','},
	{"@EKP", false, true, ';'},
	{"PKEYP", false, true, ','},
	{"@PKB", false, true, ';'},
	{"^PKB", false, true, ';'},
	{"@PKP", false, true, ';'},
	{"^PKP", false, true, ';'},
	{"SETUP", false, false, ','},
	{"^STP", false, false, ','},
	{"SHUTDOWN", false, false, ','},
	{"@SOU", false, true, ','},
	{"^SOU", false, true, ','},
	{"@TKP", false, true, ';'},
	{"^TKP", false, true, ';'},
	{"@VKB", false, false, ','},
	{"^VKB", false, false, ','},
	{"^MODEL?", false, false, ','},
	{"^VER?", false, false, ','},
	{"ON", false, true, ','},
	{"OFF", false, true, ','},
	{"LEVEL", false, true, ','},
	{"BLINK", false, true, ','},
	{"#FTR", false, true, ':'},
}

var defIndex = func() map[string]Def {
	m := make(map[string]Def, len(defs))
	for _, d := range defs {
		m[d.Mnemonic] = d
	}
	return m
}()

// LookupDef returns the split rule for mnemonic.
func LookupDef(mnemonic string) (Def, bool) {
	d, ok := defIndex[mnemonic]
	return d, ok
}
