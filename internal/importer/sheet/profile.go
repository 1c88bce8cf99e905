package sheet

// Profile describes the header names of one spreadsheet layout.
// Adding a layout is just adding a Profile to the profiles slice.
type Profile struct {
	Name      string
	DateCol   string
	DescCol   string
	AmountCol string
	StatusCol string // optional; rows default to paid without it
}

func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.DescCol, p.AmountCol}
}

// profiles is tried in order during header detection.
var profiles = []Profile{
	{
		Name:      "pt-BR",
		DateCol:   "data",
		DescCol:   "descrição",
		AmountCol: "valor",
		StatusCol: "status",
	},
	{
		Name:      "en",
		DateCol:   "date",
		DescCol:   "description",
		AmountCol: "amount",
		StatusCol: "status",
	},
}
