// Package journal holds the month-by-month history of a simulated plan.
package journal

// Phase is the state of the plan in a given month.
type Phase string

const (
	PhaseStart        Phase = "start"
	PhaseAccumulation Phase = "accumulation"
	PhaseDecumulation Phase = "decumulation"
)

// Record is one month of history. Value columns are instantaneous; PaidIn,
// PaidOut, Tax and Costs are cumulative since month 0.
type Record struct {
	Month         int   `json:"month"`
	CalendarMonth int   `json:"calendar_month"`
	Year          int   `json:"year"`
	Phase         Phase `json:"phase"`

	TotalValue float64 `json:"total_value"`
	Reserve    float64 `json:"reserve"`
	ETFValue   float64 `json:"etf_value"`
	StockValue float64 `json:"stock_value"`

	PaidIn  float64 `json:"paid_in"`
	PaidOut float64 `json:"paid_out"`
	Tax     float64 `json:"tax"`
	Costs   float64 `json:"costs"`
}

// History is an append-only sequence of records, month 0 first.
type History []Record

// Last returns the final record, or the zero Record for an empty history.
func (h History) Last() Record {
	if len(h) == 0 {
		return Record{}
	}
	return h[len(h)-1]
}

// Summary holds the scalars derived from the final record.
type Summary struct {
	Months     int     `json:"months"`
	PaidIn     float64 `json:"paid_in"`
	PaidOut    float64 `json:"paid_out"`
	Tax        float64 `json:"tax"`
	Costs      float64 `json:"costs"`
	TotalValue float64 `json:"total_value"`
}

func (h History) Summary() Summary {
	last := h.Last()
	return Summary{
		Months:     last.Month,
		PaidIn:     last.PaidIn,
		PaidOut:    last.PaidOut,
		Tax:        last.Tax,
		Costs:      last.Costs,
		TotalValue: last.TotalValue,
	}
}

// ReturnPct is paid-out relative to paid-in, in percent.
func (s Summary) ReturnPct() float64 {
	if s.PaidIn == 0 {
		return 0
	}
	return (s.PaidOut - s.PaidIn) / s.PaidIn * 100
}
