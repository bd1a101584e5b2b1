// Package metrics records per-tick aggregate observations of a simulation
// run and prepares them for reporting collaborators (JSON, CSV, SQLite).
package metrics

// Record is one immutable per-tick aggregate snapshot: a count per organism
// state plus the environment values the tick ended on.
type Record struct {
	TickIndex    uint64 `json:"tick_index" csv:"tick_index" db:"tick_index"`
	Intact       int    `json:"intact" csv:"intact" db:"intact"`
	Dividing     int    `json:"dividing" csv:"dividing" db:"dividing"`
	Divided      int    `json:"divided" csv:"divided" db:"divided"`
	Encysted     int    `json:"encysted" csv:"encysted" db:"encysted"`
	Excysted     int    `json:"excysted" csv:"excysted" db:"excysted"`
	Stressed     int    `json:"stressed" csv:"stressed" db:"stressed"`
	WaterQuality int    `json:"water_quality" csv:"water_quality" db:"water_quality"`
	Temperature  int    `json:"temperature" csv:"temperature" db:"temperature"`
	Month        int    `json:"month" csv:"month" db:"month"`
}

// Population is the total organism count the record describes.
func (r Record) Population() int {
	return r.Intact + r.Dividing + r.Divided + r.Encysted + r.Excysted + r.Stressed
}

// Log is an append-only, insertion-ordered sequence of records. Records are
// never rewritten; the full history is retained for the simulation's
// lifetime.
type Log struct {
	records []Record
}

// NewLog creates an empty log.
func NewLog() *Log { return &Log{} }

// Append adds one record to the end of the log.
func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
}

// Len returns the number of recorded ticks.
func (l *Log) Len() int { return len(l.records) }

// Records returns a copy of all records, oldest first.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}
